// Package entity 定义领域实体
package entity

import "time"

// LLMUsageEvent 一次成功生成的用量审计记录
type LLMUsageEvent struct {
	ID               string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID           string    `json:"user_id" gorm:"type:uuid;index;not null"`
	ServiceID        string    `json:"service_id" gorm:"type:uuid;index;not null"`
	Model            string    `json:"model" gorm:"type:varchar(64);not null"`
	TokensPrompt     int       `json:"tokens_prompt" gorm:"not null;default:0"`
	TokensCompletion int       `json:"tokens_completion" gorm:"not null;default:0"`
	TokensTotal      int       `json:"tokens_total" gorm:"not null;default:0"`
	DurationMs       int       `json:"duration_ms" gorm:"not null;default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (LLMUsageEvent) TableName() string {
	return "llm_usage_events"
}
