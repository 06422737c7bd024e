// Package entity 定义领域实体
package entity

import "time"

// SubscriptionStatus 订阅状态
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

// Subscription 订阅记录。由支付后台的 Webhook 驱动写入，
// 本服务不直接调用支付方 API。
type Subscription struct {
	ID     string `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID string `json:"user_id" gorm:"type:uuid;index;not null"`
	PlanID string `json:"plan_id" gorm:"type:uuid;index;not null"`
	// ExternalID 支付后台的订阅标识，Webhook 以它做幂等
	ExternalID       string             `json:"external_id" gorm:"type:varchar(128);uniqueIndex;not null"`
	Status           SubscriptionStatus `json:"status" gorm:"type:varchar(32);not null"`
	CurrentPeriodEnd time.Time          `json:"current_period_end"`
	CreatedAt        time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Subscription) TableName() string {
	return "subscriptions"
}

// IsActive 订阅是否有效
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive && time.Now().Before(s.CurrentPeriodEnd)
}
