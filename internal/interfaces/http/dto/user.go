// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"qanoni-ai-api/internal/domain/entity"
)

// UserResponse 用户响应
type UserResponse struct {
	ID             string          `json:"id"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	Role           entity.UserRole `json:"role"`
	TokenBalance   int64           `json:"token_balance"`
	ConsumedTokens int64           `json:"consumed_tokens"`
	Jurisdiction   string          `json:"jurisdiction,omitempty"`
	Language       string          `json:"language"`
	LastLoginAt    *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=128"`
	Jurisdiction *string `json:"jurisdiction" binding:"omitempty,max=128"`
	Language     *string `json:"language" binding:"omitempty,oneof=ar en"`
}

// GrantTokensRequest 管理员充值请求
type GrantTokensRequest struct {
	Tokens int64 `json:"tokens" binding:"required,gt=0"`
}

// UsageEventResponse 用量流水响应
type UsageEventResponse struct {
	ID         string    `json:"id"`
	ServiceID  string    `json:"service_id"`
	Model      string    `json:"model"`
	Tokens     int       `json:"tokens"`
	DurationMs int       `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToUserResponse 实体转换为响应
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		TokenBalance:   u.TokenBalance,
		ConsumedTokens: u.ConsumedTokens,
		Jurisdiction:   u.Jurisdiction,
		Language:       string(u.PreferredLanguage),
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
	}
}

// ApplyToUser 更新实体
func (r *UpdateProfileRequest) ApplyToUser(u *entity.User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.Jurisdiction != nil {
		u.Jurisdiction = *r.Jurisdiction
	}
	if r.Language != nil {
		u.PreferredLanguage = entity.ParseLanguage(*r.Language)
	}
	u.UpdatedAt = time.Now()
}

// ToUsageEventResponse 流水实体转换为响应
func ToUsageEventResponse(e *entity.LLMUsageEvent) *UsageEventResponse {
	if e == nil {
		return nil
	}
	return &UsageEventResponse{
		ID:         e.ID,
		ServiceID:  e.ServiceID,
		Model:      e.Model,
		Tokens:     e.TokensTotal,
		DurationMs: e.DurationMs,
		CreatedAt:  e.CreatedAt,
	}
}
