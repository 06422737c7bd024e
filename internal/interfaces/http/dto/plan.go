// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"qanoni-ai-api/internal/domain/entity"
)

// PlanResponse 套餐响应（按请求语言本地化）
type PlanResponse struct {
	ID            string `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	MonthlyTokens int64  `json:"monthly_tokens"`
	PriceCents    int64  `json:"price_cents"`
	Currency      string `json:"currency"`
}

// CreatePlanRequest 创建套餐请求
type CreatePlanRequest struct {
	Slug            string `json:"slug" binding:"required,max=128"`
	NameAr          string `json:"name_ar" binding:"required,max=255"`
	NameEn          string `json:"name_en" binding:"required,max=255"`
	DescriptionAr   string `json:"description_ar"`
	DescriptionEn   string `json:"description_en"`
	MonthlyTokens   int64  `json:"monthly_tokens" binding:"required,gt=0"`
	PriceCents      int64  `json:"price_cents" binding:"gte=0"`
	Currency        string `json:"currency" binding:"omitempty,max=8"`
	ExternalPriceID string `json:"external_price_id" binding:"omitempty,max=128"`
	SortOrder       int    `json:"sort_order"`
}

// UpdatePlanRequest 更新套餐请求
type UpdatePlanRequest struct {
	NameAr          *string `json:"name_ar" binding:"omitempty,max=255"`
	NameEn          *string `json:"name_en" binding:"omitempty,max=255"`
	DescriptionAr   *string `json:"description_ar"`
	DescriptionEn   *string `json:"description_en"`
	MonthlyTokens   *int64  `json:"monthly_tokens" binding:"omitempty,gt=0"`
	PriceCents      *int64  `json:"price_cents" binding:"omitempty,gte=0"`
	Currency        *string `json:"currency" binding:"omitempty,max=8"`
	ExternalPriceID *string `json:"external_price_id" binding:"omitempty,max=128"`
	SortOrder       *int    `json:"sort_order"`
	Active          *bool   `json:"active"`
}

// ApplyToPlan 更新实体
func (r *UpdatePlanRequest) ApplyToPlan(p *entity.Plan) {
	if r.NameAr != nil {
		p.NameAr = *r.NameAr
	}
	if r.NameEn != nil {
		p.NameEn = *r.NameEn
	}
	if r.DescriptionAr != nil {
		p.DescriptionAr = *r.DescriptionAr
	}
	if r.DescriptionEn != nil {
		p.DescriptionEn = *r.DescriptionEn
	}
	if r.MonthlyTokens != nil {
		p.MonthlyTokens = *r.MonthlyTokens
	}
	if r.PriceCents != nil {
		p.PriceCents = *r.PriceCents
	}
	if r.Currency != nil {
		p.Currency = *r.Currency
	}
	if r.ExternalPriceID != nil {
		p.ExternalPriceID = *r.ExternalPriceID
	}
	if r.SortOrder != nil {
		p.SortOrder = *r.SortOrder
	}
	if r.Active != nil {
		p.Active = *r.Active
	}
}

// SubscriptionWebhookRequest 支付后台订阅事件。
// 同一事件可能重复投递，按 subscription_id 幂等处理。
type SubscriptionWebhookRequest struct {
	EventType        string    `json:"event_type" binding:"required,oneof=subscription.created subscription.renewed subscription.canceled"`
	SubscriptionID   string    `json:"subscription_id" binding:"required,max=128"`
	UserID           string    `json:"user_id" binding:"required,uuid"`
	PriceID          string    `json:"price_id" binding:"required,max=128"`
	CurrentPeriodEnd time.Time `json:"current_period_end" binding:"required"`
}

// SubscriptionResponse 订阅响应
type SubscriptionResponse struct {
	ID               string    `json:"id"`
	PlanID           string    `json:"plan_id"`
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}

// ToPlanResponse 按语言本地化套餐
func ToPlanResponse(p *entity.Plan, lang entity.Language) *PlanResponse {
	if p == nil {
		return nil
	}
	name, desc := p.NameAr, p.DescriptionAr
	if lang == entity.LanguageEnglish {
		name, desc = p.NameEn, p.DescriptionEn
	}
	return &PlanResponse{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          name,
		Description:   desc,
		MonthlyTokens: p.MonthlyTokens,
		PriceCents:    p.PriceCents,
		Currency:      p.Currency,
	}
}

// ToPlanListResponse 套餐列表本地化
func ToPlanListResponse(plans []*entity.Plan, lang entity.Language) []*PlanResponse {
	out := make([]*PlanResponse, len(plans))
	for i, p := range plans {
		out[i] = ToPlanResponse(p, lang)
	}
	return out
}

// ToSubscriptionResponse 订阅实体转响应
func ToSubscriptionResponse(s *entity.Subscription) *SubscriptionResponse {
	if s == nil {
		return nil
	}
	return &SubscriptionResponse{
		ID:               s.ID,
		PlanID:           s.PlanID,
		Status:           string(s.Status),
		CurrentPeriodEnd: s.CurrentPeriodEnd,
	}
}
