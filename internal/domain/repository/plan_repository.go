// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"qanoni-ai-api/internal/domain/entity"
)

// PlanRepository 套餐仓储接口
type PlanRepository interface {
	Create(ctx context.Context, plan *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	GetByExternalPriceID(ctx context.Context, priceID string) (*entity.Plan, error)
	Update(ctx context.Context, plan *entity.Plan) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error)
}

// SubscriptionRepository 订阅仓储接口
type SubscriptionRepository interface {
	// Upsert 按 ExternalID 幂等写入（Webhook 可能重复投递）
	Upsert(ctx context.Context, sub *entity.Subscription) error
	GetByExternalID(ctx context.Context, externalID string) (*entity.Subscription, error)
	GetActiveByUser(ctx context.Context, userID string) (*entity.Subscription, error)
}
