// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qanoni-ai-api/internal/domain/entity"
)

// SubscriptionRepository 订阅仓储实现
type SubscriptionRepository struct {
	client *Client
}

// NewSubscriptionRepository 创建订阅仓储
func NewSubscriptionRepository(client *Client) *SubscriptionRepository {
	return &SubscriptionRepository{client: client}
}

// Upsert 按 external_id 幂等写入。
// Webhook 可能乱序或重复投递，冲突时覆盖状态与周期。
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *entity.Subscription) error {
	ctx, span := tracer.Start(ctx, "postgres.SubscriptionRepository.Upsert")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "current_period_end", "plan_id", "updated_at",
		}),
	}).Create(sub).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) GetByExternalID(ctx context.Context, externalID string) (*entity.Subscription, error) {
	ctx, span := tracer.Start(ctx, "postgres.SubscriptionRepository.GetByExternalID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var sub entity.Subscription
	if err := db.First(&sub, "external_id = ?", externalID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get subscription by external id: %w", err)
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetActiveByUser(ctx context.Context, userID string) (*entity.Subscription, error) {
	ctx, span := tracer.Start(ctx, "postgres.SubscriptionRepository.GetActiveByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var sub entity.Subscription
	if err := db.Where("user_id = ? AND status = ?", userID, entity.SubscriptionStatusActive).
		Order("current_period_end DESC").
		First(&sub).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return &sub, nil
}
