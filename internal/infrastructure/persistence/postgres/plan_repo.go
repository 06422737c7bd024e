// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"qanoni-ai-api/internal/domain/entity"
)

// PlanRepository 套餐仓储实现
type PlanRepository struct {
	client *Client
}

// NewPlanRepository 创建套餐仓储
func NewPlanRepository(client *Client) *PlanRepository {
	return &PlanRepository{client: client}
}

func (r *PlanRepository) Create(ctx context.Context, plan *entity.Plan) error {
	ctx, span := tracer.Start(ctx, "postgres.PlanRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(plan).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlanRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var plan entity.Plan
	if err := db.First(&plan, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

func (r *PlanRepository) GetByExternalPriceID(ctx context.Context, priceID string) (*entity.Plan, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlanRepository.GetByExternalPriceID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var plan entity.Plan
	if err := db.First(&plan, "external_price_id = ?", priceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get plan by external price id: %w", err)
	}
	return &plan, nil
}

func (r *PlanRepository) Update(ctx context.Context, plan *entity.Plan) error {
	ctx, span := tracer.Start(ctx, "postgres.PlanRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(plan).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.PlanRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Plan{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error) {
	ctx, span := tracer.Start(ctx, "postgres.PlanRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Plan{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var plans []*entity.Plan
	if err := query.Order("sort_order ASC, price_cents ASC").Find(&plans).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}
