// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
)

// ServiceRepository 服务目录仓储实现
type ServiceRepository struct {
	client *Client
}

// NewServiceRepository 创建服务仓储
func NewServiceRepository(client *Client) *ServiceRepository {
	return &ServiceRepository{client: client}
}

// Create 创建服务
func (r *ServiceRepository) Create(ctx context.Context, svc *entity.Service) error {
	ctx, span := tracer.Start(ctx, "postgres.ServiceRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(svc).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// GetByID 根据 ID 获取服务
func (r *ServiceRepository) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	ctx, span := tracer.Start(ctx, "postgres.ServiceRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var svc entity.Service
	if err := db.First(&svc, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

// GetBySlug 根据 slug 获取服务
func (r *ServiceRepository) GetBySlug(ctx context.Context, slug string) (*entity.Service, error) {
	ctx, span := tracer.Start(ctx, "postgres.ServiceRepository.GetBySlug")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var svc entity.Service
	if err := db.First(&svc, "slug = ?", slug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get service by slug: %w", err)
	}
	return &svc, nil
}

// Update 更新服务
func (r *ServiceRepository) Update(ctx context.Context, svc *entity.Service) error {
	ctx, span := tracer.Start(ctx, "postgres.ServiceRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(svc).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update service: %w", err)
	}
	return nil
}

// Delete 删除服务
func (r *ServiceRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ServiceRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Service{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete service: %w", err)
	}
	return nil
}

// List 列出服务
func (r *ServiceRepository) List(ctx context.Context, categoryID string, activeOnly bool, pagination repository.Pagination) (*repository.PagedResult[*entity.Service], error) {
	ctx, span := tracer.Start(ctx, "postgres.ServiceRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Service{})
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count services: %w", err)
	}

	var services []*entity.Service
	if err := query.Order("sort_order ASC, created_at ASC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&services).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list services: %w", err)
	}

	return repository.NewPagedResult(services, total, pagination), nil
}

// IncrementUsage 原子自增使用计数
func (r *ServiceRepository) IncrementUsage(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.ServiceRepository.IncrementUsage")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Model(&entity.Service{}).Where("id = ?", id).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to increment service usage: %w", err)
	}
	return nil
}
