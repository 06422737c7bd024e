// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"qanoni-ai-api/internal/domain/entity"
)

// CategoryRepository 分类仓储实现
type CategoryRepository struct {
	client *Client
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(client *Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

func (r *CategoryRepository) Create(ctx context.Context, cat *entity.Category) error {
	ctx, span := tracer.Start(ctx, "postgres.CategoryRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(cat).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	ctx, span := tracer.Start(ctx, "postgres.CategoryRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var cat entity.Category
	if err := db.First(&cat, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &cat, nil
}

func (r *CategoryRepository) Update(ctx context.Context, cat *entity.Category) error {
	ctx, span := tracer.Start(ctx, "postgres.CategoryRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(cat).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.CategoryRepository.Delete")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Delete(&entity.Category{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	ctx, span := tracer.Start(ctx, "postgres.CategoryRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Category{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var cats []*entity.Category
	if err := query.Order("sort_order ASC, created_at ASC").Find(&cats).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return cats, nil
}
