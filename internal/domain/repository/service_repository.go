// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"qanoni-ai-api/internal/domain/entity"
)

// ServiceRepository 服务目录仓储接口
type ServiceRepository interface {
	// Create 创建服务
	Create(ctx context.Context, svc *entity.Service) error

	// GetByID 根据 ID 获取服务
	GetByID(ctx context.Context, id string) (*entity.Service, error)

	// GetBySlug 根据 slug 获取服务
	GetBySlug(ctx context.Context, slug string) (*entity.Service, error)

	// Update 更新服务
	Update(ctx context.Context, svc *entity.Service) error

	// Delete 删除服务
	Delete(ctx context.Context, id string) error

	// List 列出服务（activeOnly 为 true 时仅返回上架服务）
	List(ctx context.Context, categoryID string, activeOnly bool, pagination Pagination) (*PagedResult[*entity.Service], error)

	// IncrementUsage 原子自增服务使用计数
	IncrementUsage(ctx context.Context, id string) error
}

// CategoryRepository 分类仓储接口
type CategoryRepository interface {
	Create(ctx context.Context, cat *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, cat *entity.Category) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]*entity.Category, error)
}
