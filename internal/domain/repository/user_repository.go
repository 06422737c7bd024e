// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"qanoni-ai-api/internal/domain/entity"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户
	Create(ctx context.Context, user *entity.User) error

	// GetByID 根据 ID 获取用户
	GetByID(ctx context.Context, id string) (*entity.User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update 更新用户
	Update(ctx context.Context, user *entity.User) error

	// Delete 删除用户
	Delete(ctx context.Context, id string) error

	// List 用户列表
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.User], error)

	// UpdateLastLogin 更新最后登录时间
	UpdateLastLogin(ctx context.Context, id string) error

	// ExistsByEmail 检查邮箱是否存在
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ConsumeTokens 单次合并更新：余额扣减 tokens，累计消耗增加 tokens。
	// 两个计数器必须在同一条 UPDATE 中变更。
	ConsumeTokens(ctx context.Context, id string, tokens int64) error

	// GrantTokens 给用户充值 Token（管理员操作或套餐发放）
	GrantTokens(ctx context.Context, id string, tokens int64) error
}
