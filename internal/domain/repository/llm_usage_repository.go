// Package repository 定义数据访问层接口
package repository

import (
	"context"
	"time"

	"qanoni-ai-api/internal/domain/entity"
)

// LLMUsageEventRepository 用量流水仓储接口
type LLMUsageEventRepository interface {
	// Create 追加一条用量流水
	Create(ctx context.Context, event *entity.LLMUsageEvent) error

	// ListByUser 按用户列出流水
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.LLMUsageEvent], error)

	// GetTokenUsage 统计时间窗内的 Token 消耗
	GetTokenUsage(ctx context.Context, userID string, start, end time.Time) (int64, error)
}
