// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"qanoni-ai-api/internal/domain/entity"
)

// TicketRepository 工单仓储接口
type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	GetByID(ctx context.Context, id string) (*entity.Ticket, error)
	Update(ctx context.Context, ticket *entity.Ticket) error
	ListByUser(ctx context.Context, userID string, pagination Pagination) (*PagedResult[*entity.Ticket], error)
	List(ctx context.Context, status entity.TicketStatus, pagination Pagination) (*PagedResult[*entity.Ticket], error)
}

// SettingsRepository 站点配置仓储接口
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.SiteSettings, error)
	Save(ctx context.Context, settings *entity.SiteSettings) error
}
