// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
)

// TicketRepository 工单仓储实现
type TicketRepository struct {
	client *Client
}

// NewTicketRepository 创建工单仓储
func NewTicketRepository(client *Client) *TicketRepository {
	return &TicketRepository{client: client}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	ctx, span := tracer.Start(ctx, "postgres.TicketRepository.Create")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Create(ticket).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*entity.Ticket, error) {
	ctx, span := tracer.Start(ctx, "postgres.TicketRepository.GetByID")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var ticket entity.Ticket
	if err := db.First(&ticket, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *entity.Ticket) error {
	ctx, span := tracer.Start(ctx, "postgres.TicketRepository.Update")
	defer span.End()

	db := getDB(ctx, r.client.db)
	if err := db.Save(ticket).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) ListByUser(ctx context.Context, userID string, pagination repository.Pagination) (*repository.PagedResult[*entity.Ticket], error) {
	ctx, span := tracer.Start(ctx, "postgres.TicketRepository.ListByUser")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Ticket{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	var tickets []*entity.Ticket
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&tickets).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	return repository.NewPagedResult(tickets, total, pagination), nil
}

func (r *TicketRepository) List(ctx context.Context, status entity.TicketStatus, pagination repository.Pagination) (*repository.PagedResult[*entity.Ticket], error) {
	ctx, span := tracer.Start(ctx, "postgres.TicketRepository.List")
	defer span.End()

	db := getDB(ctx, r.client.db)
	query := db.Model(&entity.Ticket{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	var tickets []*entity.Ticket
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit()).
		Find(&tickets).Error; err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	return repository.NewPagedResult(tickets, total, pagination), nil
}
