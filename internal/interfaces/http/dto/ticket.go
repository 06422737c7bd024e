// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"qanoni-ai-api/internal/domain/entity"
)

// CreateTicketRequest 创建工单请求
type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required,max=255"`
	Body    string `json:"body" binding:"required,max=10000"`
}

// ReplyTicketRequest 管理员回复工单请求
type ReplyTicketRequest struct {
	Reply string `json:"reply" binding:"required,max=10000"`
	Close bool   `json:"close"`
}

// TicketResponse 工单响应
type TicketResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	Reply     string     `json:"reply,omitempty"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToTicketResponse 工单实体转响应
func ToTicketResponse(t *entity.Ticket) *TicketResponse {
	if t == nil {
		return nil
	}
	return &TicketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		Subject:   t.Subject,
		Body:      t.Body,
		Status:    string(t.Status),
		Reply:     t.Reply,
		RepliedAt: t.RepliedAt,
		CreatedAt: t.CreatedAt,
	}
}

// ToTicketListResponse 工单列表转响应
func ToTicketListResponse(tickets []*entity.Ticket) []*TicketResponse {
	out := make([]*TicketResponse, len(tickets))
	for i, t := range tickets {
		out[i] = ToTicketResponse(t)
	}
	return out
}
