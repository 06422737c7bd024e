// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/interfaces/http/dto"
	"qanoni-ai-api/pkg/logger"
)

// TicketHandler 支持工单处理器
type TicketHandler struct {
	ticketRepo repository.TicketRepository
}

// NewTicketHandler 创建工单处理器
func NewTicketHandler(ticketRepo repository.TicketRepository) *TicketHandler {
	return &TicketHandler{ticketRepo: ticketRepo}
}

// Create 创建工单
// @Summary 创建工单
// @Tags Ticket
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTicketRequest true "工单内容"
// @Success 201 {object} dto.Response[dto.TicketResponse]
// @Router /v1/me/tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	ticket := &entity.Ticket{
		UserID:  currentUserID(c),
		Subject: req.Subject,
		Body:    req.Body,
		Status:  entity.TicketStatusOpen,
	}
	if err := h.ticketRepo.Create(ctx, ticket); err != nil {
		logger.Error(ctx, "failed to create ticket", err)
		dto.InternalError(c, "failed to create ticket")
		return
	}

	dto.Created(c, dto.ToTicketResponse(ticket))
}

// ListMine 当前用户工单列表
// @Summary 我的工单
// @Tags Ticket
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.TicketResponse]
// @Router /v1/me/tickets [get]
func (h *TicketHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.ticketRepo.ListByUser(ctx, currentUserID(c), parsePagination(c))
	if err != nil {
		logger.Error(ctx, "failed to list tickets", err)
		dto.InternalError(c, "failed to list tickets")
		return
	}

	dto.SuccessWithPage(c, dto.ToTicketListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// GetMine 查看自己的工单
// @Summary 工单详情
// @Tags Ticket
// @Produce json
// @Security BearerAuth
// @Param id path string true "工单 ID"
// @Success 200 {object} dto.Response[dto.TicketResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/me/tickets/{id} [get]
func (h *TicketHandler) GetMine(c *gin.Context) {
	ctx := c.Request.Context()

	ticket, err := h.ticketRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get ticket", err)
		dto.InternalError(c, "failed to get ticket")
		return
	}
	// 只能看自己的工单
	if ticket == nil || ticket.UserID != currentUserID(c) {
		dto.NotFound(c, "ticket not found")
		return
	}

	dto.Success(c, dto.ToTicketResponse(ticket))
}

// ListAll 管理员工单列表
// @Summary 工单列表（管理员）
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态过滤 open/answered/closed"
// @Success 200 {object} dto.Response[[]dto.TicketResponse]
// @Router /v1/admin/tickets [get]
func (h *TicketHandler) ListAll(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.ticketRepo.List(ctx, entity.TicketStatus(c.Query("status")), parsePagination(c))
	if err != nil {
		logger.Error(ctx, "failed to list tickets", err)
		dto.InternalError(c, "failed to list tickets")
		return
	}

	dto.SuccessWithPage(c, dto.ToTicketListResponse(result.Items),
		dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// Reply 管理员回复工单
// @Summary 回复工单（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "工单 ID"
// @Param request body dto.ReplyTicketRequest true "回复内容"
// @Success 200 {object} dto.Response[dto.TicketResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/tickets/{id}/reply [post]
func (h *TicketHandler) Reply(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReplyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	ticket, err := h.ticketRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get ticket", err)
		dto.InternalError(c, "failed to get ticket")
		return
	}
	if ticket == nil {
		dto.NotFound(c, "ticket not found")
		return
	}

	ticket.Answer(req.Reply)
	if req.Close {
		ticket.Status = entity.TicketStatusClosed
	}
	if err := h.ticketRepo.Update(ctx, ticket); err != nil {
		logger.Error(ctx, "failed to update ticket", err)
		dto.InternalError(c, "failed to reply ticket")
		return
	}

	dto.Success(c, dto.ToTicketResponse(ticket))
}
