// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/interfaces/http/dto"
	"qanoni-ai-api/pkg/logger"
)

// UserHandler 当前用户处理器
type UserHandler struct {
	userRepo  repository.UserRepository
	usageRepo repository.LLMUsageEventRepository
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userRepo repository.UserRepository, usageRepo repository.LLMUsageEventRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo, usageRepo: usageRepo}
}

// Me 当前用户信息
// @Summary 当前用户信息
// @Tags User
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Router /v1/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.userRepo.GetByID(ctx, currentUserID(c))
	if err != nil {
		logger.Error(ctx, "failed to load user", err)
		dto.InternalError(c, "failed to load user")
		return
	}
	if user == nil {
		dto.Unauthorized(c, "user not found")
		return
	}

	dto.Success(c, dto.ToUserResponse(user))
}

// UpdateProfile 更新个人资料
// @Summary 更新个人资料
// @Tags User
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "资料变更"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Router /v1/me [patch]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.userRepo.GetByID(ctx, currentUserID(c))
	if err != nil {
		logger.Error(ctx, "failed to load user", err)
		dto.InternalError(c, "failed to load user")
		return
	}
	if user == nil {
		dto.Unauthorized(c, "user not found")
		return
	}

	req.ApplyToUser(user)
	if err := h.userRepo.Update(ctx, user); err != nil {
		logger.Error(ctx, "failed to update user", err)
		dto.InternalError(c, "failed to update profile")
		return
	}

	dto.Success(c, dto.ToUserResponse(user))
}

// ListUsageEvents 用量流水
// @Summary 用量流水
// @Description 分页返回当前用户的生成用量记录
// @Tags User
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.UsageEventResponse]
// @Router /v1/me/usage [get]
func (h *UserHandler) ListUsageEvents(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.usageRepo.ListByUser(ctx, currentUserID(c), parsePagination(c))
	if err != nil {
		logger.Error(ctx, "failed to list usage events", err)
		dto.InternalError(c, "failed to list usage events")
		return
	}

	items := make([]*dto.UsageEventResponse, 0, len(result.Items))
	for _, e := range result.Items {
		items = append(items, dto.ToUsageEventResponse(e))
	}
	dto.SuccessWithPage(c, items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}
