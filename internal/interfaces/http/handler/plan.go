// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/interfaces/http/dto"
	"qanoni-ai-api/pkg/logger"
)

// PlanHandler 套餐与订阅处理器
type PlanHandler struct {
	planRepo      repository.PlanRepository
	subRepo       repository.SubscriptionRepository
	userRepo      repository.UserRepository
	tx            repository.Transactor
	webhookSecret string
}

// NewPlanHandler 创建套餐处理器
func NewPlanHandler(
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	webhookSecret string,
) *PlanHandler {
	return &PlanHandler{
		planRepo:      planRepo,
		subRepo:       subRepo,
		userRepo:      userRepo,
		tx:            tx,
		webhookSecret: webhookSecret,
	}
}

// ListPlans 套餐列表
// @Summary 套餐列表
// @Description 返回上架套餐，按请求语言本地化
// @Tags Plan
// @Produce json
// @Success 200 {object} dto.Response[[]dto.PlanResponse]
// @Router /v1/plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	ctx := c.Request.Context()

	plans, err := h.planRepo.List(ctx, true)
	if err != nil {
		logger.Error(ctx, "failed to list plans", err)
		dto.InternalError(c, "failed to list plans")
		return
	}

	dto.Success(c, dto.ToPlanListResponse(plans, currentLang(c)))
}

// MySubscription 当前订阅
// @Summary 当前订阅
// @Tags Plan
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response[dto.SubscriptionResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/me/subscription [get]
func (h *PlanHandler) MySubscription(c *gin.Context) {
	ctx := c.Request.Context()

	sub, err := h.subRepo.GetActiveByUser(ctx, currentUserID(c))
	if err != nil {
		logger.Error(ctx, "failed to load subscription", err)
		dto.InternalError(c, "failed to load subscription")
		return
	}
	if sub == nil {
		dto.NotFound(c, "no active subscription")
		return
	}

	dto.Success(c, dto.ToSubscriptionResponse(sub))
}

// SubscriptionWebhook 订阅事件回调
// @Summary 订阅事件回调
// @Description 接收支付后台的订阅事件。created/renewed 在同一事务内落订阅并发放套餐 Token；
// @Description 同一 subscription_id 重复投递按幂等处理。
// @Tags Plan
// @Accept json
// @Produce json
// @Param X-Webhook-Secret header string true "共享密钥"
// @Param request body dto.SubscriptionWebhookRequest true "订阅事件"
// @Success 200 {object} dto.Response[dto.SubscriptionResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/webhooks/subscription [post]
func (h *PlanHandler) SubscriptionWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if h.webhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Webhook-Secret")), []byte(h.webhookSecret)) != 1 {
		dto.Unauthorized(c, "invalid webhook secret")
		return
	}

	var req dto.SubscriptionWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid webhook payload")
		return
	}

	plan, err := h.planRepo.GetByExternalPriceID(ctx, req.PriceID)
	if err != nil {
		logger.Error(ctx, "failed to resolve plan for webhook", err)
		dto.InternalError(c, "failed to process webhook")
		return
	}
	if plan == nil {
		dto.BadRequest(c, "unknown price id")
		return
	}

	existing, err := h.subRepo.GetByExternalID(ctx, req.SubscriptionID)
	if err != nil {
		logger.Error(ctx, "failed to load subscription", err)
		dto.InternalError(c, "failed to process webhook")
		return
	}

	sub := &entity.Subscription{
		UserID:           req.UserID,
		PlanID:           plan.ID,
		ExternalID:       req.SubscriptionID,
		Status:           entity.SubscriptionStatusActive,
		CurrentPeriodEnd: req.CurrentPeriodEnd,
	}

	grantTokens := false
	switch req.EventType {
	case "subscription.created":
		// 重复投递的 created 不再重复发放
		grantTokens = existing == nil
	case "subscription.renewed":
		// 续费以周期结束时间推进为准做幂等
		grantTokens = existing == nil || req.CurrentPeriodEnd.After(existing.CurrentPeriodEnd)
	case "subscription.canceled":
		sub.Status = entity.SubscriptionStatusCanceled
	}

	// 订阅落库与 Token 发放同事务，避免发了 Token 丢了订阅
	err = h.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := h.subRepo.Upsert(txCtx, sub); err != nil {
			return err
		}
		if grantTokens {
			return h.userRepo.GrantTokens(txCtx, req.UserID, plan.MonthlyTokens)
		}
		return nil
	})
	if err != nil {
		logger.Error(ctx, "failed to process subscription webhook", err,
			"subscription_id", req.SubscriptionID,
			"event_type", req.EventType)
		dto.InternalError(c, "failed to process webhook")
		return
	}

	logger.Info(ctx, "subscription webhook processed",
		"subscription_id", req.SubscriptionID,
		"event_type", req.EventType,
		"tokens_granted", grantTokens)

	saved, err := h.subRepo.GetByExternalID(ctx, req.SubscriptionID)
	if err != nil || saved == nil {
		dto.Success(c, dto.ToSubscriptionResponse(sub))
		return
	}
	dto.Success(c, dto.ToSubscriptionResponse(saved))
}
