// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"google.golang.org/genai"

	"qanoni-ai-api/internal/application/generation"
	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/infrastructure/messaging"
	redisinfra "qanoni-ai-api/internal/infrastructure/persistence/redis"
	"qanoni-ai-api/internal/interfaces/http/dto"
	"qanoni-ai-api/pkg/logger"
)

// AuditPublisher 把管理端操作审计写入流
type AuditPublisher interface {
	PublishAuditLog(ctx context.Context, log *messaging.AuditLogMessage) (string, error)
}

// AdminHandler 管理后台处理器
type AdminHandler struct {
	categoryRepo repository.CategoryRepository
	serviceRepo  repository.ServiceRepository
	planRepo     repository.PlanRepository
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
	cache        *redisinfra.Cache
	generator    *generation.Generator
	auditor      AuditPublisher
}

// NewAdminHandler 创建管理后台处理器。auditor 为 nil 时不写审计流。
func NewAdminHandler(
	categoryRepo repository.CategoryRepository,
	serviceRepo repository.ServiceRepository,
	planRepo repository.PlanRepository,
	userRepo repository.UserRepository,
	settingsRepo repository.SettingsRepository,
	cache *redisinfra.Cache,
	generator *generation.Generator,
	auditor AuditPublisher,
) *AdminHandler {
	return &AdminHandler{
		categoryRepo: categoryRepo,
		serviceRepo:  serviceRepo,
		planRepo:     planRepo,
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
		cache:        cache,
		generator:    generator,
		auditor:      auditor,
	}
}

// invalidateCatalog 目录变更后清缓存，失败仅记日志（TTL 会兜底过期）
func (h *AdminHandler) invalidateCatalog(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateCatalog(c.Request.Context()); err != nil {
		logger.Warn(c.Request.Context(), "failed to invalidate catalog cache", "error", err)
	}
}

// audit 管理端写操作追加一条操作审计，失败仅记日志
func (h *AdminHandler) audit(c *gin.Context, action, resourceType, resourceID string) {
	if h.auditor == nil {
		return
	}
	ctx := c.Request.Context()
	_, err := h.auditor.PublishAuditLog(ctx, &messaging.AuditLogMessage{
		UserID:       c.GetString("user_id"),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    c.GetString("request_id"),
		TraceID:      c.GetString("trace_id"),
		IPAddress:    c.ClientIP(),
	})
	if err != nil {
		logger.Warn(ctx, "failed to publish audit log",
			"action", action, "resource_id", resourceID, "error", err)
	}
}

// CreateCategory 创建分类
// @Summary 创建分类（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCategoryRequest true "分类定义"
// @Success 201 {object} dto.Response[entity.Category]
// @Router /v1/admin/categories [post]
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	cat := &entity.Category{
		Slug:      req.Slug,
		NameAr:    req.NameAr,
		NameEn:    req.NameEn,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
		Active:    true,
	}
	if err := h.categoryRepo.Create(ctx, cat); err != nil {
		logger.Error(ctx, "failed to create category", err)
		dto.InternalError(c, "failed to create category")
		return
	}

	h.invalidateCatalog(c)
	h.audit(c, "category.create", "category", cat.ID)
	dto.Created(c, cat)
}

// UpdateCategory 更新分类
// @Summary 更新分类（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类 ID"
// @Param request body dto.UpdateCategoryRequest true "分类变更"
// @Success 200 {object} dto.Response[entity.Category]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/categories/{id} [put]
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	cat, err := h.categoryRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get category", err)
		dto.InternalError(c, "failed to get category")
		return
	}
	if cat == nil {
		dto.NotFound(c, "category not found")
		return
	}

	if req.NameAr != nil {
		cat.NameAr = *req.NameAr
	}
	if req.NameEn != nil {
		cat.NameEn = *req.NameEn
	}
	if req.Icon != nil {
		cat.Icon = *req.Icon
	}
	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		cat.Active = *req.Active
	}
	cat.UpdatedAt = time.Now()

	if err := h.categoryRepo.Update(ctx, cat); err != nil {
		logger.Error(ctx, "failed to update category", err)
		dto.InternalError(c, "failed to update category")
		return
	}

	h.invalidateCatalog(c)
	h.audit(c, "category.update", "category", cat.ID)
	dto.Success(c, cat)
}

// DeleteCategory 删除分类
// @Summary 删除分类（管理员）
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "分类 ID"
// @Success 204
// @Router /v1/admin/categories/{id} [delete]
func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.categoryRepo.Delete(ctx, c.Param("id")); err != nil {
		logger.Error(ctx, "failed to delete category", err)
		dto.InternalError(c, "failed to delete category")
		return
	}

	h.invalidateCatalog(c)
	h.audit(c, "category.delete", "category", c.Param("id"))
	dto.NoContent(c)
}

// CreateService 创建服务
// @Summary 创建服务（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateServiceRequest true "服务定义"
// @Success 201 {object} dto.Response[entity.Service]
// @Router /v1/admin/services [post]
func (h *AdminHandler) CreateService(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	fields := dto.ToFormFields(req.Fields)
	if err := validateServiceFields(fields); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	svc := entity.NewService(req.CategoryID, req.Slug, req.TitleAr, req.TitleEn)
	svc.DescriptionAr = req.DescriptionAr
	svc.DescriptionEn = req.DescriptionEn
	svc.Fields = fields
	svc.Model = req.Model
	svc.InstructionAr = req.InstructionAr
	svc.InstructionEn = req.InstructionEn
	svc.SortOrder = req.SortOrder

	if err := h.serviceRepo.Create(ctx, svc); err != nil {
		logger.Error(ctx, "failed to create service", err)
		dto.InternalError(c, "failed to create service")
		return
	}

	h.invalidateCatalog(c)
	h.audit(c, "service.create", "service", svc.ID)
	dto.Created(c, svc)
}

// UpdateService 更新服务
// @Summary 更新服务（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "服务 ID"
// @Param request body dto.UpdateServiceRequest true "服务变更"
// @Success 200 {object} dto.Response[entity.Service]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/services/{id} [put]
func (h *AdminHandler) UpdateService(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	svc, err := h.serviceRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get service", err)
		dto.InternalError(c, "failed to get service")
		return
	}
	if svc == nil {
		dto.NotFound(c, "service not found")
		return
	}

	if req.CategoryID != nil {
		svc.CategoryID = *req.CategoryID
	}
	if req.TitleAr != nil {
		svc.TitleAr = *req.TitleAr
	}
	if req.TitleEn != nil {
		svc.TitleEn = *req.TitleEn
	}
	if req.DescriptionAr != nil {
		svc.DescriptionAr = *req.DescriptionAr
	}
	if req.DescriptionEn != nil {
		svc.DescriptionEn = *req.DescriptionEn
	}
	if req.Fields != nil {
		fields := dto.ToFormFields(req.Fields)
		if err := validateServiceFields(fields); err != nil {
			dto.BadRequest(c, err.Error())
			return
		}
		svc.Fields = fields
	}
	if req.Model != nil {
		svc.Model = *req.Model
	}
	if req.InstructionAr != nil {
		svc.InstructionAr = *req.InstructionAr
	}
	if req.InstructionEn != nil {
		svc.InstructionEn = *req.InstructionEn
	}
	if req.SortOrder != nil {
		svc.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}
	svc.UpdatedAt = time.Now()

	if err := h.serviceRepo.Update(ctx, svc); err != nil {
		logger.Error(ctx, "failed to update service", err)
		dto.InternalError(c, "failed to update service")
		return
	}

	h.invalidateCatalog(c)
	h.audit(c, "service.update", "service", svc.ID)
	dto.Success(c, svc)
}

// DeleteService 删除服务
// @Summary 删除服务（管理员）
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "服务 ID"
// @Success 204
// @Router /v1/admin/services/{id} [delete]
func (h *AdminHandler) DeleteService(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.serviceRepo.Delete(ctx, c.Param("id")); err != nil {
		logger.Error(ctx, "failed to delete service", err)
		dto.InternalError(c, "failed to delete service")
		return
	}

	h.invalidateCatalog(c)
	h.audit(c, "service.delete", "service", c.Param("id"))
	dto.NoContent(c)
}

// CreatePlan 创建套餐
// @Summary 创建套餐（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePlanRequest true "套餐定义"
// @Success 201 {object} dto.Response[entity.Plan]
// @Router /v1/admin/plans [post]
func (h *AdminHandler) CreatePlan(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	plan := &entity.Plan{
		Slug:            req.Slug,
		NameAr:          req.NameAr,
		NameEn:          req.NameEn,
		DescriptionAr:   req.DescriptionAr,
		DescriptionEn:   req.DescriptionEn,
		MonthlyTokens:   req.MonthlyTokens,
		PriceCents:      req.PriceCents,
		Currency:        req.Currency,
		ExternalPriceID: req.ExternalPriceID,
		SortOrder:       req.SortOrder,
		Active:          true,
	}
	if err := h.planRepo.Create(ctx, plan); err != nil {
		logger.Error(ctx, "failed to create plan", err)
		dto.InternalError(c, "failed to create plan")
		return
	}

	h.audit(c, "plan.create", "plan", plan.ID)
	dto.Created(c, plan)
}

// UpdatePlan 更新套餐
// @Summary 更新套餐（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "套餐 ID"
// @Param request body dto.UpdatePlanRequest true "套餐变更"
// @Success 200 {object} dto.Response[entity.Plan]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/plans/{id} [put]
func (h *AdminHandler) UpdatePlan(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	plan, err := h.planRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to get plan", err)
		dto.InternalError(c, "failed to get plan")
		return
	}
	if plan == nil {
		dto.NotFound(c, "plan not found")
		return
	}

	req.ApplyToPlan(plan)
	plan.UpdatedAt = time.Now()

	if err := h.planRepo.Update(ctx, plan); err != nil {
		logger.Error(ctx, "failed to update plan", err)
		dto.InternalError(c, "failed to update plan")
		return
	}

	h.audit(c, "plan.update", "plan", plan.ID)
	dto.Success(c, plan)
}

// DeletePlan 删除套餐
// @Summary 删除套餐（管理员）
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "套餐 ID"
// @Success 204
// @Router /v1/admin/plans/{id} [delete]
func (h *AdminHandler) DeletePlan(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.planRepo.Delete(ctx, c.Param("id")); err != nil {
		logger.Error(ctx, "failed to delete plan", err)
		dto.InternalError(c, "failed to delete plan")
		return
	}

	h.audit(c, "plan.delete", "plan", c.Param("id"))
	dto.NoContent(c)
}

// ListUsers 用户列表
// @Summary 用户列表（管理员）
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[[]dto.UserResponse]
// @Router /v1/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	result, err := h.userRepo.List(ctx, parsePagination(c))
	if err != nil {
		logger.Error(ctx, "failed to list users", err)
		dto.InternalError(c, "failed to list users")
		return
	}

	items := make([]*dto.UserResponse, 0, len(result.Items))
	for _, u := range result.Items {
		items = append(items, dto.ToUserResponse(u))
	}
	dto.SuccessWithPage(c, items, dto.NewPageMeta(result.Page, result.PageSize, int(result.Total)))
}

// GrantTokens 给用户充值 Token
// @Summary Token 充值（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户 ID"
// @Param request body dto.GrantTokensRequest true "充值数量"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/admin/users/{id}/tokens [post]
func (h *AdminHandler) GrantTokens(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.GrantTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	id := c.Param("id")
	user, err := h.userRepo.GetByID(ctx, id)
	if err != nil {
		logger.Error(ctx, "failed to get user", err)
		dto.InternalError(c, "failed to get user")
		return
	}
	if user == nil {
		dto.NotFound(c, "user not found")
		return
	}

	if err := h.userRepo.GrantTokens(ctx, id, req.Tokens); err != nil {
		logger.Error(ctx, "failed to grant tokens", err)
		dto.InternalError(c, "failed to grant tokens")
		return
	}

	logger.Info(ctx, "tokens granted", "target_user_id", id, "tokens", req.Tokens)
	h.audit(c, "user.grant_tokens", "user", id)

	user.TokenBalance += req.Tokens
	dto.Success(c, dto.ToUserResponse(user))
}

// GetSettings 站点配置
// @Summary 站点配置（管理员）
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.Response[entity.SiteSettings]
// @Router /v1/admin/settings [get]
func (h *AdminHandler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.settingsRepo.Get(ctx)
	if err != nil {
		logger.Error(ctx, "failed to get settings", err)
		dto.InternalError(c, "failed to get settings")
		return
	}

	dto.Success(c, settings)
}

// UpdateSettings 更新站点配置
// @Summary 更新站点配置（管理员）
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSettingsRequest true "配置变更"
// @Success 200 {object} dto.Response[entity.SiteSettings]
// @Router /v1/admin/settings [put]
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	settings, err := h.settingsRepo.Get(ctx)
	if err != nil {
		logger.Error(ctx, "failed to get settings", err)
		dto.InternalError(c, "failed to get settings")
		return
	}

	if req.SiteNameAr != nil {
		settings.SiteNameAr = *req.SiteNameAr
	}
	if req.SiteNameEn != nil {
		settings.SiteNameEn = *req.SiteNameEn
	}
	if req.ContactEmail != nil {
		settings.ContactEmail = *req.ContactEmail
	}
	if req.SupportPhone != nil {
		settings.SupportPhone = *req.SupportPhone
	}
	if req.SignupTokens != nil {
		settings.SignupTokens = *req.SignupTokens
	}
	if req.MaintenanceMode != nil {
		settings.MaintenanceMode = *req.MaintenanceMode
	}

	if err := h.settingsRepo.Save(ctx, settings); err != nil {
		logger.Error(ctx, "failed to save settings", err)
		dto.InternalError(c, "failed to save settings")
		return
	}

	h.audit(c, "settings.update", "settings", "")
	dto.Success(c, settings)
}

// SynthesizeService AI 辅助合成服务定义
// @Summary AI 合成服务定义（管理员）
// @Description 根据一段自然语言描述生成双语服务定义草稿，管理员确认后再创建
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SynthesizeServiceRequest true "服务描述"
// @Success 200 {object} dto.Response[dto.SynthesizedServiceResponse]
// @Router /v1/admin/services/synthesize [post]
func (h *AdminHandler) SynthesizeService(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SynthesizeServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body")
		return
	}

	var draft dto.SynthesizedServiceResponse
	if err := h.generator.GenerateJSON(ctx, "", synthesizePrompt(req.Description), synthesizeSchema, &draft); err != nil {
		writeError(c, err)
		return
	}

	fields := dto.ToFormFields(draft.Fields)
	if err := validateServiceFields(fields); err != nil {
		// 模型偶尔给出不合规的字段组合，直接让管理员重试
		dto.BadRequest(c, fmt.Sprintf("synthesized definition is invalid: %s", err.Error()))
		return
	}

	dto.Success(c, &draft)
}

// validateServiceFields 服务表单定义的结构校验
func validateServiceFields(fields []entity.FormField) error {
	fileFields := 0
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("duplicate field key %q", f.Key)
		}
		seen[f.Key] = struct{}{}
		if f.Type == entity.FieldTypeFile {
			fileFields++
		}
		if f.Type == entity.FieldTypeSelect && len(f.Options) == 0 {
			return fmt.Errorf("select field %q has no options", f.Key)
		}
	}
	if fileFields > 1 {
		return fmt.Errorf("at most one file field is allowed, got %d", fileFields)
	}
	return nil
}

// synthesizePrompt 服务合成提示词
func synthesizePrompt(description string) string {
	return "You are configuring a bilingual (Arabic/English) legal document service catalog.\n" +
		"Based on the following description, produce a service definition draft.\n" +
		"Rules: slug is lowercase kebab-case; every label and instruction must be " +
		"provided in both Arabic and English; field types are text, textarea, select or file; " +
		"at most one file field; select fields must list their options.\n\n" +
		"Description: " + description
}

// synthesizeSchema 约束模型输出为服务定义结构
var synthesizeSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"slug":           {Type: genai.TypeString},
		"title_ar":       {Type: genai.TypeString},
		"title_en":       {Type: genai.TypeString},
		"description_ar": {Type: genai.TypeString},
		"description_en": {Type: genai.TypeString},
		"fields": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"key":      {Type: genai.TypeString},
					"label_ar": {Type: genai.TypeString},
					"label_en": {Type: genai.TypeString},
					"type":     {Type: genai.TypeString, Enum: []string{"text", "textarea", "select", "file"}},
					"options":  {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					"required": {Type: genai.TypeBoolean},
				},
				Required: []string{"key", "label_ar", "label_en", "type"},
			},
		},
		"instruction_ar": {Type: genai.TypeString},
		"instruction_en": {Type: genai.TypeString},
	},
	Required: []string{"slug", "title_ar", "title_en", "fields", "instruction_ar", "instruction_en"},
}
