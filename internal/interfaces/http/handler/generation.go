// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/application/generation"
	"qanoni-ai-api/internal/application/quota"
	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/interfaces/http/dto"
	wfmodel "qanoni-ai-api/internal/workflow/model"
	pkgerrors "qanoni-ai-api/pkg/errors"
	"qanoni-ai-api/pkg/logger"
)

// maxAttachmentBytes 附件大小上限（10MB）
const maxAttachmentBytes = 10 << 20

// GenerationHandler 文书生成处理器
type GenerationHandler struct {
	serviceRepo  repository.ServiceRepository
	settingsRepo repository.SettingsRepository
	checker      *quota.TokenBalanceChecker
	generator    *generation.Generator
}

// NewGenerationHandler 创建生成处理器
func NewGenerationHandler(
	serviceRepo repository.ServiceRepository,
	settingsRepo repository.SettingsRepository,
	checker *quota.TokenBalanceChecker,
	generator *generation.Generator,
) *GenerationHandler {
	return &GenerationHandler{
		serviceRepo:  serviceRepo,
		settingsRepo: settingsRepo,
		checker:      checker,
		generator:    generator,
	}
}

// generateBody JSON 形式的生成请求体
type generateBody struct {
	Values map[string]string `json:"values"`
	Tier   string            `json:"tier"`
}

// Generate 生成法律文书
// @Summary 生成法律文书
// @Description 根据服务表单输入调用模型生成文书。支持 JSON 与 multipart（带附件）两种请求体。
// @Tags Generation
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "服务 ID"
// @Success 200 {object} dto.Response[dto.GenerateResponse]
// @Failure 402 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/services/{id}/generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.checker.Check(ctx, currentUserID(c))
	if err != nil {
		h.writeCheckError(c, err)
		return
	}

	// 维护模式对非管理员关闭生成入口
	if settings, serr := h.settingsRepo.Get(ctx); serr == nil && settings.MaintenanceMode && !user.IsAdmin() {
		dto.ServiceUnavailable(c, "generation is temporarily unavailable for maintenance")
		return
	}

	svc, err := h.serviceRepo.GetByID(ctx, c.Param("id"))
	if err != nil {
		logger.Error(ctx, "failed to load service", err)
		dto.InternalError(c, "failed to load service")
		return
	}
	if svc == nil || !svc.Active {
		dto.NotFound(c, "service not found")
		return
	}

	values, tier, attachment, err := h.parseRequest(c, svc)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	out, err := h.generator.Generate(ctx, &generation.GenerateInput{
		User:       user,
		Service:    svc,
		Values:     values,
		Attachment: attachment,
		Language:   currentLang(c),
		Tier:       tier,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	dto.Success(c, &dto.GenerateResponse{
		HTML:  out.HTML,
		Model: out.Model,
		Tokens: &dto.TokensDetail{
			Prompt:     out.Usage.PromptTokens,
			Completion: out.Usage.CompletionTokens,
			Total:      out.Usage.TotalTokens,
		},
	})
}

// parseRequest 解析请求体，multipart 时一并读取附件
func (h *GenerationHandler) parseRequest(c *gin.Context, svc *entity.Service) (map[string]string, wfmodel.LengthTier, *wfmodel.Attachment, error) {
	contentType := c.ContentType()
	if !strings.HasPrefix(contentType, "multipart/") {
		var body generateBody
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, "", nil, errors.New("invalid request body")
		}
		return body.Values, wfmodel.ParseLengthTier(body.Tier), nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, "", nil, errors.New("invalid multipart form")
	}

	values := make(map[string]string, len(form.Value))
	tier := wfmodel.LengthTierDefault
	for key, vals := range form.Value {
		if len(vals) == 0 {
			continue
		}
		if key == "tier" {
			tier = wfmodel.ParseLengthTier(vals[0])
			continue
		}
		values[key] = vals[0]
	}

	var attachment *wfmodel.Attachment
	for key, files := range form.File {
		if len(files) == 0 {
			continue
		}
		if attachment != nil {
			return nil, "", nil, errors.New("only one attachment is allowed")
		}
		fh := files[0]
		if fh.Size > maxAttachmentBytes {
			return nil, "", nil, errors.New("attachment exceeds the 10MB limit")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, "", nil, errors.New("failed to read attachment")
		}
		data, err := io.ReadAll(io.LimitReader(f, maxAttachmentBytes+1))
		_ = f.Close()
		if err != nil || len(data) > maxAttachmentBytes {
			return nil, "", nil, errors.New("failed to read attachment")
		}
		attachment = &wfmodel.Attachment{
			FieldKey: key,
			MIMEType: fh.Header.Get("Content-Type"),
			Data:     data,
		}
	}

	return values, tier, attachment, nil
}

// writeCheckError 余额预检错误的状态码映射
func (h *GenerationHandler) writeCheckError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pkgerrors.ErrUserNotFound):
		dto.Unauthorized(c, "user not found")
	case errors.Is(err, pkgerrors.ErrInsufficientTokens):
		dto.ErrorWithDetail(c, 402, "insufficient token balance", &dto.ErrorDetail{
			ErrorCode: string(pkgerrors.CodeInsufficientTokens),
		})
	default:
		logger.Error(c.Request.Context(), "balance check failed", err)
		dto.InternalError(c, "failed to check token balance")
	}
}
