// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/interfaces/http/dto"
	"qanoni-ai-api/pkg/logger"
)

// SettingsHandler 站点配置公开读
type SettingsHandler struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsHandler 创建站点配置处理器
func NewSettingsHandler(settingsRepo repository.SettingsRepository) *SettingsHandler {
	return &SettingsHandler{settingsRepo: settingsRepo}
}

// Get 站点配置公开视图
// @Summary 站点配置
// @Description 返回站点名称与联系方式，按请求语言本地化
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.Response[dto.SiteSettingsResponse]
// @Router /v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.settingsRepo.Get(ctx)
	if err != nil {
		logger.Error(ctx, "failed to get settings", err)
		dto.InternalError(c, "failed to get settings")
		return
	}

	dto.Success(c, dto.ToSiteSettingsResponse(settings, currentLang(c)))
}
