// Package handler 提供 HTTP 请求处理器
package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/domain/repository"
	redisinfra "qanoni-ai-api/internal/infrastructure/persistence/redis"
	"qanoni-ai-api/internal/interfaces/http/dto"
	"qanoni-ai-api/pkg/logger"
)

// CatalogHandler 服务目录处理器（公开读路径）
type CatalogHandler struct {
	categoryRepo repository.CategoryRepository
	serviceRepo  repository.ServiceRepository
	cache        *redisinfra.Cache
	cacheTTL     time.Duration
}

// NewCatalogHandler 创建目录处理器。cache 为 nil 时直读数据库。
func NewCatalogHandler(categoryRepo repository.CategoryRepository, serviceRepo repository.ServiceRepository, cache *redisinfra.Cache, cacheTTL time.Duration) *CatalogHandler {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &CatalogHandler{
		categoryRepo: categoryRepo,
		serviceRepo:  serviceRepo,
		cache:        cache,
		cacheTTL:     cacheTTL,
	}
}

// ListCategories 分类列表
// @Summary 分类列表
// @Description 返回上架分类，按请求语言本地化
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.Response[[]dto.CategoryResponse]
// @Router /v1/categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	ctx := c.Request.Context()
	lang := currentLang(c)

	load := func() (interface{}, error) {
		cats, err := h.categoryRepo.List(ctx, true)
		if err != nil {
			return nil, err
		}
		return dto.ToCategoryListResponse(cats, lang), nil
	}

	if h.cache == nil {
		data, err := load()
		if err != nil {
			logger.Error(ctx, "failed to list categories", err)
			dto.InternalError(c, "failed to list categories")
			return
		}
		dto.Success(c, data)
		return
	}

	raw, err := h.cache.GetOrLoadSafe(ctx, redisinfra.CatalogCategoriesKey(string(lang)), h.cacheTTL, load)
	if err != nil {
		logger.Error(ctx, "failed to list categories", err)
		dto.InternalError(c, "failed to list categories")
		return
	}

	var out []*dto.CategoryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Error(ctx, "corrupt catalog cache entry", err)
		dto.InternalError(c, "failed to list categories")
		return
	}
	dto.Success(c, out)
}

// ListServices 服务列表
// @Summary 服务列表
// @Description 返回上架服务，支持按分类过滤，按请求语言本地化
// @Tags Catalog
// @Produce json
// @Param category_id query string false "分类 ID"
// @Success 200 {object} dto.Response[[]dto.ServiceSummaryResponse]
// @Router /v1/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	ctx := c.Request.Context()
	lang := currentLang(c)
	categoryID := c.Query("category_id")
	pagination := parsePagination(c)

	load := func() (interface{}, error) {
		result, err := h.serviceRepo.List(ctx, categoryID, true, pagination)
		if err != nil {
			return nil, err
		}
		return dto.ToServiceListResponse(result.Items, lang), nil
	}

	// 仅首页默认分页走缓存，深分页或自定义页大小直接回源
	// （缓存键不含分页参数，非默认分页写入会污染默认读者）
	if h.cache == nil || !cacheableListing(pagination) {
		data, err := load()
		if err != nil {
			logger.Error(ctx, "failed to list services", err)
			dto.InternalError(c, "failed to list services")
			return
		}
		dto.Success(c, data)
		return
	}

	raw, err := h.cache.GetOrLoadSafe(ctx, redisinfra.CatalogListKey(categoryID, string(lang)), h.cacheTTL, load)
	if err != nil {
		logger.Error(ctx, "failed to list services", err)
		dto.InternalError(c, "failed to list services")
		return
	}

	var out []*dto.ServiceSummaryResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Error(ctx, "corrupt catalog cache entry", err)
		dto.InternalError(c, "failed to list services")
		return
	}
	dto.Success(c, out)
}

// cacheableListing 只有默认分页的第一页可以进缓存
func cacheableListing(p repository.Pagination) bool {
	return p.Page == 1 && p.PageSize == repository.DefaultPageSize
}

// GetService 服务详情
// @Summary 服务详情
// @Description 返回服务表单定义，按请求语言本地化
// @Tags Catalog
// @Produce json
// @Param id path string true "服务 ID 或 slug"
// @Success 200 {object} dto.Response[dto.ServiceDetailResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/services/{id} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	svc, err := h.serviceRepo.GetByID(ctx, id)
	if err != nil || svc == nil {
		// ID 不是 UUID 或未命中时按 slug 再查一次
		svc, err = h.serviceRepo.GetBySlug(ctx, id)
	}
	if err != nil {
		logger.Error(ctx, "failed to get service", err)
		dto.InternalError(c, "failed to get service")
		return
	}
	if svc == nil || !svc.Active {
		dto.NotFound(c, "service not found")
		return
	}

	dto.Success(c, dto.ToServiceDetailResponse(svc, currentLang(c)))
}
