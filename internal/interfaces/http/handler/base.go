package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/interfaces/http/dto"
	pkgerrors "qanoni-ai-api/pkg/errors"
)

// currentUserID 从认证中间件注入的上下文中取用户 ID
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// currentLang 从语言中间件注入的上下文中取输出语言
func currentLang(c *gin.Context) entity.Language {
	return entity.ParseLanguage(c.GetString("lang"))
}

// parsePagination 解析分页查询参数
func parsePagination(c *gin.Context) repository.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return repository.NewPagination(page, pageSize)
}

// writeError 把应用错误映射为 HTTP 响应。
// AppError 用自带的状态码与错误码；其余错误一律 500，不向外泄露细节。
func writeError(c *gin.Context, err error) {
	var appErr *pkgerrors.AppError
	if errors.As(err, &appErr) {
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}
	dto.InternalError(c, "internal server error")
}
