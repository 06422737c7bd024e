// Package middleware 提供 HTTP 中间件
package middleware

import (
	"strings"

	"qanoni-ai-api/internal/domain/entity"

	"github.com/gin-gonic/gin"
)

// Language 输出语言解析中间件。
// 优先级：?lang 查询参数 > Accept-Language 头 > 阿拉伯语默认。
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			accept := c.GetHeader("Accept-Language")
			if strings.HasPrefix(strings.ToLower(accept), "en") {
				lang = string(entity.LanguageEnglish)
			}
		}

		c.Set("lang", string(entity.ParseLanguage(lang)))
		c.Next()
	}
}
