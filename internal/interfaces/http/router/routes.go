// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"

	"qanoni-ai-api/internal/interfaces/http/middleware"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers, authMW, generateLimitMW gin.HandlerFunc) {
	// 认证管理
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	// 公开目录
	v1.GET("/categories", h.Catalog.ListCategories)
	v1.GET("/plans", h.Plan.ListPlans)
	v1.GET("/settings", h.Settings.Get)

	services := v1.Group("/services")
	{
		services.GET("", h.Catalog.ListServices)
		services.GET("/:id", h.Catalog.GetService)

		// 生成是唯一需要认证的目录路由，且单独限流
		services.POST("/:id/generate", authMW, generateLimitMW, h.Generation.Generate)
	}

	// 支付后台回调，共享密钥认证
	v1.POST("/webhooks/subscription", h.Plan.SubscriptionWebhook)

	// 当前用户
	me := v1.Group("/me", authMW)
	{
		me.GET("", h.User.Me)
		me.PATCH("", h.User.UpdateProfile)
		me.GET("/usage", h.User.ListUsageEvents)
		me.GET("/subscription", h.Plan.MySubscription)

		me.POST("/tickets", h.Ticket.Create)
		me.GET("/tickets", h.Ticket.ListMine)
		me.GET("/tickets/:id", h.Ticket.GetMine)
	}

	// 管理后台
	admin := v1.Group("/admin", authMW, middleware.RequireAdmin())
	{
		admin.POST("/categories", h.Admin.CreateCategory)
		admin.PUT("/categories/:id", h.Admin.UpdateCategory)
		admin.DELETE("/categories/:id", h.Admin.DeleteCategory)

		admin.POST("/services", h.Admin.CreateService)
		admin.POST("/services/synthesize", h.Admin.SynthesizeService)
		admin.PUT("/services/:id", h.Admin.UpdateService)
		admin.DELETE("/services/:id", h.Admin.DeleteService)

		admin.POST("/plans", h.Admin.CreatePlan)
		admin.PUT("/plans/:id", h.Admin.UpdatePlan)
		admin.DELETE("/plans/:id", h.Admin.DeletePlan)

		admin.GET("/users", h.Admin.ListUsers)
		admin.POST("/users/:id/tokens", h.Admin.GrantTokens)

		admin.GET("/tickets", h.Ticket.ListAll)
		admin.POST("/tickets/:id/reply", h.Ticket.Reply)

		admin.GET("/settings", h.Admin.GetSettings)
		admin.PUT("/settings", h.Admin.UpdateSettings)
	}
}
