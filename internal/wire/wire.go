//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"qanoni-ai-api/internal/application/generation"
	"qanoni-ai-api/internal/application/quota"
	"qanoni-ai-api/internal/config"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/domain/service"
	"qanoni-ai-api/internal/infrastructure/llm"
	"qanoni-ai-api/internal/infrastructure/messaging"
	"qanoni-ai-api/internal/infrastructure/persistence/postgres"
	"qanoni-ai-api/internal/infrastructure/persistence/redis"
	"qanoni-ai-api/internal/interfaces/http/handler"
	"qanoni-ai-api/internal/interfaces/http/middleware"
	"qanoni-ai-api/internal/interfaces/http/router"
	"qanoni-ai-api/internal/workflow/port"
	"qanoni-ai-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		RepoSet,
		RedisSet,
		MessagingSet,
		LLMSet,
		GenerationSet,
		HandlerSet,
		RouterSet,
	)
	return nil, nil, nil
}

// InitializePostgresOnly 仅初始化 PostgreSQL 数据层（用于 bootstrap）
func InitializePostgresOnly(cfg *config.Config) (*PostgresOnlyDataLayer, func(), error) {
	wire.Build(
		PostgresSet,
		wire.Struct(new(PostgresOnlyDataLayer), "*"),
	)
	return nil, nil, nil
}

// PostgresSet PostgreSQL 提供者集合
var PostgresSet = wire.NewSet(
	ProvidePostgresClient,
	postgres.NewTxManager,
	postgres.NewUserRepository,
	postgres.NewCategoryRepository,
	postgres.NewServiceRepository,
	postgres.NewPlanRepository,
	postgres.NewSubscriptionRepository,
	postgres.NewTicketRepository,
	postgres.NewSettingsRepository,
	postgres.NewLLMUsageEventRepository,
)

// RepoSet 整合了具体实现与接口绑定的集合
var RepoSet = wire.NewSet(
	PostgresSet,
	wire.Bind(new(repository.Transactor), new(*postgres.TxManager)),
	wire.Bind(new(repository.UserRepository), new(*postgres.UserRepository)),
	wire.Bind(new(repository.CategoryRepository), new(*postgres.CategoryRepository)),
	wire.Bind(new(repository.ServiceRepository), new(*postgres.ServiceRepository)),
	wire.Bind(new(repository.PlanRepository), new(*postgres.PlanRepository)),
	wire.Bind(new(repository.SubscriptionRepository), new(*postgres.SubscriptionRepository)),
	wire.Bind(new(repository.TicketRepository), new(*postgres.TicketRepository)),
	wire.Bind(new(repository.SettingsRepository), new(*postgres.SettingsRepository)),
	wire.Bind(new(repository.LLMUsageEventRepository), new(*postgres.LLMUsageEventRepository)),
)

// RedisSet Redis 提供者集合
var RedisSet = wire.NewSet(
	ProvideRedisClient,
	redis.NewCache,
	redis.NewRateLimiter,
	wire.Bind(new(middleware.RateLimiter), new(*redis.RateLimiter)),
)

// MessagingSet 消息队列提供者集合
var MessagingSet = wire.NewSet(
	ProvideMessagingProducer,
	ProvideUsagePublisher,
	wire.Bind(new(handler.AuditPublisher), new(*messaging.Producer)),
)

// LLMSet 模型客户端提供者集合
var LLMSet = wire.NewSet(
	ProvideGenaiClient,
	wire.Bind(new(port.GenerateClient), new(*llm.GenaiClient)),
)

// GenerationSet 生成管线提供者集合
var GenerationSet = wire.NewSet(
	prompt.NewAssembler,
	quota.NewTokenBalanceChecker,
	quota.NewLLMUsageRecorder,
	wire.Bind(new(service.LLMUsageRecorder), new(*quota.LLMUsageRecorder)),
	generation.NewGenerator,
)

// HandlerSet 处理器提供者集合
var HandlerSet = wire.NewSet(
	ProvideAuthConfig,
	handler.NewHealthHandler,
	handler.NewAuthHandler,
	ProvideCatalogHandler,
	handler.NewSettingsHandler,
	handler.NewGenerationHandler,
	handler.NewUserHandler,
	ProvidePlanHandler,
	handler.NewTicketHandler,
	handler.NewAdminHandler,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
