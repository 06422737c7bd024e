// Package wire 提供依赖注入配置
package wire

import (
	"context"
	"time"

	"qanoni-ai-api/internal/application/quota"
	"qanoni-ai-api/internal/config"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/infrastructure/llm"
	"qanoni-ai-api/internal/infrastructure/messaging"
	"qanoni-ai-api/internal/infrastructure/persistence/postgres"
	"qanoni-ai-api/internal/infrastructure/persistence/redis"
	"qanoni-ai-api/internal/interfaces/http/handler"
	"qanoni-ai-api/internal/interfaces/http/middleware"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient     *postgres.Client
	TxManager    *postgres.TxManager
	UserRepo     *postgres.UserRepository
	CategoryRepo *postgres.CategoryRepository
	ServiceRepo  *postgres.ServiceRepository
	PlanRepo     *postgres.PlanRepository
	SettingsRepo *postgres.SettingsRepository
}

// ProvidePostgresClient 提供 PostgreSQL 客户端
func ProvidePostgresClient(cfg *config.Config) (*postgres.Client, func(), error) {
	client, err := postgres.NewClient(&cfg.Database.Postgres)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClient 提供 Redis 客户端
func ProvideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	client, err := redis.NewClient(&cfg.Cache.Redis)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		client.Close()
	}
	return client, cleanup, nil
}

// ProvideMessagingProducer 提供消息生产者
func ProvideMessagingProducer(redisClient *redis.Client, cfg *config.Config) *messaging.Producer {
	maxLen := cfg.Messaging.RedisStream.MaxLen
	if maxLen <= 0 {
		maxLen = 100000
	}
	return messaging.NewProducer(redisClient.Redis(), int64(maxLen))
}

// ProvideUsagePublisher 用量审计流开关。关闭时记账仍落库，只是不进流。
func ProvideUsagePublisher(producer *messaging.Producer, cfg *config.Config) quota.UsagePublisher {
	if !cfg.Features.UsageStream.Enabled {
		return nil
	}
	return producer
}

// ProvideGenaiClient 提供模型客户端
func ProvideGenaiClient(ctx context.Context, cfg *config.Config) (*llm.GenaiClient, error) {
	return llm.NewGenaiClient(ctx, cfg)
}

// ProvideAuthConfig 提供认证配置
func ProvideAuthConfig(cfg *config.Config) middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:    cfg.Security.JWT.Secret,
		Issuer:    cfg.Security.JWT.Issuer,
		SkipPaths: middleware.DefaultSkipPaths,
		Enabled:   true,
	}
}

// ProvideCatalogHandler 目录处理器。缓存开关关闭时直读数据库。
func ProvideCatalogHandler(
	categoryRepo repository.CategoryRepository,
	serviceRepo repository.ServiceRepository,
	cache *redis.Cache,
	cfg *config.Config,
) *handler.CatalogHandler {
	var catalogCache *redis.Cache
	ttl := 5 * time.Minute
	if cfg.Features.CatalogCache.Enabled {
		catalogCache = cache
		if cfg.Features.CatalogCache.TTL > 0 {
			ttl = cfg.Features.CatalogCache.TTL
		}
	}
	return handler.NewCatalogHandler(categoryRepo, serviceRepo, catalogCache, ttl)
}

// ProvidePlanHandler 套餐处理器
func ProvidePlanHandler(
	planRepo repository.PlanRepository,
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	tx repository.Transactor,
	cfg *config.Config,
) *handler.PlanHandler {
	return handler.NewPlanHandler(planRepo, subRepo, userRepo, tx, cfg.Security.WebhookSecret)
}
