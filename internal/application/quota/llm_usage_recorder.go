package quota

import (
	"context"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/domain/service"
	"qanoni-ai-api/pkg/logger"
	"qanoni-ai-api/pkg/metrics"
)

// UsagePublisher 把用量事件投递到审计流。可选依赖，nil 时跳过。
type UsagePublisher interface {
	PublishUsage(ctx context.Context, event *entity.LLMUsageEvent) error
}

// LLMUsageRecorder 记录一次成功生成的副作用：
// 服务使用计数、用户余额扣减、用量流水、审计流投递。
// 所有写入彼此独立，任何一项失败只记日志，绝不向调用方冒泡——
// 用户已经拿到生成结果，记账失败不能改变这个事实。
type LLMUsageRecorder struct {
	serviceRepo repository.ServiceRepository
	userRepo    repository.UserRepository
	usageRepo   repository.LLMUsageEventRepository
	publisher   UsagePublisher
}

var _ service.LLMUsageRecorder = (*LLMUsageRecorder)(nil)

// NewLLMUsageRecorder 创建用量记录器。publisher 可以为 nil。
func NewLLMUsageRecorder(
	serviceRepo repository.ServiceRepository,
	userRepo repository.UserRepository,
	usageRepo repository.LLMUsageEventRepository,
	publisher UsagePublisher,
) *LLMUsageRecorder {
	return &LLMUsageRecorder{
		serviceRepo: serviceRepo,
		userRepo:    userRepo,
		usageRepo:   usageRepo,
		publisher:   publisher,
	}
}

// Record 记录生成用量。
// 结果非空时服务计数 +1；非特权用户且消耗大于零时余额扣减与累计消耗
// 在仓储层的同一条 UPDATE 中完成；流水与审计流始终追加。
func (r *LLMUsageRecorder) Record(ctx context.Context, in service.LLMUsageInput) {
	if r == nil {
		return
	}

	if !in.ResultEmpty && r.serviceRepo != nil {
		if err := r.serviceRepo.IncrementUsage(ctx, in.ServiceID); err != nil {
			logger.Warn(ctx, "failed to increment service usage count",
				"service_id", in.ServiceID, "error", err)
		}
	}

	tokens := int64(in.TotalTokens)
	if tokens <= 0 {
		tokens = int64(in.PromptTokens + in.CompletionTokens)
	}
	if !in.Privileged && tokens > 0 && r.userRepo != nil {
		if err := r.userRepo.ConsumeTokens(ctx, in.UserID, tokens); err != nil {
			logger.Warn(ctx, "failed to consume user tokens",
				"user_id", in.UserID, "tokens", tokens, "error", err)
		}
	}

	event := &entity.LLMUsageEvent{
		UserID:           in.UserID,
		ServiceID:        in.ServiceID,
		Model:            in.Model,
		TokensPrompt:     in.PromptTokens,
		TokensCompletion: in.CompletionTokens,
		TokensTotal:      int(tokens),
		DurationMs:       in.DurationMs,
	}
	if r.usageRepo != nil {
		if err := r.usageRepo.Create(ctx, event); err != nil {
			logger.Warn(ctx, "failed to persist usage event",
				"user_id", in.UserID, "service_id", in.ServiceID, "error", err)
		}
	}
	if r.publisher != nil {
		if err := r.publisher.PublishUsage(ctx, event); err != nil {
			logger.Warn(ctx, "failed to publish usage event",
				"user_id", in.UserID, "service_id", in.ServiceID, "error", err)
		}
	}

	metrics.GenerationTokens.WithLabelValues(in.ServiceID, "prompt").Observe(float64(in.PromptTokens))
	metrics.GenerationTokens.WithLabelValues(in.ServiceID, "completion").Observe(float64(in.CompletionTokens))
}
