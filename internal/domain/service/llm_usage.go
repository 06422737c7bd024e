package service

import "context"

// LLMUsageInput 表示一次成功生成的可计费与可观测数据。
// 说明：该结构位于 domain/service，作为跨层的稳定契约（port），
// 避免基础设施层依赖应用层实现。
type LLMUsageInput struct {
	UserID    string
	ServiceID string
	Model     string

	// Privileged 特权账号不扣余额
	Privileged bool

	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	DurationMs       int

	// ResultEmpty 生成结果为空时不增加服务使用计数
	ResultEmpty bool
}

// LLMUsageRecorder 负责记录生成用量（扣费 + 流水落库等）。
// 约定：实现必须是 best-effort —— 任何记账失败都只记日志，
// 不改变调用方已经拿到的生成结果。
type LLMUsageRecorder interface {
	Record(ctx context.Context, in LLMUsageInput)
}
