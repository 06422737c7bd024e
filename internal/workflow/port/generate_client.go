package port

import (
	"context"

	wfmodel "qanoni-ai-api/internal/workflow/model"
)

// GenerateClient 定义工作流层对生成模型客户端的最小依赖（port）。
// 实现位于 infrastructure/llm；测试使用假实现。
type GenerateClient interface {
	Generate(ctx context.Context, req *wfmodel.GenerationRequest) (*wfmodel.GenerationResult, error)
}
