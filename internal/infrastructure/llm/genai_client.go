// Package llm 封装 Gemini 生成模型调用
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"qanoni-ai-api/internal/config"
	wfmodel "qanoni-ai-api/internal/workflow/model"
	"qanoni-ai-api/internal/workflow/port"
	"qanoni-ai-api/pkg/logger"
)

// GenaiClient 基于官方 genai SDK 的生成客户端。
// 实现 port.GenerateClient；单个实例可并发使用。
type GenaiClient struct {
	client  *genai.Client
	cfg     *config.LLMConfig
	timeout time.Duration
}

var _ port.GenerateClient = (*GenaiClient)(nil)

// NewGenaiClient 创建 Gemini 客户端。
// 凭证缺失立即报错，不允许进入无凭证的运行状态。
func NewGenaiClient(ctx context.Context, cfg *config.Config) (*GenaiClient, error) {
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	timeout := cfg.LLM.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &GenaiClient{
		client:  client,
		cfg:     &cfg.LLM,
		timeout: timeout,
	}, nil
}

// Generate 执行单次生成调用。
// 不做任何重试与错误分类，原样返回 SDK 错误，由上层重试器判定。
func (c *GenaiClient) Generate(ctx context.Context, req *wfmodel.GenerationRequest) (*wfmodel.GenerationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}

	contents := buildContents(req)
	genCfg := buildGenerateConfig(&req.Config)

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, genCfg)
	duration := time.Since(start)
	if err != nil {
		logger.Warn(ctx, "genai generate content failed",
			"model", model,
			"duration_ms", duration.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	text := resp.Text()
	if text == "" {
		return nil, errors.New("genai returned empty response")
	}

	result := &wfmodel.GenerationResult{
		Text:        text,
		Model:       model,
		Duration:    duration,
		GeneratedAt: time.Now(),
	}
	if um := resp.UsageMetadata; um != nil {
		result.Usage = wfmodel.Usage{
			PromptTokens:     int(um.PromptTokenCount),
			CompletionTokens: int(um.CandidatesTokenCount),
			TotalTokens:      int(um.TotalTokenCount),
		}
	}

	logger.Debug(ctx, "genai generate content completed",
		"model", model,
		"duration_ms", duration.Milliseconds(),
		"total_tokens", result.Usage.TotalTokens,
	)
	return result, nil
}

// buildContents 把提示词与可选附件组装成 SDK 内容。
// 附件作为内联二进制部分放在文本之后。
func buildContents(req *wfmodel.GenerationRequest) []*genai.Content {
	parts := []*genai.Part{
		{Text: req.PromptText},
	}
	if att := req.Attachment; att != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: att.MIMEType,
				Data:     att.Data,
			},
		})
	}
	return []*genai.Content{
		{Role: genai.RoleUser, Parts: parts},
	}
}

// buildGenerateConfig 把内部生成配置映射为 SDK 配置。
// nil 指针字段不下发，保持模型方默认值。
func buildGenerateConfig(cfg *wfmodel.GenerationConfig) *genai.GenerateContentConfig {
	out := &genai.GenerateContentConfig{}
	if cfg.MaxOutputTokens != nil {
		out.MaxOutputTokens = *cfg.MaxOutputTokens
	}
	if cfg.ThinkingBudget != nil {
		out.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: cfg.ThinkingBudget,
		}
	}
	if cfg.Temperature != nil {
		out.Temperature = cfg.Temperature
	}
	if cfg.SystemInstruction != "" {
		out.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: cfg.SystemInstruction}},
		}
	}
	if cfg.ResponseMIMEType != "" {
		out.ResponseMIMEType = cfg.ResponseMIMEType
		out.ResponseSchema = cfg.ResponseSchema
	}
	return out
}
