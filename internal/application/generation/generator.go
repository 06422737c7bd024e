// Package generation 文书生成应用服务
package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"qanoni-ai-api/internal/config"
	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/service"
	wfmodel "qanoni-ai-api/internal/workflow/model"
	"qanoni-ai-api/internal/workflow/node"
	"qanoni-ai-api/internal/workflow/port"
	"qanoni-ai-api/internal/workflow/prompt"
	"qanoni-ai-api/internal/workflow/retry"
	pkgerrors "qanoni-ai-api/pkg/errors"
	"qanoni-ai-api/pkg/logger"
	"qanoni-ai-api/pkg/metrics"
	"qanoni-ai-api/pkg/tracer"
)

// GenerateInput 一次文书生成的输入
type GenerateInput struct {
	User       *entity.User
	Service    *entity.Service
	Values     map[string]string
	Attachment *wfmodel.Attachment
	Language   entity.Language
	Tier       wfmodel.LengthTier
}

// GenerateOutput 生成结果
type GenerateOutput struct {
	HTML  string
	Model string
	Usage wfmodel.Usage
}

// Generator 串起提示词组装、重试调用、错误归类与用量记账的生成管线
type Generator struct {
	assembler *prompt.Assembler
	client    port.GenerateClient
	driver    *retry.Driver
	recorder  service.LLMUsageRecorder
	llmCfg    *config.LLMConfig
}

// NewGenerator 创建生成服务。recorder 可以为 nil（纯计算场景）。
func NewGenerator(
	assembler *prompt.Assembler,
	client port.GenerateClient,
	recorder service.LLMUsageRecorder,
	cfg *config.Config,
) *Generator {
	return &Generator{
		assembler: assembler,
		client:    client,
		driver:    retry.NewDriver(),
		recorder:  recorder,
		llmCfg:    &cfg.LLM,
	}
}

// Generate 执行一次文书生成。
// 瞬时故障按固定策略重试；配额耗尽归一为 ErrQuotaExhausted 且绝不重试；
// 成功后同步记账，记账失败不影响返回结果。
func (g *Generator) Generate(ctx context.Context, in *GenerateInput) (*GenerateOutput, error) {
	ctx, span := tracer.Start(ctx, "generation.Generate")
	defer span.End()

	if in == nil || in.Service == nil || in.User == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "generate input is incomplete")
	}

	req, err := g.assembler.BuildRequest(prompt.BuildInput{
		Service:      in.Service,
		Values:       in.Values,
		Attachment:   in.Attachment,
		Language:     in.Language,
		Tier:         in.Tier,
		Jurisdiction: in.User.Jurisdiction,
		DefaultModel: g.llmCfg.DefaultModel,
	})
	if err != nil {
		return nil, err
	}

	result, err := g.execute(ctx, req)
	if err != nil {
		metrics.GenerationTotal.WithLabelValues(in.Service.ID, "error").Inc()
		return nil, err
	}

	metrics.GenerationTotal.WithLabelValues(in.Service.ID, "success").Inc()
	metrics.GenerationDuration.WithLabelValues(in.Service.ID).Observe(result.Duration.Seconds())

	if g.recorder != nil {
		g.recorder.Record(ctx, service.LLMUsageInput{
			UserID:           in.User.ID,
			ServiceID:        in.Service.ID,
			Model:            result.Model,
			Privileged:       in.User.IsPrivileged(),
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
			DurationMs:       int(result.Duration.Milliseconds()),
			ResultEmpty:      strings.TrimSpace(result.Text) == "",
		})
	}

	return &GenerateOutput{
		HTML:  result.Text,
		Model: result.Model,
		Usage: result.Usage,
	}, nil
}

// GenerateJSON 结构化生成：以 JSON 模式调用模型并解析到 out。
// 用于后台的 AI 辅助服务定义合成，不经过余额记账。
func (g *Generator) GenerateJSON(ctx context.Context, model, promptText string, schema *genai.Schema, out any) error {
	ctx, span := tracer.Start(ctx, "generation.GenerateJSON")
	defer span.End()

	if model == "" {
		model = g.llmCfg.DefaultModel
	}
	req := &wfmodel.GenerationRequest{
		Model:      model,
		PromptText: promptText,
		Config: wfmodel.GenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	}

	result, err := g.execute(ctx, req)
	if err != nil {
		return err
	}

	// 即便声明了 JSON 模式，模型偶尔仍会包一层代码栅栏
	raw := node.StripCodeFence(result.Text)
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		extracted := node.ExtractJSONObject(result.Text)
		if extracted == "" {
			return pkgerrors.Wrap(err, pkgerrors.CodeGenerationFailed, "model returned invalid JSON")
		}
		if err := json.Unmarshal([]byte(extracted), out); err != nil {
			return pkgerrors.Wrap(err, pkgerrors.CodeGenerationFailed, "model returned invalid JSON")
		}
	}
	return nil
}

// execute 带重试地执行请求，并把模型方错误归类为稳定的应用错误
func (g *Generator) execute(ctx context.Context, req *wfmodel.GenerationRequest) (*wfmodel.GenerationResult, error) {
	result, err := g.driver.Do(ctx,
		func(ctx context.Context) (*wfmodel.GenerationResult, error) {
			return g.client.Generate(ctx, req)
		},
		func(attempt, maxAttempts int) {
			metrics.GenerationRetries.WithLabelValues(req.Model).Inc()
			logger.Warn(ctx, "retrying generation after transient failure",
				"model", req.Model,
				"attempt", attempt,
				"max_attempts", maxAttempts,
			)
		},
	)
	if err != nil {
		if node.IsQuotaExhaustedError(err) {
			metrics.QuotaExhaustedTotal.Inc()
			return nil, pkgerrors.ErrQuotaExhausted
		}
		return nil, pkgerrors.Wrap(err, pkgerrors.CodeLLMProviderError,
			fmt.Sprintf("model %s call failed", req.Model))
	}
	return result, nil
}
