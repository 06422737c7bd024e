// Package model 定义生成工作流的输入输出模型
package model

import (
	"time"

	"google.golang.org/genai"
)

// Attachment 随请求上传的单个二进制附件
type Attachment struct {
	FieldKey string
	MIMEType string
	Data     []byte
}

// GenerationConfig 一次调用的生成配置。
// 指针字段为 nil 表示不下发该项，使用模型方默认值。
type GenerationConfig struct {
	MaxOutputTokens   *int32
	ThinkingBudget    *int32
	Temperature       *float32
	SystemInstruction string

	// ResponseMIMEType/ResponseSchema 仅结构化生成（JSON 模式）使用
	ResponseMIMEType string
	ResponseSchema   *genai.Schema
}

// GenerationRequest 组装完成、可直接执行的生成请求。
// 单次请求单次消费，不持久化。
type GenerationRequest struct {
	Model      string
	PromptText string
	Attachment *Attachment
	Config     GenerationConfig
}

// Usage 模型方回报的 Token 用量
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GenerationResult 生成结果
type GenerationResult struct {
	Text        string
	Usage       Usage
	Model       string
	Duration    time.Duration
	GeneratedAt time.Time
}

// LengthTier 输出长度档位
type LengthTier string

const (
	LengthTierShort   LengthTier = "short"
	LengthTierMedium  LengthTier = "medium"
	LengthTierDefault LengthTier = "default"
)

// ParseLengthTier 解析长度档位，未知值回退到 default
func ParseLengthTier(s string) LengthTier {
	switch LengthTier(s) {
	case LengthTierShort:
		return LengthTierShort
	case LengthTierMedium:
		return LengthTierMedium
	default:
		return LengthTierDefault
	}
}

// 档位到 (maxOutputTokens, thinkingBudget) 的固定映射。
// default 档不下发任何上限，交给模型方默认值。
var tierBudgets = map[LengthTier]struct {
	MaxOutputTokens int32
	ThinkingBudget  int32
}{
	LengthTierShort:  {MaxOutputTokens: 512, ThinkingBudget: 256},
	LengthTierMedium: {MaxOutputTokens: 2048, ThinkingBudget: 1024},
}

// Apply 将档位预算覆盖到配置上。short/medium 总是覆盖同名字段，
// default 不触碰配置。
func (t LengthTier) Apply(cfg *GenerationConfig) {
	b, ok := tierBudgets[t]
	if !ok {
		return
	}
	maxTokens := b.MaxOutputTokens
	thinking := b.ThinkingBudget
	cfg.MaxOutputTokens = &maxTokens
	cfg.ThinkingBudget = &thinking
}
