// Package prompt 负责把服务定义与用户表单组装成可执行的生成请求
package prompt

import (
	"fmt"
	"strings"

	"qanoni-ai-api/internal/domain/entity"
	wfmodel "qanoni-ai-api/internal/workflow/model"
	pkgerrors "qanoni-ai-api/pkg/errors"
)

// 系统指令中服务指令与输出格式模板之间的分隔行
const instructionDivider = "\n\n---\n\n"

// 仅英文输出时附加的指令。阿拉伯语是默认输出语言，不需要显式声明。
const englishOutputDirective = "Respond in English only. Do not include any Arabic text in your answer."

// BuildInput 组装一次生成请求所需的全部输入
type BuildInput struct {
	Service      *entity.Service
	Values       map[string]string
	Attachment   *wfmodel.Attachment
	Language     entity.Language
	Tier         wfmodel.LengthTier
	Jurisdiction string
	// DefaultModel 服务未指定模型时的回退模型
	DefaultModel string
}

// Assembler 把服务定义、表单值与用户上下文组装成 GenerationRequest。
// 相同输入产出逐字节相同的请求，组装过程不做任何 IO。
type Assembler struct{}

// NewAssembler 创建组装器
func NewAssembler() *Assembler {
	return &Assembler{}
}

// BuildRequest 组装生成请求。
// 表单值按服务字段定义顺序拼入提示词，文件字段不进入文本，
// 以单个二进制附件随请求下发；定义了多个文件字段的服务直接拒绝。
func (a *Assembler) BuildRequest(in BuildInput) (*wfmodel.GenerationRequest, error) {
	svc := in.Service
	if svc == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidParam, "service is required")
	}
	if svc.FileFieldCount() > 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidationFailed, "service defines more than one file field")
	}
	if in.Attachment != nil {
		field, ok := svc.FieldByKey(in.Attachment.FieldKey)
		if !ok || field.Type != entity.FieldTypeFile {
			return nil, pkgerrors.New(pkgerrors.CodeValidationFailed,
				fmt.Sprintf("attachment field %q is not a file field of this service", in.Attachment.FieldKey))
		}
	}

	promptText, err := a.buildPromptText(in)
	if err != nil {
		return nil, err
	}

	cfg, err := a.buildConfig(in)
	if err != nil {
		return nil, err
	}

	model := svc.Model
	if model == "" {
		model = in.DefaultModel
	}

	return &wfmodel.GenerationRequest{
		Model:      model,
		PromptText: promptText,
		Attachment: in.Attachment,
		Config:     cfg,
	}, nil
}

// buildPromptText 拼装提示词正文。
// 首行为服务英文标题，随后按字段定义顺序逐行 "<英文标签>: <值>"，
// 然后是司法辖区段落，英文输出时附加语言指令。
func (a *Assembler) buildPromptText(in BuildInput) (string, error) {
	var b strings.Builder
	b.WriteString(in.Service.TitleEn)
	b.WriteString("\n\n")

	for _, field := range in.Service.Fields {
		if field.Type == entity.FieldTypeFile {
			continue
		}
		value := strings.TrimSpace(in.Values[field.Key])
		if value == "" {
			if field.Required {
				return "", pkgerrors.New(pkgerrors.CodeValidationFailed,
					fmt.Sprintf("required field %q is missing", field.Key))
			}
			continue
		}
		b.WriteString(field.LabelEn)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString("\n")
	}

	if in.Jurisdiction != "" {
		b.WriteString("\nApplicable jurisdiction: ")
		b.WriteString(in.Jurisdiction)
		b.WriteString(". Base the answer on the laws of this jurisdiction unless the request specifies otherwise.\n")
	}

	if in.Language == entity.LanguageEnglish {
		b.WriteString("\n")
		b.WriteString(englishOutputDirective)
		b.WriteString("\n")
	}

	return b.String(), nil
}

// buildConfig 由服务基底配置、长度档位与系统指令叠出最终配置。
// 叠加顺序固定：基底 → 档位 → 系统指令，后者覆盖前者同名字段。
func (a *Assembler) buildConfig(in BuildInput) (wfmodel.GenerationConfig, error) {
	var cfg wfmodel.GenerationConfig
	if d := in.Service.Defaults; d != nil {
		cfg.MaxOutputTokens = cloneInt32(d.MaxOutputTokens)
		cfg.ThinkingBudget = cloneInt32(d.ThinkingBudget)
		cfg.Temperature = cloneFloat32(d.Temperature)
	}
	in.Tier.Apply(&cfg)

	template, err := StructuredHTMLTemplate(in.Language)
	if err != nil {
		return wfmodel.GenerationConfig{}, err
	}
	instruction := in.Service.Instruction(in.Language)
	if instruction != "" {
		cfg.SystemInstruction = instruction + instructionDivider + template
	} else {
		cfg.SystemInstruction = template
	}
	return cfg, nil
}

func cloneInt32(p *int32) *int32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat32(p *float32) *float32 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
