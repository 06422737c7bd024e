// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// FieldType 表单字段类型
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeFile     FieldType = "file"
)

// FormField 服务表单字段定义（双语标签）
type FormField struct {
	Key      string    `json:"key"`
	LabelAr  string    `json:"label_ar"`
	LabelEn  string    `json:"label_en"`
	Type     FieldType `json:"type"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required,omitempty"`
}

// GenerationDefaults 服务自带的生成配置基底。
// 长度档位与系统指令在组装时覆盖同名字段。
type GenerationDefaults struct {
	MaxOutputTokens *int32   `json:"max_output_tokens,omitempty"`
	ThinkingBudget  *int32   `json:"thinking_budget,omitempty"`
	Temperature     *float32 `json:"temperature,omitempty"`
}

// Service 法律服务目录条目
type Service struct {
	ID            string              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryID    string              `json:"category_id" gorm:"type:uuid;index;not null"`
	Slug          string              `json:"slug" gorm:"type:varchar(128);uniqueIndex;not null"`
	TitleAr       string              `json:"title_ar" gorm:"type:varchar(255);not null"`
	TitleEn       string              `json:"title_en" gorm:"type:varchar(255);not null"`
	DescriptionAr string              `json:"description_ar,omitempty" gorm:"type:text"`
	DescriptionEn string              `json:"description_en,omitempty" gorm:"type:text"`
	Fields        []FormField         `json:"fields" gorm:"type:jsonb;serializer:json"`
	Model         string              `json:"model,omitempty" gorm:"type:varchar(64)"`
	InstructionAr string              `json:"instruction_ar,omitempty" gorm:"type:text"`
	InstructionEn string              `json:"instruction_en,omitempty" gorm:"type:text"`
	Defaults      *GenerationDefaults `json:"defaults,omitempty" gorm:"type:jsonb;serializer:json"`
	UsageCount    int64               `json:"usage_count" gorm:"default:0"`
	Active        bool                `json:"active" gorm:"default:true"`
	SortOrder     int                 `json:"sort_order" gorm:"default:0"`
	CreatedAt     time.Time           `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time           `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Service) TableName() string {
	return "services"
}

// NewService 创建新服务
func NewService(categoryID, slug, titleAr, titleEn string) *Service {
	now := time.Now()
	return &Service{
		CategoryID: categoryID,
		Slug:       slug,
		TitleAr:    titleAr,
		TitleEn:    titleEn,
		Fields:     []FormField{},
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Instruction 返回指定输出语言的服务指令
func (s *Service) Instruction(lang Language) string {
	if lang == LanguageEnglish {
		return strings.TrimSpace(s.InstructionEn)
	}
	return strings.TrimSpace(s.InstructionAr)
}

// FileFieldCount 统计文件类型字段个数
func (s *Service) FileFieldCount() int {
	n := 0
	for _, f := range s.Fields {
		if f.Type == FieldTypeFile {
			n++
		}
	}
	return n
}

// FieldByKey 按键查找表单字段
func (s *Service) FieldByKey(key string) (FormField, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return FormField{}, false
}
