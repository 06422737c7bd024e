// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"qanoni-ai-api/internal/domain/entity"
)

// CreateCategoryRequest 创建分类请求
type CreateCategoryRequest struct {
	Slug      string `json:"slug" binding:"required,max=128"`
	NameAr    string `json:"name_ar" binding:"required,max=255"`
	NameEn    string `json:"name_en" binding:"required,max=255"`
	Icon      string `json:"icon" binding:"omitempty,max=64"`
	SortOrder int    `json:"sort_order"`
}

// UpdateCategoryRequest 更新分类请求
type UpdateCategoryRequest struct {
	NameAr    *string `json:"name_ar" binding:"omitempty,max=255"`
	NameEn    *string `json:"name_en" binding:"omitempty,max=255"`
	Icon      *string `json:"icon" binding:"omitempty,max=64"`
	SortOrder *int    `json:"sort_order"`
	Active    *bool   `json:"active"`
}

// FormFieldInput 表单字段定义输入
type FormFieldInput struct {
	Key      string   `json:"key" binding:"required,max=64"`
	LabelAr  string   `json:"label_ar" binding:"required,max=255"`
	LabelEn  string   `json:"label_en" binding:"required,max=255"`
	Type     string   `json:"type" binding:"required,oneof=text textarea select file"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
}

// CreateServiceRequest 创建服务请求
type CreateServiceRequest struct {
	CategoryID    string           `json:"category_id" binding:"required,uuid"`
	Slug          string           `json:"slug" binding:"required,max=128"`
	TitleAr       string           `json:"title_ar" binding:"required,max=255"`
	TitleEn       string           `json:"title_en" binding:"required,max=255"`
	DescriptionAr string           `json:"description_ar"`
	DescriptionEn string           `json:"description_en"`
	Fields        []FormFieldInput `json:"fields" binding:"required,min=1,dive"`
	Model         string           `json:"model" binding:"omitempty,max=64"`
	InstructionAr string           `json:"instruction_ar"`
	InstructionEn string           `json:"instruction_en"`
	SortOrder     int              `json:"sort_order"`
}

// UpdateServiceRequest 更新服务请求
type UpdateServiceRequest struct {
	CategoryID    *string          `json:"category_id" binding:"omitempty,uuid"`
	TitleAr       *string          `json:"title_ar" binding:"omitempty,max=255"`
	TitleEn       *string          `json:"title_en" binding:"omitempty,max=255"`
	DescriptionAr *string          `json:"description_ar"`
	DescriptionEn *string          `json:"description_en"`
	Fields        []FormFieldInput `json:"fields" binding:"omitempty,dive"`
	Model         *string          `json:"model" binding:"omitempty,max=64"`
	InstructionAr *string          `json:"instruction_ar"`
	InstructionEn *string          `json:"instruction_en"`
	SortOrder     *int             `json:"sort_order"`
	Active        *bool            `json:"active"`
}

// SynthesizeServiceRequest AI 辅助服务定义合成请求。
// 管理员用一句自然语言描述，由模型生成完整的双语服务定义草稿。
type SynthesizeServiceRequest struct {
	Description string `json:"description" binding:"required,min=10,max=2000"`
}

// SynthesizedServiceResponse AI 合成的服务定义草稿
type SynthesizedServiceResponse struct {
	Slug          string           `json:"slug"`
	TitleAr       string           `json:"title_ar"`
	TitleEn       string           `json:"title_en"`
	DescriptionAr string           `json:"description_ar"`
	DescriptionEn string           `json:"description_en"`
	Fields        []FormFieldInput `json:"fields"`
	InstructionAr string           `json:"instruction_ar"`
	InstructionEn string           `json:"instruction_en"`
}

// UpdateSettingsRequest 更新站点配置请求
type UpdateSettingsRequest struct {
	SiteNameAr      *string `json:"site_name_ar" binding:"omitempty,max=255"`
	SiteNameEn      *string `json:"site_name_en" binding:"omitempty,max=255"`
	ContactEmail    *string `json:"contact_email" binding:"omitempty,email"`
	SupportPhone    *string `json:"support_phone" binding:"omitempty,max=64"`
	SignupTokens    *int64  `json:"signup_tokens" binding:"omitempty,gte=0"`
	MaintenanceMode *bool   `json:"maintenance_mode"`
}

// ToFormFields 输入转换为实体字段
func ToFormFields(inputs []FormFieldInput) []entity.FormField {
	fields := make([]entity.FormField, len(inputs))
	for i, in := range inputs {
		fields[i] = entity.FormField{
			Key:      in.Key,
			LabelAr:  in.LabelAr,
			LabelEn:  in.LabelEn,
			Type:     entity.FieldType(in.Type),
			Options:  in.Options,
			Required: in.Required,
		}
	}
	return fields
}
