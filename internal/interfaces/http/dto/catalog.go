// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"qanoni-ai-api/internal/domain/entity"
)

// CategoryResponse 分类响应（按请求语言本地化）
type CategoryResponse struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// FormFieldResponse 表单字段响应
type FormFieldResponse struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// ServiceSummaryResponse 服务列表项响应
type ServiceSummaryResponse struct {
	ID          string `json:"id"`
	CategoryID  string `json:"category_id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	UsageCount  int64  `json:"usage_count"`
}

// ServiceDetailResponse 服务详情响应（含表单定义）
type ServiceDetailResponse struct {
	ServiceSummaryResponse
	Fields    []FormFieldResponse `json:"fields"`
	CreatedAt time.Time           `json:"created_at"`
}

// ToCategoryResponse 按语言本地化分类
func ToCategoryResponse(cat *entity.Category, lang entity.Language) *CategoryResponse {
	if cat == nil {
		return nil
	}
	name := cat.NameAr
	if lang == entity.LanguageEnglish {
		name = cat.NameEn
	}
	return &CategoryResponse{
		ID:        cat.ID,
		Slug:      cat.Slug,
		Name:      name,
		Icon:      cat.Icon,
		SortOrder: cat.SortOrder,
	}
}

// ToCategoryListResponse 分类列表本地化
func ToCategoryListResponse(cats []*entity.Category, lang entity.Language) []*CategoryResponse {
	out := make([]*CategoryResponse, len(cats))
	for i, c := range cats {
		out[i] = ToCategoryResponse(c, lang)
	}
	return out
}

// ToServiceSummaryResponse 按语言本地化服务摘要
func ToServiceSummaryResponse(svc *entity.Service, lang entity.Language) *ServiceSummaryResponse {
	if svc == nil {
		return nil
	}
	title, desc := svc.TitleAr, svc.DescriptionAr
	if lang == entity.LanguageEnglish {
		title, desc = svc.TitleEn, svc.DescriptionEn
	}
	return &ServiceSummaryResponse{
		ID:          svc.ID,
		CategoryID:  svc.CategoryID,
		Slug:        svc.Slug,
		Title:       title,
		Description: desc,
		UsageCount:  svc.UsageCount,
	}
}

// ToServiceListResponse 服务列表本地化
func ToServiceListResponse(services []*entity.Service, lang entity.Language) []*ServiceSummaryResponse {
	out := make([]*ServiceSummaryResponse, len(services))
	for i, s := range services {
		out[i] = ToServiceSummaryResponse(s, lang)
	}
	return out
}

// ToServiceDetailResponse 按语言本地化服务详情
func ToServiceDetailResponse(svc *entity.Service, lang entity.Language) *ServiceDetailResponse {
	if svc == nil {
		return nil
	}
	fields := make([]FormFieldResponse, len(svc.Fields))
	for i, f := range svc.Fields {
		label := f.LabelAr
		if lang == entity.LanguageEnglish {
			label = f.LabelEn
		}
		fields[i] = FormFieldResponse{
			Key:      f.Key,
			Label:    label,
			Type:     string(f.Type),
			Options:  f.Options,
			Required: f.Required,
		}
	}
	return &ServiceDetailResponse{
		ServiceSummaryResponse: *ToServiceSummaryResponse(svc, lang),
		Fields:                 fields,
		CreatedAt:              svc.CreatedAt,
	}
}
