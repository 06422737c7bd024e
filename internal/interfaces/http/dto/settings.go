// Package dto 提供 HTTP 层数据传输对象
package dto

import "qanoni-ai-api/internal/domain/entity"

// SiteSettingsResponse 站点配置公开视图
type SiteSettingsResponse struct {
	SiteName        string `json:"site_name"`
	ContactEmail    string `json:"contact_email,omitempty"`
	SupportPhone    string `json:"support_phone,omitempty"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}

// ToSiteSettingsResponse 按语言本地化站点配置
func ToSiteSettingsResponse(s *entity.SiteSettings, lang entity.Language) *SiteSettingsResponse {
	if s == nil {
		return nil
	}
	name := s.SiteNameAr
	if lang == entity.LanguageEnglish {
		name = s.SiteNameEn
	}
	return &SiteSettingsResponse{
		SiteName:        name,
		ContactEmail:    s.ContactEmail,
		SupportPhone:    s.SupportPhone,
		MaintenanceMode: s.MaintenanceMode,
	}
}
