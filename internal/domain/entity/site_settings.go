// Package entity 定义领域实体
package entity

import "time"

// SiteSettings 站点配置（单行表）
type SiteSettings struct {
	ID            string `json:"id" gorm:"type:varchar(32);primaryKey"`
	SiteNameAr    string `json:"site_name_ar" gorm:"type:varchar(255)"`
	SiteNameEn    string `json:"site_name_en" gorm:"type:varchar(255)"`
	ContactEmail  string `json:"contact_email,omitempty" gorm:"type:varchar(255)"`
	SupportPhone  string `json:"support_phone,omitempty" gorm:"type:varchar(64)"`
	// SignupTokens 新用户注册赠送的 Token 数
	SignupTokens int64 `json:"signup_tokens" gorm:"default:10000"`
	// MaintenanceMode 开启后生成接口对非管理员关闭
	MaintenanceMode bool      `json:"maintenance_mode" gorm:"default:false"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// SiteSettingsID 单行表固定主键
const SiteSettingsID = "default"

// TableName 指定表名
func (SiteSettings) TableName() string {
	return "site_settings"
}

// DefaultSiteSettings 返回默认站点配置
func DefaultSiteSettings() *SiteSettings {
	return &SiteSettings{
		ID:           SiteSettingsID,
		SiteNameAr:   "قانوني",
		SiteNameEn:   "Qanoni",
		SignupTokens: 10000,
	}
}
