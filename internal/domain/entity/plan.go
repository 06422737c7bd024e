// Package entity 定义领域实体
package entity

import "time"

// Plan 订阅套餐（双语）
type Plan struct {
	ID            string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug          string    `json:"slug" gorm:"type:varchar(128);uniqueIndex;not null"`
	NameAr        string    `json:"name_ar" gorm:"type:varchar(255);not null"`
	NameEn        string    `json:"name_en" gorm:"type:varchar(255);not null"`
	DescriptionAr string    `json:"description_ar,omitempty" gorm:"type:text"`
	DescriptionEn string    `json:"description_en,omitempty" gorm:"type:text"`
	// MonthlyTokens 每个计费周期发放的 Token 数
	MonthlyTokens int64  `json:"monthly_tokens" gorm:"not null;default:0"`
	PriceCents    int64  `json:"price_cents" gorm:"not null;default:0"`
	Currency      string `json:"currency" gorm:"type:varchar(8);default:'SAR'"`
	// ExternalPriceID 支付后台的价格标识
	ExternalPriceID string    `json:"external_price_id,omitempty" gorm:"type:varchar(128)"`
	Active          bool      `json:"active" gorm:"default:true"`
	SortOrder       int       `json:"sort_order" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Plan) TableName() string {
	return "plans"
}
