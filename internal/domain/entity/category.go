// Package entity 定义领域实体
package entity

import "time"

// Category 服务分类（双语）
type Category struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Slug      string    `json:"slug" gorm:"type:varchar(128);uniqueIndex;not null"`
	NameAr    string    `json:"name_ar" gorm:"type:varchar(255);not null"`
	NameEn    string    `json:"name_en" gorm:"type:varchar(255);not null"`
	Icon      string    `json:"icon,omitempty" gorm:"type:varchar(64)"`
	SortOrder int       `json:"sort_order" gorm:"default:0"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
