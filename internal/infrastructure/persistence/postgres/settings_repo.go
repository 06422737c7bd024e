// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qanoni-ai-api/internal/domain/entity"
)

// SettingsRepository 站点配置仓储实现（单行表）
type SettingsRepository struct {
	client *Client
}

// NewSettingsRepository 创建站点配置仓储
func NewSettingsRepository(client *Client) *SettingsRepository {
	return &SettingsRepository{client: client}
}

// Get 读取站点配置，行不存在时返回默认配置
func (r *SettingsRepository) Get(ctx context.Context) (*entity.SiteSettings, error) {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.Get")
	defer span.End()

	db := getDB(ctx, r.client.db)
	var settings entity.SiteSettings
	if err := db.First(&settings, "id = ?", entity.SiteSettingsID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return entity.DefaultSiteSettings(), nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get site settings: %w", err)
	}
	return &settings, nil
}

// Save 写入站点配置，固定主键 upsert
func (r *SettingsRepository) Save(ctx context.Context, settings *entity.SiteSettings) error {
	ctx, span := tracer.Start(ctx, "postgres.SettingsRepository.Save")
	defer span.End()

	settings.ID = entity.SiteSettingsID
	db := getDB(ctx, r.client.db)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(settings).Error; err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save site settings: %w", err)
	}
	return nil
}
