// Package main 系统初始化：建表并写入首个管理员与站点配置
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"qanoni-ai-api/internal/config"
	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/wire"
)

func main() {
	_ = godotenv.Load()

	fmt.Println("Starting system bootstrap...")

	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. 初始化数据层（仅 PostgreSQL）
	dataLayer, cleanup, err := wire.InitializePostgresOnly(cfg)
	if err != nil {
		log.Fatalf("failed to initialize data layer: %v", err)
	}
	defer cleanup()

	// 3. 迁移表结构
	fmt.Println("Running schema migration...")
	err = dataLayer.PgClient.DB().AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Service{},
		&entity.Plan{},
		&entity.Subscription{},
		&entity.Ticket{},
		&entity.SiteSettings{},
		&entity.LLMUsageEvent{},
	)
	if err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	// 4. 写入默认站点配置（已存在则保留现有值）
	settings, err := dataLayer.SettingsRepo.Get(ctx)
	if err != nil {
		log.Fatalf("failed to load site settings: %v", err)
	}
	if err := dataLayer.SettingsRepo.Save(ctx, settings); err != nil {
		log.Fatalf("failed to save site settings: %v", err)
	}
	fmt.Printf("Site settings ready (signup tokens: %d).\n", settings.SignupTokens)

	// 5. 创建首个管理员
	adminEmail := os.Getenv("BOOTSTRAP_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@qanoni.app"
	}
	adminPassword := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "admin123" // 生产环境请务必通过环境变量设置
	}

	userExists, err := dataLayer.UserRepo.ExistsByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatalf("failed to check admin existence: %v", err)
	}

	if !userExists {
		fmt.Printf("Creating admin user: %s...\n", adminEmail)
		admin := entity.NewUser(adminEmail, "System Admin")
		admin.Role = entity.UserRoleAdmin
		if err := admin.SetPassword(adminPassword); err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		if err := dataLayer.UserRepo.Create(ctx, admin); err != nil {
			log.Fatalf("failed to create admin user: %v", err)
		}
		fmt.Printf("Admin user created successfully.\n")
	} else {
		fmt.Printf("Admin user %s already exists.\n", adminEmail)
	}

	fmt.Println("Bootstrap completed successfully.")
}
