// Package entity 定义领域实体
package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole 用户角色
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleMember UserRole = "member"
)

// User 用户实体
type User struct {
	ID           string   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string   `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"type:varchar(255);not null"` // 不在 JSON 中暴露
	Name         string   `json:"name" gorm:"type:varchar(255)"`
	Role         UserRole `json:"role" gorm:"type:varchar(32);default:'member'"`
	// TokenBalance 剩余可用 Token；管理员不受余额约束
	TokenBalance int64 `json:"token_balance" gorm:"default:0"`
	// ConsumedTokens 累计消耗 Token
	ConsumedTokens int64 `json:"consumed_tokens" gorm:"default:0"`
	// Jurisdiction 用户司法辖区，非空时注入到提示词
	Jurisdiction      string     `json:"jurisdiction,omitempty" gorm:"type:varchar(128)"`
	PreferredLanguage Language   `json:"preferred_language,omitempty" gorm:"type:varchar(8);default:'ar'"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// NewUser 创建新用户
func NewUser(email, name string) *User {
	now := time.Now()
	return &User{
		Email:             email,
		Name:              name,
		Role:              UserRoleMember,
		PreferredLanguage: LanguageArabic,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsAdmin 检查用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// IsPrivileged 特权账号不做 Token 余额扣减
func (u *User) IsPrivileged() bool {
	return u.IsAdmin()
}

// SetPassword 设置并散列密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
