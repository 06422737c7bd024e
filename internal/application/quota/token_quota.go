// Package quota 提供用户 Token 余额与用量记账能力
package quota

import (
	"context"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	pkgerrors "qanoni-ai-api/pkg/errors"
)

// TokenBalanceChecker 生成前的余额预检
type TokenBalanceChecker struct {
	userRepo repository.UserRepository
}

// NewTokenBalanceChecker 创建余额检查器
func NewTokenBalanceChecker(userRepo repository.UserRepository) *TokenBalanceChecker {
	return &TokenBalanceChecker{userRepo: userRepo}
}

// Check 检查用户是否有余额发起生成。
// 特权账号直接放行；普通用户余额不大于零时拒绝。
// 预检只挡住明显透支，真正的扣减发生在生成成功之后。
func (c *TokenBalanceChecker) Check(ctx context.Context, userID string) (*entity.User, error) {
	user, err := c.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.ErrUserNotFound
	}
	if user.IsPrivileged() {
		return user, nil
	}
	if user.TokenBalance <= 0 {
		return nil, pkgerrors.ErrInsufficientTokens
	}
	return user, nil
}
