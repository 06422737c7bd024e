// Package handler 提供 HTTP 请求处理器
package handler

import (
	"time"

	"qanoni-ai-api/internal/domain/entity"
	"qanoni-ai-api/internal/domain/repository"
	"qanoni-ai-api/internal/interfaces/http/dto"
	"qanoni-ai-api/internal/interfaces/http/middleware"
	"qanoni-ai-api/pkg/logger"
	"qanoni-ai-api/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

// AuthHandler 认证处理器
type AuthHandler struct {
	jwtManager   *utils.JWTManager
	userRepo     repository.UserRepository
	settingsRepo repository.SettingsRepository
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg middleware.AuthConfig, userRepo repository.UserRepository, settingsRepo repository.SettingsRepository) *AuthHandler {
	return &AuthHandler{
		jwtManager:   utils.NewJWTManager(cfg.Secret, cfg.Issuer),
		userRepo:     userRepo,
		settingsRepo: settingsRepo,
	}
}

// Register 注册
// @Summary 用户注册
// @Description 创建新用户并按站点配置发放注册赠送 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "注册信息"
// @Success 201 {object} dto.Response[dto.AuthResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	exists, err := h.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to check email existence", err)
		dto.InternalError(c, "registration failed")
		return
	}
	if exists {
		dto.BadRequest(c, "email already registered")
		return
	}

	settings, err := h.settingsRepo.Get(ctx)
	if err != nil {
		logger.Error(ctx, "failed to load site settings", err)
		dto.InternalError(c, "registration failed")
		return
	}

	user := entity.NewUser(req.Email, req.Name)
	user.Jurisdiction = req.Jurisdiction
	if req.Language != "" {
		user.PreferredLanguage = entity.ParseLanguage(req.Language)
	}
	user.TokenBalance = settings.SignupTokens
	if err := user.SetPassword(req.Password); err != nil {
		logger.Error(ctx, "failed to hash password", err)
		dto.InternalError(c, "registration failed")
		return
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		logger.Error(ctx, "failed to create user", err)
		dto.InternalError(c, "registration failed")
		return
	}

	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Role), accessTokenTTL, refreshTokenTTL)
	if err != nil {
		dto.InternalError(c, "user created but failed to generate tokens")
		return
	}

	c.SetCookie("refresh_token", tokens.RefreshToken, int(refreshTokenTTL.Seconds()), "/v1/auth/refresh", "", false, true)

	dto.Created(c, &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Login 登录
// @Summary 用户登录
// @Description 验证邮箱密码并返回双 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "登录信息"
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		logger.Error(ctx, "failed to load user by email", err)
		dto.InternalError(c, "login failed")
		return
	}
	// 密码错误与用户不存在返回同一个错误，避免账号枚举
	if user == nil || !user.CheckPassword(req.Password) {
		dto.Unauthorized(c, "invalid email or password")
		return
	}

	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Role), accessTokenTTL, refreshTokenTTL)
	if err != nil {
		logger.Error(ctx, "failed to generate tokens", err)
		dto.InternalError(c, "login failed")
		return
	}

	if err := h.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn(ctx, "failed to update last login", "user_id", user.ID, "error", err)
	}

	c.SetCookie("refresh_token", tokens.RefreshToken, int(refreshTokenTTL.Seconds()), "/v1/auth/refresh", "", false, true)

	dto.Success(c, &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Refresh 刷新 Token
// @Summary 刷新访问 Token
// @Description 用 RefreshToken 换取新的双 Token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} dto.Response[dto.AuthResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	ctx := c.Request.Context()

	// 优先 Cookie，回退请求体（移动端场景）
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil || refreshToken == "" {
		var req dto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.Unauthorized(c, "missing refresh token")
			return
		}
		refreshToken = req.RefreshToken
	}

	claims, err := h.jwtManager.ParseToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		dto.Unauthorized(c, "invalid refresh token")
		return
	}

	user, err := h.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		logger.Error(ctx, "failed to load user", err)
		dto.InternalError(c, "refresh failed")
		return
	}
	if user == nil {
		dto.Unauthorized(c, "user no longer exists")
		return
	}

	tokens, err := h.jwtManager.GenerateTokenPair(user.ID, string(user.Role), accessTokenTTL, refreshTokenTTL)
	if err != nil {
		dto.InternalError(c, "refresh failed")
		return
	}

	c.SetCookie("refresh_token", tokens.RefreshToken, int(refreshTokenTTL.Seconds()), "/v1/auth/refresh", "", false, true)

	dto.Success(c, &dto.AuthResponse{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   int(accessTokenTTL.Seconds()),
		User:        dto.ToAuthUserDTO(user),
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除刷新令牌 Cookie。访问令牌短寿命，过期即失效。
// @Tags Auth
// @Produce json
// @Success 204
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("refresh_token", "", -1, "/v1/auth/refresh", "", false, true)
	dto.NoContent(c)
}
