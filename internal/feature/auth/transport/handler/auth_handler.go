// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_backend/internal/api"
	"storefront_backend/internal/feature/auth/domain/entity"
	"storefront_backend/internal/feature/auth/transport/http/dto"
	"storefront_backend/internal/feature/auth/usecase"
	jwtmw "storefront_backend/internal/platform/jwt"
	"storefront_backend/internal/shared/apperr"
)

const (
	forgotPasswordMessage = "Check your email for reset instructions"
	resetPasswordMessage  = "Password reset successfully"
	logoutMessage         = "Logged out"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、公開ユーザー情報を返します。
	Register(ctx context.Context, email, password, fullName string) (entity.PublicUser, error)
	// Login はメールアドレスとパスワードを検証します。
	Login(ctx context.Context, email, password string) (entity.PublicUser, error)
	// GetUser はIDでユーザーを取得します。
	GetUser(ctx context.Context, id string) (entity.PublicUser, error)
	// RequestPasswordReset はリセットトークンを発行します。
	RequestPasswordReset(ctx context.Context, email string) (string, error)
	// ResetPassword はトークンを消費してパスワードを更新します。
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// SessionManager はセッションの発行と終了を行います。
type SessionManager interface {
	Start(ctx context.Context, userID, userAgent, ip string) (string, time.Time, error)
	End(ctx context.Context, token string) error
}

// Config controls cookie flags and reset token disclosure.
type Config struct {
	// ExposeResetToken returns the reset token in the forgot-password response.
	ExposeResetToken bool
	// CookieSecure sets the Secure flag on the session cookie.
	CookieSecure bool
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth     AuthUsecase
	sessions SessionManager
	cfg      Config
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, sessions SessionManager, cfg Config) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, cfg: cfg}
}

// fail writes err as a 400 for domain errors and a masked 500 otherwise.
func fail(c *gin.Context, op string, err error) {
	if apperr.IsDomain(err) {
		slog.Warn(op+" failed", "code", apperr.CodeOf(err), "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.NewErrorResponse(err))
		return
	}
	slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
	c.JSON(http.StatusInternalServerError, api.NewErrorResponse(err))
}

// Register はユーザー登録APIエンドポイントを処理します。
// - 必須フィールド欠落時は400 MissingField
// - メール重複・弱いパスワードは400
// - 成功時は201
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MissingField(""))
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		fail(c, "register", err)
		return
	}
	slog.Info("user registered", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserEnvelope(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// 認証成功時はセッションを発行し、HttpOnlyクッキーに署名付きトークンを設定します。
// メール不明とパスワード不一致は区別せず401を返します。
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MissingField(""))
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownEmail) || errors.Is(err, usecase.ErrInvalidPassword) {
			// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
			slog.Warn("login failed", "code", apperr.CodeOf(err), "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "invalid email or password", Code: "InvalidCredentials"})
			return
		}
		fail(c, "login", err)
		return
	}

	token, expiresAt, err := h.sessions.Start(c.Request.Context(), user.ID, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		fail(c, "session start", err)
		return
	}
	h.setSessionCookie(c, token, int(time.Until(expiresAt).Seconds()))

	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.NewUserEnvelope(user))
}

// Logout revokes the current session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := c.GetString(jwtmw.ContextSessionToken)
	if err := h.sessions.End(c.Request.Context(), token); err != nil && !errors.Is(err, usecase.ErrSessionNotFound) {
		fail(c, "logout", err)
		return
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: logoutMessage})
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), jwtmw.UserID(c))
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.NewErrorResponse(err))
			return
		}
		fail(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewUserEnvelope(user))
}

// ForgotPassword issues a reset token. The token is included in the response
// only when ExposeResetToken is set.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.MissingField("email"))
		return
	}
	token, err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email)
	if err != nil {
		fail(c, "forgot password", err)
		return
	}

	res := dto.ForgotPasswordRes{Success: true, Message: forgotPasswordMessage}
	if h.cfg.ExposeResetToken {
		res.Token = token
	}
	slog.Info("password reset requested", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, res)
}

// ResetPassword consumes a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.MissingField("token, newPassword"))
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
		fail(c, "reset password", err)
		return
	}
	slog.Info("password reset completed", "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.MessageResponse{Success: true, Message: resetPasswordMessage})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(jwtmw.CookieName, value, maxAge, "/", "", h.cfg.CookieSecure, true)
}
