package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront_backend/internal/feature/auth/domain/entity"
	"storefront_backend/internal/shared/randtoken"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6

	// DefaultResetTokenTTL is how long a password reset token stays usable.
	DefaultResetTokenTTL = time.Hour

	// dummyHash keeps Login's cost constant when the email is unknown.
	dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrDuplicateEmailを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// UpdatePassword overwrites the stored hash of the user.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// ResetNotifier delivers a reset token to the account owner out of band.
type ResetNotifier interface {
	NotifyPasswordReset(ctx context.Context, email, token string, expiresAt time.Time) error
}

// SessionRevoker ends every session of a user.
type SessionRevoker interface {
	RevokeAll(ctx context.Context, userID string) error
}

// AuthConfig tunes hashing cost and token lifetime.
type AuthConfig struct {
	BcryptCost    int
	ResetTokenTTL time.Duration
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	tokens   ResetTokenRepository
	notifier ResetNotifier
	sessions SessionRevoker

	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// notifier and sessions may be nil.
func NewAuthUsecase(users UserRepository, tokens ResetTokenRepository, notifier ResetNotifier,
	sessions SessionRevoker, cfg AuthConfig) *authUsecase {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	return &authUsecase{
		users:      users,
		tokens:     tokens,
		notifier:   notifier,
		sessions:   sessions,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   cfg.ResetTokenTTL,
		now:        time.Now,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// prehash はパスワードをSHA-256のbase64表現（44バイト）に変換します。
// bcryptは72バイトを超える入力を扱えないため、長さに関係なくこの値をbcryptに渡します。
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func (u *authUsecase) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(prehash(password), u.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// The email check runs before password validation, so a taken email always
// reports ErrDuplicateEmail.
func (u *authUsecase) Register(ctx context.Context, email, password, fullName string) (entity.PublicUser, error) {
	if _, err := u.users.FindByEmail(ctx, email); err == nil {
		return entity.PublicUser{}, ErrDuplicateEmail
	} else if !errors.Is(err, ErrUserNotFound) {
		return entity.PublicUser{}, fmt.Errorf("failed to look up email: %w", err)
	}

	if err := validatePassword(password); err != nil {
		return entity.PublicUser{}, err
	}

	hashed, err := u.hash(password)
	if err != nil {
		return entity.PublicUser{}, err
	}

	user := &entity.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hashed,
		FullName: fullName,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return entity.PublicUser{}, err
	}
	return user.Public(), nil
}

// Login はメールアドレスとパスワードを検証し、公開ユーザー情報を返します。
// セッションの発行は呼び出し側（HTTP層）の責務です。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (entity.PublicUser, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return entity.PublicUser{}, fmt.Errorf("failed to look up email: %w", err)
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}

	// 第1引数はハッシュ化パスワード、第2引数は平文パスワード
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), prehash(password))

	if err != nil {
		return entity.PublicUser{}, ErrUnknownEmail
	}
	if compareErr != nil {
		return entity.PublicUser{}, ErrInvalidPassword
	}
	return user.Public(), nil
}

// GetUser returns the public view of the user with the given id.
func (u *authUsecase) GetUser(ctx context.Context, id string) (entity.PublicUser, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		return entity.PublicUser{}, err
	}
	return user.Public(), nil
}

// RequestPasswordReset issues a single-use token for the account and hands it
// to the notifier. The token is also returned so the caller can decide whether
// to disclose it.
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if _, err := u.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrUnknownEmail
		}
		return "", fmt.Errorf("failed to look up email: %w", err)
	}

	token, err := randtoken.New()
	if err != nil {
		return "", err
	}

	rt := &entity.ResetToken{
		Token:     token,
		Email:     email,
		ExpiresAt: u.now().Add(u.resetTTL),
	}
	if err := u.tokens.Create(ctx, rt); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	if u.notifier != nil {
		if err := u.notifier.NotifyPasswordReset(ctx, email, token, rt.ExpiresAt); err != nil {
			slog.Warn("password reset notification failed", "email", email, "error", err)
		}
	}
	return token, nil
}

// ResetPassword consumes token and replaces the password of the bound account.
// An expired token is deleted as a side effect. A weak password leaves the
// token in place. Every session of the user is revoked on success.
func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	rt, err := u.tokens.Find(ctx, token)
	if err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to load reset token: %w", err)
	}

	if rt.ExpiredAt(u.now()) {
		if err := u.tokens.Delete(ctx, token); err != nil && !errors.Is(err, ErrResetTokenNotFound) {
			slog.Warn("failed to delete expired reset token", "error", err)
		}
		return ErrExpiredToken
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hashed, err := u.hash(newPassword)
	if err != nil {
		return err
	}

	// トークンを消費する前にユーザーを確認する（失敗時はトークンを残す）
	user, err := u.users.FindByEmail(ctx, rt.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUnknownEmail
		}
		return fmt.Errorf("failed to look up email: %w", err)
	}

	// Only one caller can delete the token, so only one caller gets past here.
	if err := u.tokens.Delete(ctx, token); err != nil {
		if errors.Is(err, ErrResetTokenNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	if err := u.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if u.sessions != nil {
		if err := u.sessions.RevokeAll(ctx, user.ID); err != nil {
			slog.Warn("failed to revoke sessions after password reset", "user_id", user.ID, "error", err)
		}
	}
	return nil
}
