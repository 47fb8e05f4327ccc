// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// RegisterReq は/auth/registerエンドポイントのリクエストボディを表します。
// パスワードの強度はusecase側で検証します。
type RegisterReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
}

// LoginReq は/auth/loginエンドポイントのリクエストボディを表します。
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ForgotPasswordReq is the body of /auth/forgot-password.
type ForgotPasswordReq struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordReq is the body of /auth/reset-password.
type ResetPasswordReq struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}
