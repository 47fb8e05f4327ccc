package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Verify for any token that fails parsing,
// signature, expiry or claim checks.
var ErrInvalidToken = errors.New("invalid session token")

// Generator signs and verifies session tokens.
// Claims: sub = user id, sid = server-side session id, exp, iat.
type Generator struct {
	secret []byte
	now    func() time.Time
}

// NewGenerator creates a new JWT generator with the provided HMAC secret.
func NewGenerator(secret string) *Generator {
	return &Generator{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Sign creates an HS256 token binding userID to sessionID until expiresAt.
func (g *Generator) Sign(userID, sessionID string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"sid": sessionID,
		"exp": expiresAt.Unix(),
		"iat": g.now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenStr and returns its
// user id and session id.
func (g *Generator) Verify(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// HMAC only
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return g.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(g.now))
	if err != nil || !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	sid, _ := claims["sid"].(string)
	if sub == "" || sid == "" {
		return "", "", ErrInvalidToken
	}
	return sub, sid, nil
}
