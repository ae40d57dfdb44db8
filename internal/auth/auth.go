// Package auth implements the single-role credential gate in front of
// the review endpoints: one static staff credential from config and
// 30-day HS256 session tokens.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Neutx/snap-and-win/internal/config"
)

// ErrInvalidCredentials is returned for any login failure. The caller
// never learns which field was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims are the session token claims. There is no role hierarchy; any
// valid session has full review access.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator checks the staff credential and issues session tokens.
type Authenticator struct {
	cfg config.AuthConfig
	now func() time.Time
}

// NewAuthenticator creates an Authenticator from the auth configuration.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{cfg: cfg, now: time.Now}
}

// Login verifies the credential pair and returns a signed session token
// with its expiry. Both failure modes return ErrInvalidCredentials.
func (a *Authenticator) Login(email, password string) (string, time.Time, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.cfg.AdminEmail)) == 1
	if !emailOK || !a.checkPassword(password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiresAt := a.now().Add(time.Duration(a.cfg.SessionTTLDays) * 24 * time.Hour)
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(a.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// checkPassword prefers the bcrypt hash; the plaintext comparison exists
// for local development configs only.
func (a *Authenticator) checkPassword(password string) bool {
	if a.cfg.AdminPasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(password)) == nil
	}
	if a.cfg.AdminPassword == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(a.cfg.AdminPassword)) == 1
}

// Verify parses and validates a session token.
func (a *Authenticator) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(func() time.Time { return a.now() }))
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
