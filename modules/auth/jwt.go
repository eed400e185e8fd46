package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kalviumcommunity/Medical-Appointments/config"
	"github.com/kalviumcommunity/Medical-Appointments/domain/user"
)

var (
	// ErrTokenMissing is returned when no token was supplied.
	ErrTokenMissing = errors.New("no token provided")
	// ErrInvalidToken is returned when the signature or structure check fails.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token is past its expiry.
	ErrExpiredToken = errors.New("token has expired")
	// ErrSecretMissing is returned when no signing secret is configured.
	// Tokens are never signed with a built-in default.
	ErrSecretMissing = errors.New("JWT secret not configured")
)

// JWTClaims are the claims embedded in identity tokens.
type JWTClaims struct {
	UserID string    `json:"user_id"`
	Role   user.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager issues and verifies signed identity tokens.
type JWTManager struct {
	cfg config.AuthConfig
}

// NewJWTManager creates a new JWTManager with the given configuration.
func NewJWTManager(cfg config.AuthConfig) *JWTManager {
	return &JWTManager{cfg: cfg}
}

// Issue produces a signed token embedding the subject id and role, expiring
// after the configured duration.
func (m *JWTManager) Issue(userID string, role user.Role) (string, error) {
	if m.cfg.JWTSecret == "" {
		return "", ErrSecretMissing
	}

	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.cfg.JWTSecret))
}

// Verify validates the token and returns the embedded claims unchanged. There
// is no implicit refresh; an expired token stays expired.
func (m *JWTManager) Verify(tokenString string) (*JWTClaims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}
	if m.cfg.JWTSecret == "" {
		return nil, ErrSecretMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(m.cfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
