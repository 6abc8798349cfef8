package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/0311869uaslp-a11y/Market-pro/pkg/middleware"
)

// Claims are the access token claims issued by the account service.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JWTManager validates HS256 access tokens. Issue exists for tooling and
// tests; production tokens are minted by the account service.
type JWTManager struct {
	secret []byte
	now    func() time.Time
}

func NewJWTManager(secret string) *JWTManager {
	return &JWTManager{secret: []byte(secret), now: time.Now}
}

// Issue signs an access token valid for ttl.
func (m *JWTManager) Issue(userID, name, email, role string, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	claims := &Claims{
		UserID: userID,
		Name:   name,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Validate parses an access token and returns the caller's identity. The
// subject claim stands in for a missing user_id.
func (m *JWTManager) Validate(tokenString string) (*middleware.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid access token claims")
	}
	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if userID == "" {
		return nil, errors.New("access token has no subject")
	}

	return &middleware.Claims{
		UserID: userID,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}
