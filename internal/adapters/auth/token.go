package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"eventlivechat/internal/domain"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	AccessCode string `json:"access_code"`
}

type jwtSessions struct {
	secret []byte
}

// NewJWTSessions returns a session token issuer and verifier backed by HS256
// JWTs. The token carries the subscriber's access code so every call site
// can feed it to the authorization gate.
func NewJWTSessions(secret string) *jwtSessions {
	return &jwtSessions{secret: []byte(secret)}
}

var _ domain.SessionTokenIssuer = (*jwtSessions)(nil)
var _ domain.SessionTokenVerifier = (*jwtSessions)(nil)

func (s *jwtSessions) Issue(subscriberID, accessCode string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subscriberID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		AccessCode: accessCode,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (s *jwtSessions) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.AccessCode == "" {
		return "", fmt.Errorf("invalid token claims")
	}
	return claims.AccessCode, nil
}
