package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenConfig describes the HS256 tokens accepted by the API.
type TokenConfig struct {
	Secret   string
	Issuer   string
	Audience string
}

type claims struct {
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// CreateToken signs a token for subject that expires after ttl.
func CreateToken(cfg TokenConfig, subject string, ttl time.Duration) (string, error) {
	return CreateNamedToken(cfg, subject, "", ttl)
}

// CreateNamedToken is CreateToken with a nickname claim.
func CreateNamedToken(cfg TokenConfig, subject, nickname string, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("auth: JWT secret key not set")
	}
	now := time.Now()
	c := claims{
		Nickname: nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(cfg.Secret))
}

// VerifyToken checks signature, issuer, audience and expiry and returns the
// subject.
func VerifyToken(cfg TokenConfig, tokenString string) (string, error) {
	if cfg.Secret == "" {
		return "", errors.New("auth: JWT secret key not set")
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	return token.Claims.GetSubject()
}
