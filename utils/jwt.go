package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried in every access token.
type Claims struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	IsPremium bool   `json:"isPremium"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	expire time.Duration
}

func NewTokenIssuer(secret string, expire time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expire: expire}
}

func (t *TokenIssuer) Issue(id, email, username string, isPremium bool) (string, error) {
	now := time.Now()
	claims := Claims{
		ID:        id,
		Email:     email,
		Username:  username,
		IsPremium: isPremium,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expire)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenIssuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.ID == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
