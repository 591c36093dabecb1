package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	errInvalidToken = errors.New("invalid token")
)

type accessClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// tokenGenerator issues short-lived HS256 access tokens and opaque random
// refresh tokens backed by the sessions table.
type tokenGenerator struct {
	secret    []byte
	accessTTL time.Duration
}

func newTokenGenerator(secret string, accessTTL time.Duration) *tokenGenerator {
	return &tokenGenerator{secret: []byte(secret), accessTTL: accessTTL}
}

func (tg *tokenGenerator) GenerateAccessToken(userID int64, isAdmin bool) (string, error) {
	now := time.Now()
	claims := accessClaims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tg.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "beaver",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tg.secret)
}

func (tg *tokenGenerator) GenerateRefreshToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func (tg *tokenGenerator) ValidateAccessToken(tokenString string) (int64, bool, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return tg.secret, nil
	})
	if err != nil {
		return 0, false, err
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return 0, false, errInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, false, errInvalidToken
	}
	return userID, claims.IsAdmin, nil
}
