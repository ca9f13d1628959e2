package utils

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	secretMu  sync.RWMutex
	jwtSecret []byte
)

// SetJWTSecret installs the signing key for technician tokens.
func SetJWTSecret(secret []byte) {
	secretMu.Lock()
	jwtSecret = append([]byte(nil), secret...)
	secretMu.Unlock()
}

func currentSecret() ([]byte, error) {
	secretMu.RLock()
	defer secretMu.RUnlock()
	if len(jwtSecret) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	return jwtSecret, nil
}

// Claims JWT claims of a signed-in technician
type Claims struct {
	Technician string `json:"technician"`
	jwt.RegisteredClaims
}

// GenerateToken issues a token for technician valid for ttl.
func GenerateToken(technician string, ttl time.Duration) (string, int64, error) {
	secret, err := currentSecret()
	if err != nil {
		return "", 0, err
	}

	now := time.Now()
	expirationTime := now.Add(ttl)
	claims := &Claims{
		Technician: technician,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   technician,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", 0, err
	}
	return tokenString, expirationTime.Unix(), nil
}

// ValidateToken parses and verifies a technician token.
func ValidateToken(tokenString string) (*Claims, error) {
	secret, err := currentSecret()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Technician == "" {
		return nil, errors.New("token has no technician")
	}
	return claims, nil
}
