package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenValidity  = time.Hour * 24
	RefreshTokenValidity = time.Hour * 24 * 7
)

// GenerateTokenPair returns a signed access/refresh token pair for the user.
func GenerateTokenPair(email, secret string, isAdmin bool, userID uint) (string, string, error) {
	accessToken, err := generateToken(email, secret, isAdmin, userID, AccessTokenValidity)
	if err != nil {
		return "", "", err
	}
	refreshToken, err := generateToken(email, secret, isAdmin, userID, RefreshTokenValidity)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func generateToken(email, secret string, isAdmin bool, userID uint, validity time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":       userID,
		"email":    email,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(validity).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAndGetClaims parses the token and returns its claims if the
// signature and expiry check out.
func ValidateAndGetClaims(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
