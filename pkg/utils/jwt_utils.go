package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey is used to sign and verify JWT tokens.
// IMPORTANT: In a production environment, this key should be strong and come from a secure configuration (e.g., environment variable).
var jwtSecretKey = []byte("your-super-secret-and-long-jwt-key-brasa-ops") // TODO: Move to config/env

const (
	AccessTokenTTL = 12 * time.Hour // Covers a full restaurant operating day
)

// Claims defines the JWT claims structure. Session issuance lives in the
// identity service; this backend only validates tokens and reads the
// store/company scope and role from them.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`     // manager, store-admin, director, admin
	StoreID   int64  `json:"store_id"` // 0 for roles not attached to a single store
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a new JWT access token. Used by tests and local
// tooling; production tokens come from the identity service with the same claims.
func GenerateAccessToken(userID int64, username, role string, storeID int64, companyID string) (string, error) {
	expirationTime := time.Now().Add(AccessTokenTTL)
	claims := &Claims{
		UserID:    userID,
		Username:  username,
		Role:      role,
		StoreID:   storeID,
		CompanyID: companyID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "brasa-ops-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Don't forget to validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
