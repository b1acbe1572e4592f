package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = bcrypt.DefaultCost

// RoleAdmin is the only role a capability token can carry.
const RoleAdmin = "admin"

const (
	jwtClaimSubject = "sub"
	jwtClaimRole    = "role"
)

var ErrInvalidToken = errors.New("invalid or expired token")

func HashSecret(secret string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	return string(bytes), err
}

func CheckSecretHash(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}

// GenerateAdminToken signs an HS256 token for the admin with the given id.
func GenerateAdminToken(secret []byte, adminID string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		jwtClaimSubject: adminID,
		jwtClaimRole:    RoleAdmin,
		"exp":           expiresAt.Unix(),
		"iat":           now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseAdminToken verifies signature, expiry and role, and returns the admin id.
func ParseAdminToken(secret []byte, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if role, _ := claims[jwtClaimRole].(string); role != RoleAdmin {
		return "", ErrInvalidToken
	}
	adminID, _ := claims[jwtClaimSubject].(string)
	return adminID, nil
}
