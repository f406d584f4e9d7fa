// Package auth mints and verifies device access tokens. A token binds a
// device to one evidence collection.
package auth

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the collection the device may
// write to.
type Claims struct {
	jwt.RegisteredClaims
	Collection string `json:"collection"`
}

func GenerateToken(collection string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Collection: collection,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetCollectionFromToken validates tokenString and returns its collection.
// Every failure wraps common.ErrInvalidToken.
func GetCollectionFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.Collection == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Collection, nil
}
