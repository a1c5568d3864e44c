package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenTTL is the single validity window applied to every login path.
const TokenTTL = 7 * 24 * time.Hour

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// GenerateJWT signs a bearer token asserting the given user id.
func GenerateJWT(id primitive.ObjectID) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))

	now := time.Now()
	claims := &Claims{
		UserID: id.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseJWT verifies signature and expiry and returns the claims. A bad
// signature and an expired token are the same error to the caller.
func ParseJWT(tokenString string) (*Claims, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
