package inkwell

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Claims is the token payload the external auth service mints. The platform
// only ever verifies and reads it.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

func GenerateTokens(userId string, role string) (string, string, error) {
	var tokenSecret = os.Getenv("JWT_SECRET")
	accessToken, err := generateJwtToken(userId, role, 24*time.Hour, tokenSecret)
	if err != nil {
		return "", "", err
	}

	var refreshTokenSecret = os.Getenv("JWT_REFRESH_SECRET")
	refreshToken, err := generateJwtToken(userId, role, 24*30*time.Hour, refreshTokenSecret)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func generateJwtToken(userId string, role string, duration time.Duration, secretKey string) (string, error) {
	var jwtKeyBytes = []byte(secretKey)
	expirationTime := time.Now().Add(duration)
	claims := &Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expirationTime.Unix(),
			Id:        uuid.New().String(),
			IssuedAt:  time.Now().Unix(),
			Issuer:    "inkwell",
			Subject:   userId,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKeyBytes)
}

func ParseAccessToken(tokenString string) (*jwt.Token, error) {
	var tokenSecret = os.Getenv("JWT_SECRET")
	return parseJwtToken(tokenString, tokenSecret)
}

func ParseRefreshToken(tokenString string) (*jwt.Token, error) {
	var tokenSecret = os.Getenv("JWT_REFRESH_SECRET")
	return parseJwtToken(tokenString, tokenSecret)
}

func parseJwtToken(tokenString string, secretKey string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	return token, err
}

func ExtractClaims(token *jwt.Token) (jwt.MapClaims, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("bearer token is invalid")
	}
	return claims, nil
}

// IsExpired treats a token without an exp claim as expired.
func IsExpired(claims jwt.MapClaims) bool {
	exp, ok := claims["exp"].(float64)
	if !ok {
		return true
	}
	return float64(time.Now().Unix()) > exp
}

// ExtractUserId returns the subject claim, or "" when it is missing.
func ExtractUserId(claims jwt.MapClaims) string {
	sub, _ := claims["sub"].(string)
	return sub
}

func ExtractRole(claims jwt.MapClaims) string {
	role, ok := claims["role"].(string)
	if !ok {
		return RoleUser
	}
	return role
}
