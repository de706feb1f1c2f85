package identity

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func HashPasscode(passcode string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPasscode(hash, passcode string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passcode))
}

func GenerateToken(secret string, caller Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: caller.ID,
		Role:   string(caller.Role),
		Name:   caller.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   caller.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 session token and returns its caller.
func ParseToken(secret, tokenString string) (Caller, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Caller{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return Caller{}, errors.New("invalid token")
	}
	if !slices.Contains(Roles, claims.Role) {
		return Caller{}, errors.New("invalid token role")
	}
	return Caller{ID: claims.UserID, Name: claims.Name, Role: Role(claims.Role)}, nil
}
