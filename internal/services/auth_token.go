package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/moodtune/internal/security"
)

var errSessionTokenInvalid = errors.New("invalid session token")

type SessionClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}

// BuildSessionToken signs a new session token. A zero ttl omits the expiry.
func BuildSessionToken(secretKey []byte, userID uint, ttl time.Duration, now time.Time) (string, error) {
	tokenID, err := security.NewTokenID()
	if err != nil {
		return "", err
	}

	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       tokenID,
			Subject:  strconv.FormatUint(uint64(userID), 10),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func ParseSessionToken(secretKey []byte, rawToken string, now time.Time) (*SessionClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errSessionTokenInvalid
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(
		rawToken,
		claims,
		func(*jwt.Token) (interface{}, error) { return secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !token.Valid {
		return nil, errSessionTokenInvalid
	}
	if claims.UserID == 0 || claims.ID == "" {
		return nil, errSessionTokenInvalid
	}
	return claims, nil
}
