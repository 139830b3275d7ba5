package util

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionTTL is how long an operator login stays valid.
const sessionTTL = 24 * time.Hour

const operatorIDClaim = "user_id"

var errInvalidToken = errors.New("invalid session token")

// GenerateJWT mints a session token for an operator.
func GenerateJWT(operatorID int, secret string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		operatorIDClaim: operatorID,
		"iat":           now.Unix(),
		"exp":           now.Add(sessionTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseJWT validates a session token and returns the operator id.
func ParseJWT(tokenStr, secret string) (int, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidToken
	}
	// json numbers decode as float64
	id, ok := claims[operatorIDClaim].(float64)
	if !ok {
		return 0, errInvalidToken
	}

	return int(id), nil
}

// ExtractToken pulls the bearer token out of the Authorization header.
func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
