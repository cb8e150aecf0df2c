package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtSecretEnv = "GATEWAY_JWT_SECRET"

var (
	jwtSecretOnce sync.Once
	jwtSecret     []byte
	jwtSecretErr  error
)

func signingSecret() ([]byte, error) {
	jwtSecretOnce.Do(func() {
		raw := strings.TrimSpace(os.Getenv(jwtSecretEnv))
		if raw == "" {
			jwtSecretErr = errors.New("jwt signing secret not set: " + jwtSecretEnv)
			return
		}
		jwtSecret = []byte(raw)
	})
	return jwtSecret, jwtSecretErr
}

// GenerateToken issues an HS256 session token for the given subject.
func GenerateToken(subject string, ttl time.Duration) (string, error) {
	secret, err := signingSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	})

	return token.SignedString(secret)
}

// ValidateJWT parses and verifies a session token, returning its claims.
func ValidateJWT(tokenString string) (jwt.MapClaims, error) {
	secret, err := signingSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func ResetSigningSecretForTests() {
	jwtSecretOnce = sync.Once{}
	jwtSecret = nil
	jwtSecretErr = nil
}
