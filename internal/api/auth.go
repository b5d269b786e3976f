package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/julianstephens/cleanstreak/internal/constants"
	"github.com/julianstephens/cleanstreak/internal/logger"
)

type contextKey string

const userIDKey contextKey = "user_id"

var errInvalidToken = errors.New("invalid or expired token")

type tokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func newTokenIssuer(secret string, ttl time.Duration) *tokenIssuer {
	return &tokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token whose subject is the user id
func (ti *tokenIssuer) Issue(userID string) (string, error) {
	now := ti.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		Issuer:    constants.TokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates the token and returns its subject
func (ti *tokenIssuer) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ti.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	if !claims.VerifyIssuer(constants.TokenIssuer, true) || claims.Subject == "" {
		return "", errInvalidToken
	}
	return claims.Subject, nil
}

// AuthMiddleware rejects requests without a valid bearer token and puts the
// user id on the request context
func (ti *tokenIssuer) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeMessage(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		userID, err := ti.Parse(tokenString)
		if err != nil {
			logger.Debug("Rejected token", "path", r.URL.Path, "error", err)
			writeMessage(w, http.StatusUnauthorized, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns "" outside AuthMiddleware
func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
