package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/puzzle3d.net/internal/config"
)

// MiddlewareProvider guards mutating endpoints with an HMAC bearer token.
// An empty secret disables the check entirely (local/dev deployments).
type MiddlewareProvider struct {
	SecretOption string
}

func New(authCfg *config.AuthConfig) *MiddlewareProvider {
	secret := ""
	if authCfg != nil {
		secret = authCfg.TokenSecret
	}
	return &MiddlewareProvider{
		SecretOption: secret,
	}
}

func (m *MiddlewareProvider) secret() []byte {
	return []byte(m.SecretOption)
}

func (m *MiddlewareProvider) TokenMiddleware(next http.Handler) http.Handler {
	if m.SecretOption == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return m.secret(), nil
		})

		if err != nil || !token.Valid {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
