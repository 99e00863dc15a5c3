package config

import "os"

// AuthConfig carries the optional API token secret. When empty, mutating
// endpoints are left open (local/dev deployments).
type AuthConfig struct {
	TokenSecret string
}

func NewAuthConfig() *AuthConfig {
	return &AuthConfig{
		TokenSecret: os.Getenv("API_TOKEN_SECRET"),
	}
}
