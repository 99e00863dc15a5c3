package config

import "os"

type AppConfig struct {
	DebugMode      bool
	HTTPPort       int
	SolverCfg      *SolverCfg
	RedisConfig    *RedisConfig
	PostgresConfig *PostgresConfig
	AuthConfig     *AuthConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		HTTPPort:       intEnv("HTTP_PORT", 8082),
		SolverCfg:      NewSolverCfg(),
		RedisConfig:    NewRedisConfig(),
		PostgresConfig: NewPostgresConfig(),
		AuthConfig:     NewAuthConfig(),
	}
}
