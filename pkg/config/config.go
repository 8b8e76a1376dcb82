package config

import (
	"os"
	"strconv"
)

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `yaml:"port"`
	// EnableTestEndpoints exposes the destructive reset endpoint.
	// Never enable outside local development.
	EnableTestEndpoints bool `yaml:"enable_test_endpoints"`
}

// OverrideDBFromEnv applies DB_* environment variables on top of the
// file-based configuration. Env vars always win.
func OverrideDBFromEnv(cfg *DBConfig) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.User = user
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Name = name
	}
}

// OverrideServerFromEnv applies SERVER_* environment variables.
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
	if v := os.Getenv("SERVER_ENABLE_TEST_ENDPOINTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableTestEndpoints = b
		}
	}
}
