package config

import (
	"log"

	"roadmap-service/pkg/config"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB     config.DBConfig     `yaml:"db"`
	Server config.ServerConfig `yaml:"server"`
}

func Load() *Config {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfgMap, err := config.LoadConfig(env, configDir)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var cfg Config
	cfgData, err := yaml.Marshal(cfgMap)
	if err != nil {
		log.Fatalf("failed to marshal config: %v", err)
	}
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		log.Fatalf("failed to unmarshal config: %v", err)
	}

	// Environment variables take precedence over files.
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideServerFromEnv(&cfg.Server)

	return &cfg
}
