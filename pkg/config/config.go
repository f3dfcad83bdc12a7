// Package config loads application configuration from environment
// variables and an optional config file.
package config

import (
	"errors"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port         string `mapstructure:"PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	AllowOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

func Load() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("[CONFIG] arquivo não encontrado; usando variáveis de ambiente")
		} else {
			log.Fatalf("[CONFIG] erro ao ler config: %v", err)
		}
	}

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/catedra?sslmode=disable")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379")
	viper.SetDefault("JWT_SECRET", "dev-secret-key-change-in-production")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("[CONFIG] erro ao decodificar config: %v", err)
	}
	return &cfg
}
