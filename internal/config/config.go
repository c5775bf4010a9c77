package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port      string
	Host      string
	Env       string
	PublicDir string
	ImagesDir string
}

type DatabaseConfig struct {
	URL  string
	Name string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Email    string
	Password string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("PORT", "3030")
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/verduleria?sslmode=disable")
	viper.SetDefault("PUBLIC_DIR", "public")
	viper.SetDefault("IMAGES_DIR", "public/images")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:      viper.GetString("PORT"),
			Host:      viper.GetString("HOST"),
			Env:       viper.GetString("SERVER_ENV"),
			PublicDir: viper.GetString("PUBLIC_DIR"),
			ImagesDir: viper.GetString("IMAGES_DIR"),
		},
		Database: DatabaseConfig{
			URL:  viper.GetString("DATABASE_URL"),
			Name: viper.GetString("DATABASE_NAME"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetString("SMTP_PORT"),
			Email:    viper.GetString("SMTP_EMAIL"),
			Password: viper.GetString("SMTP_PASSWORD"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
	}
}
