package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/inkwell-io/inkwell"
)

type Config struct {
	Port int

	MongoHost     string
	MongoPort     int
	MongoUser     string
	MongoPassword string
	MongoDatabase string

	CORSOrigins []string

	CacheTTLSeconds int

	S3Bucket        string
	S3Region        string
	S3AccessKey     string
	S3SecretKey     string
	S3ExpirySeconds int
}

// Load reads configuration from the environment, falling back to a .env
// file for local development.
func Load() *Config {
	if os.Getenv("MONGO_HOST") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file found, using environment as-is")
		}
	}

	return &Config{
		Port:            envInt("APP_PORT", 8080),
		MongoHost:       env("MONGO_HOST", "localhost"),
		MongoPort:       envInt("MONGO_PORT", 27017),
		MongoUser:       env("MONGO_USER", ""),
		MongoPassword:   env("MONGO_PASSWORD", ""),
		MongoDatabase:   env("MONGO_DATABASE", "inkwell"),
		CORSOrigins:     envList("CORS_ALLOW_ORIGINS"),
		CacheTTLSeconds: envInt("CACHE_TTL_SECONDS", 60),
		S3Bucket:        env("S3_BUCKET", ""),
		S3Region:        env("S3_REGION", "us-east-1"),
		S3AccessKey:     env("S3_ACCESS_KEY", ""),
		S3SecretKey:     env("S3_SECRET_KEY", ""),
		S3ExpirySeconds: envInt("S3_EXPIRY_SECONDS", 3600),
	}
}

// Mongo builds the store connection settings. This is the only place the
// Mongo* fields are turned into a connection.
func (c *Config) Mongo() *inkwell.MongoConfig {
	return &inkwell.MongoConfig{
		Host:     c.MongoHost,
		Port:     c.MongoPort,
		Username: c.MongoUser,
		Password: c.MongoPassword,
		Database: c.MongoDatabase,
	}
}

func env(key, def string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return def
}

func envInt(key string, def int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return def
}

func envList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
