package config

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Config carries everything main needs to wire the service.
type Config struct {
	Port        string
	DatabaseURL string
	RedisAddr   string
	JWTSecret   []byte
	Timezone    string
}

// Load reads configuration from the environment, picking up a local
// .env file when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: getenv("DATABASE_URL", "host=localhost port=5432 user=postgres dbname=greenhill sslmode=disable"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		JWTSecret:   []byte(os.Getenv("JWT_SECRET")),
		Timezone:    getenv("TIMEZONE", "Africa/Kampala"),
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

// OpenDB connects to Postgres and verifies the connection.
func (c *Config) OpenDB() (*sql.DB, error) {
	db, err := sql.Open("postgres", c.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("cannot reach database: %w", err)
	}
	log.Println("Database connected successfully")
	return db, nil
}

// OpenRedis returns a redis client, or nil when no address is
// configured. Derived-stats caching is optional.
func (c *Config) OpenRedis() *redis.Client {
	if c.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	log.Printf("Redis cache enabled at %s", c.RedisAddr)
	return client
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
