package app

import (
	"time"

	"github.com/yungbote/mongoarchitect-backend/internal/data/db"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/envutil"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/llm"
)

type Config struct {
	HTTPAddr       string
	LogMode        string
	Environment    string
	ServiceName    string
	Version        string
	AllowedOrigins []string

	// RedisAddr empty keeps agent sessions in process memory.
	RedisAddr  string
	SessionTTL time.Duration

	Store db.Config
	LLM   llm.Config
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:       envutil.String("HTTP_ADDR", ":8080"),
		LogMode:        envutil.String("LOG_MODE", "development"),
		Environment:    envutil.String("ENVIRONMENT", "development"),
		ServiceName:    envutil.String("SERVICE_NAME", "mongoarchitect"),
		Version:        envutil.String("SERVICE_VERSION", "dev"),
		AllowedOrigins: envutil.List("ALLOWED_ORIGINS", nil),
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		SessionTTL:     envutil.Seconds("SESSION_TTL_SECONDS", 24*time.Hour),
		Store:          db.LoadConfig(),
		LLM:            llm.LoadConfig(),
	}
}
