package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	Port string `env:"APP_PORT" envDefault:"5000"`
	Env  string `env:"APP_ENV" envDefault:"development"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`

	SessionMaxFrames     int           `env:"SESSION_MAX_FRAMES" envDefault:"0"`
	SessionIdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"0s"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
	SummaryCacheTTL      time.Duration `env:"SUMMARY_CACHE_TTL" envDefault:"24h"`

	PoseServiceURL string `env:"POSE_SERVICE_URL" envDefault:"ws://localhost:8000/api/v1/pose/ws"`
	ModelVersion   string `env:"MODEL_VERSION" envDefault:"YOLOv11-placeholder"`

	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`

	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIChatModel string `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`
	GeminiModelName string `env:"GEMINI_MODEL_NAME" envDefault:"gemini-1.5-flash"`
}

// DatabaseConfig is optional. An empty host keeps sessions in memory only.
type DatabaseConfig struct {
	Host     string `env:"HOST"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"liftmate"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig is optional. An empty address disables the summary cache.
type RedisConfig struct {
	Address  string `env:"ADDRESS"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

func LoadConfig() (*AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
