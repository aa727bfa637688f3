package club

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	Env string `env:"APP_ENV" env-default:"dev"`

	TemporalHost      string `env:"TEMPORAL_HOST" env-default:"localhost:7233"`
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE" env-default:"default"`
	TemporalAPIKey    string `env:"TEMPORAL_API_KEY"`
	TaskQueue         string `env:"TASK_QUEUE" env-default:"club-tracker-task-queue"`

	Port       string `env:"PORT" env-default:"8080"`
	DataPath   string `env:"DATA_PATH" env-default:"/app/data/club.json"`
	MirrorPath string `env:"MIRROR_PATH"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	UpstreamURL string `env:"FACR_URL" env-default:"https://facr.tdvorak.dev"`
	ClubID      string `env:"CLUB_ID" env-default:"441d3783-06aa-436a-b438-359300ee0371"`
	ClubType    string `env:"CLUB_TYPE" env-default:"futsal"`
	PickPolicy  string `env:"PICK_POLICY" env-default:"recent"`

	NotificationTypes    []string      `env:"NOTIFICATION_TYPES" env-separator:"," env-default:"result"`
	NotificationChannels []string      `env:"NOTIFICATION_CHANNELS" env-separator:"," env-default:"logger"`
	SlackWebhookURL      string        `env:"SLACK_WEBHOOK_URL"`
	WatchLookahead       time.Duration `env:"WATCH_LOOKAHEAD" env-default:"6h"`
}

// LoadConfig loads .env when present and reads the environment into a Config.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if _, err := ParsePickPolicy(cfg.PickPolicy); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// Policy returns the configured pick policy, defaulting to PreferRecentResult.
func (c *Config) Policy() PickPolicy {
	p, err := ParsePickPolicy(c.PickPolicy)
	if err != nil {
		return PreferRecentResult
	}
	return p
}

// IsLocalTemporal reports whether the Temporal host is a local dev server.
func (c *Config) IsLocalTemporal() bool {
	return c.TemporalHost == "localhost:7233" || c.TemporalHost == "host.docker.internal:7233"
}

// NewLogger builds the process logger and installs it as the slog default.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo
	if env == "dev" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}
