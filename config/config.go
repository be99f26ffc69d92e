package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Port        int    `env:"PORT" envDefault:"5200"`

	// Database
	DBDriver       string `env:"DB_DRIVER" envDefault:"postgres"` // postgres | sqlite
	DatabaseURL    string `env:"DATABASE_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"game-night.db"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	// HTTP
	GatewayToken      string        `env:"GATEWAY_TOKEN"`
	AllowedOrigins    []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	RateLimitEnabled  bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"120"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`

	// Background jobs
	StaleSessionAfter time.Duration `env:"STALE_SESSION_AFTER" envDefault:"72h"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
	SnapshotInterval  time.Duration `env:"SNAPSHOT_INTERVAL" envDefault:"24h"`

	// Rankings
	ChampionMinGames int `env:"CHAMPION_MIN_GAMES" envDefault:"3"`
	OracleMinBets    int `env:"ORACLE_MIN_BETS" envDefault:"5"`

	// Leaderboard snapshots (Cloudflare R2)
	R2AccountID       string `env:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID     string `env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `env:"R2_ACCESS_KEY_SECRET"`
	R2Bucket          string `env:"R2_BUCKET_NAME"`
	CDNBaseURL        string `env:"CDN_BASE_URL"`

	// Roster sync
	RosterServiceURL   string        `env:"ROSTER_SERVICE_URL"`
	RosterServiceToken string        `env:"ROSTER_SERVICE_TOKEN"`
	RosterSyncInterval time.Duration `env:"ROSTER_SYNC_INTERVAL" envDefault:"5m"`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable not set")
		}
	case "sqlite":
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH must not be empty")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or sqlite)", c.DBDriver)
	}
	if c.RateLimitEnabled && (c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	if c.ChampionMinGames < 0 || c.OracleMinBets < 0 {
		return fmt.Errorf("ranking thresholds must not be negative")
	}
	if c.RosterSyncEnabled() && c.RosterSyncInterval <= 0 {
		return fmt.Errorf("ROSTER_SYNC_INTERVAL must be positive when ROSTER_SERVICE_URL is set")
	}
	return nil
}

// IsProduction reports whether logs and middleware run in production mode.
func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.Environment) {
	case "prod", "production":
		return true
	}
	return false
}

// R2Enabled reports whether leaderboard snapshots can be uploaded.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2Bucket != ""
}

// RosterSyncEnabled reports whether the roster sync worker should run.
func (c *Config) RosterSyncEnabled() bool {
	return c.RosterServiceURL != ""
}

// ListenAddr is the address fiber listens on.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
