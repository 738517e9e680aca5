package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
)

type Config struct {
	Addr        string            `toml:"addr"`
	Log         LogConfig         `toml:"log"`
	DB          DBConfig          `toml:"db"`
	Admin       AdminConfig       `toml:"admin"`
	Game        GameConfig        `toml:"game"`
	Leaderboard LeaderboardConfig `toml:"leaderboard"`
	Worker      WorkerConfig      `toml:"worker"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	DSN             string   `toml:"dsn"`
	MigrationsDir   string   `toml:"migrations_dir"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
}

type AdminConfig struct {
	Token string `toml:"token"`
}

type GameConfig struct {
	FlagRefresh       Duration        `toml:"flag_refresh"`
	SubscriptionBonus decimal.Decimal `toml:"subscription_bonus"`
}

type LeaderboardConfig struct {
	TTL   Duration `toml:"ttl"`
	Size  int      `toml:"size"`
	Limit int      `toml:"limit"`
}

type WorkerConfig struct {
	DispatchEvery Duration `toml:"dispatch_every"`
	BatchSize     int      `toml:"batch_size"`
	Concurrency   int      `toml:"concurrency"`
	MaxAttempts   int      `toml:"max_attempts"`
}

// Duration reads "30s"-style strings from TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func Default() Config {
	return Config{
		Addr: ":8080",
		Log:  LogConfig{Level: slog.LevelInfo, Format: "json"},
		DB: DBConfig{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: Duration{30 * time.Minute},
		},
		Game: GameConfig{
			FlagRefresh:       Duration{30 * time.Second},
			SubscriptionBonus: decimal.NewFromInt(1000),
		},
		Leaderboard: LeaderboardConfig{
			TTL:   Duration{8 * time.Hour},
			Size:  16,
			Limit: 300,
		},
		Worker: WorkerConfig{
			DispatchEvery: Duration{10 * time.Second},
			BatchSize:     100,
			Concurrency:   4,
			MaxAttempts:   5,
		},
	}
}

// Load starts from defaults, applies the TOML file at path when one is given
// and finally the PRINTBANK_* environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path = strings.TrimSpace(path); path != "" {
		file, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to open config: %w", err)
		}
		defer file.Close()
		if err := toml.NewDecoder(file).DisallowUnknownFields().Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	}

	cfg.Addr = envDefault("PRINTBANK_ADDR", cfg.Addr)
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Addr = port
	}
	cfg.DB.DSN = envDefault("PRINTBANK_DB_DSN", cfg.DB.DSN)
	cfg.DB.MigrationsDir = envDefault("PRINTBANK_MIGRATIONS_DIR", cfg.DB.MigrationsDir)
	cfg.Admin.Token = envDefault("PRINTBANK_ADMIN_TOKEN", cfg.Admin.Token)
	cfg.Log.Level = envLevelDefault("PRINTBANK_LOG_LEVEL", cfg.Log.Level)
	cfg.Game.FlagRefresh.Duration = envDurationDefault("PRINTBANK_FLAG_REFRESH", cfg.Game.FlagRefresh.Duration)
	cfg.Game.SubscriptionBonus = envDecimalDefault("PRINTBANK_SUBSCRIPTION_BONUS", cfg.Game.SubscriptionBonus)
	cfg.Leaderboard.TTL.Duration = envDurationDefault("PRINTBANK_LEADERBOARD_TTL", cfg.Leaderboard.TTL.Duration)
	cfg.Leaderboard.Size = envIntDefault("PRINTBANK_LEADERBOARD_SIZE", cfg.Leaderboard.Size)
	cfg.Worker.DispatchEvery.Duration = envDurationDefault("PRINTBANK_DISPATCH_EVERY", cfg.Worker.DispatchEvery.Duration)

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.Worker.DispatchEvery.Duration <= 0 {
		errs = append(errs, errors.New("worker.dispatch_every must be positive"))
	}
	if c.Game.SubscriptionBonus.IsNegative() {
		errs = append(errs, errors.New("game.subscription_bonus must not be negative"))
	}
	if c.Leaderboard.Limit < 0 || c.Leaderboard.Size < 0 {
		errs = append(errs, errors.New("leaderboard size and limit must not be negative"))
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger described by the log section.
func (c LogConfig) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level, AddSource: c.AddSource}
	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDecimalDefault(key string, fallback decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return fallback
	}
	return d
}

func envLevelDefault(key string, fallback slog.Level) slog.Level {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return fallback
	}
	return level
}
