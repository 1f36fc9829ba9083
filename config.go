package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"starfighter/game"
)

const (
	configFileName = "starfighter.cfg.json"
	envPrefix      = "STARFIGHTER"
)

// Config is the resolved server configuration
type Config struct {
	Addr               string
	ClientDir          string
	DBPath             string
	LogLevel           string
	LogPretty          bool
	TokenSecret        string
	TokenTTL           time.Duration
	MaxSessions        int
	SessionIdleTimeout time.Duration
	BroadcastEvery     int
	Seed               int64
	Sim                game.Config
}

// TickDuration is the wall-clock period of one simulation tick
func (c Config) TickDuration() time.Duration {
	return time.Duration(c.Sim.FrameDelta) * time.Millisecond
}

// flag name -> config key
var flagKeys = map[string]string{
	"addr":         "addr",
	"client":       "clientDir",
	"db":           "dbPath",
	"log-level":    "logLevel",
	"log-pretty":   "logPretty",
	"max-sessions": "maxSessions",
	"seed":         "sim.seed",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("clientDir", "../client")
	v.SetDefault("dbPath", "starfighter.db")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", false)
	v.SetDefault("tokenSecret", "")
	v.SetDefault("tokenTTL", "24h")
	v.SetDefault("maxSessions", 100)
	v.SetDefault("sessionIdleTimeout", "60s")
	v.SetDefault("broadcastEvery", 2)

	def := game.DefaultConfig()
	v.SetDefault("sim.frameDeltaMs", def.FrameDelta)
	v.SetDefault("sim.gridCellSize", def.GridCellSize)
	v.SetDefault("sim.seed", 0)
}

// RegisterFlags adds the command-line overrides to fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("client", "../client", "path to the client directory")
	fs.String("db", "starfighter.db", "SQLite database for run records (empty disables)")
	fs.String("log-level", "info", "log level (debug, info, warn, error)")
	fs.Bool("log-pretty", false, "human-readable console logs")
	fs.Int("max-sessions", 100, "maximum concurrent pilot sessions")
	fs.Int64("seed", 0, "simulation seed (0 = random per session)")
}

// LoadConfig resolves configuration from defaults, an optional
// starfighter.cfg.json and .env in dir, STARFIGHTER_* environment variables
// and fs, in increasing order of precedence.
func LoadConfig(fs *pflag.FlagSet, dir string) (Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configFileName)
	v.SetConfigType("json")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := Config{
		Addr:               v.GetString("addr"),
		ClientDir:          v.GetString("clientDir"),
		DBPath:             v.GetString("dbPath"),
		LogLevel:           v.GetString("logLevel"),
		LogPretty:          v.GetBool("logPretty"),
		TokenSecret:        v.GetString("tokenSecret"),
		TokenTTL:           v.GetDuration("tokenTTL"),
		MaxSessions:        v.GetInt("maxSessions"),
		SessionIdleTimeout: v.GetDuration("sessionIdleTimeout"),
		BroadcastEvery:     v.GetInt("broadcastEvery"),
		Seed:               v.GetInt64("sim.seed"),
		Sim: game.Config{
			FrameDelta:   v.GetInt64("sim.frameDeltaMs"),
			GridCellSize: v.GetFloat64("sim.gridCellSize"),
		},
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Sim.FrameDelta <= 0:
		return fmt.Errorf("sim.frameDeltaMs must be positive, got %d", c.Sim.FrameDelta)
	case c.BroadcastEvery < 1:
		return fmt.Errorf("broadcastEvery must be at least 1, got %d", c.BroadcastEvery)
	case c.MaxSessions < 1:
		return fmt.Errorf("maxSessions must be at least 1, got %d", c.MaxSessions)
	case c.TokenTTL <= 0:
		return fmt.Errorf("tokenTTL must be positive, got %s", c.TokenTTL)
	case c.SessionIdleTimeout <= 0:
		return fmt.Errorf("sessionIdleTimeout must be positive, got %s", c.SessionIdleTimeout)
	}
	return nil
}
