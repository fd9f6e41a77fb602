package config

import (
	"errors"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"dealmein-server/internal/util"
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config provides configuration for the Deal Me In server
type Config struct {
	loaded         bool
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	Store          string `yaml:"store" envconfig:"store"`
	JWT            struct {
		PublicKey  string        `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string        `yaml:"privateKey" envconfig:"private_key"`
		TTL        time.Duration `yaml:"ttl" envconfig:"ttl"`
	}
	RecaptchaSecret string `yaml:"recaptchaSecret" envconfig:"recaptcha_secret"`
	Log             struct {
		Level             string `yaml:"level"`
		Format            string `yaml:"format"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	}
	Engine struct {
		TickInterval  time.Duration `yaml:"tickInterval" envconfig:"tick_interval"`
		DealInGrace   time.Duration `yaml:"dealInGrace" envconfig:"deal_in_grace"`
		NextHandDelay time.Duration `yaml:"nextHandDelay" envconfig:"next_hand_delay"`
		ActionTimeout time.Duration `yaml:"actionTimeout" envconfig:"action_timeout"`
	}
}

var config Config

// DefaultConfig returns the configuration used when a key is not set
func DefaultConfig() Config {
	cfg := Config{
		PGDSN:          "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "./sql",
		Store:          StorePostgres,
	}

	cfg.JWT.PublicKey = "public.pem"
	cfg.JWT.PrivateKey = "private.key"
	cfg.JWT.TTL = 24 * time.Hour
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Engine.TickInterval = time.Second
	cfg.Engine.DealInGrace = 30 * time.Second
	cfg.Engine.NextHandDelay = 5 * time.Second
	cfg.Engine.ActionTimeout = 30 * time.Second

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration.
// A missing file is not an error, the defaults and environment are used.
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("DMI_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case err == nil:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if err := envconfig.Process("dmi", &cfg); err != nil {
		return err
	}

	if cfg.Store != StorePostgres && cfg.Store != StoreMemory {
		return errors.New("store must be postgres or memory")
	}

	cfg.loaded = true
	config = cfg
	return nil
}
