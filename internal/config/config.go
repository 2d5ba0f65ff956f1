package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all configuration for the sync daemon and the local store
type Config struct {
	App   AppConfig
	Store StoreConfig
	API   APIConfig
	Sync  SyncConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

// StoreConfig locates the embedded database file
type StoreConfig struct {
	Dir  string
	File string
}

// Path returns the full path of the SQLite file
func (s StoreConfig) Path() string {
	return filepath.Join(s.Dir, s.File)
}

// APIConfig points at the REST backend and the realtime socket
type APIConfig struct {
	BaseURL string
	WSURL   string
	Token   string
	Timeout time.Duration
}

type SyncConfig struct {
	Interval     time.Duration
	StreamEnable bool
}

// Load reads configuration from a .env file and environment variables
func Load() *Config {
	// .env is optional, e.g. when everything is injected by the environment
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment variables")
	}

	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
		},
		Store: StoreConfig{
			Dir:  getEnv("STORE_DIR", defaultStoreDir()),
			File: getEnv("STORE_FILE", "chatmirror.db"),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnv("API_BASE_URL", "https://api.hivesocial.app/api/v1"), "/"),
			WSURL:   getEnv("API_WS_URL", "wss://api.hivesocial.app/ws"),
			Token:   getEnv("API_TOKEN", ""),
			Timeout: getDuration("API_TIMEOUT", 15*time.Second),
		},
		Sync: SyncConfig{
			Interval:     getDuration("SYNC_INTERVAL", 45*time.Second),
			StreamEnable: getEnv("SYNC_STREAM", "true") == "true",
		},
	}
}

func defaultStoreDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "hivesocial")
	}
	return "."
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}
