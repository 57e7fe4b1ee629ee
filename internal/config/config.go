package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Cfg struct {
	Database   Database
	Logger     Logger
	OpenAI     OpenAI
	Gemini     Gemini
	Browser    Browser
	Pool       Pool
	Worker     Worker
	Migrations Migrations
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env   string
	Level string
}

type OpenAI struct {
	APIKey            string
	Model             string
	RequestsPerMinute int
	TokensPerHour     int
}

type Gemini struct {
	APIKey string
	Model  string
}

type Browser struct {
	Display      string
	Headless     bool
	UserDataDir  string
	BrowsersPath string
}

type Pool struct {
	IdleTimeout time.Duration
	SweepPeriod time.Duration
}

type Worker struct {
	ID         string
	PollPeriod time.Duration
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		OpenAI: OpenAI{
			APIKey:            os.Getenv("OPENAI_API_KEY"),
			Model:             env("OPENAI_MODEL", "gpt-4.1"),
			RequestsPerMinute: envInt("OPENAI_REQUESTS_PER_MINUTE", 60),
			TokensPerHour:     envInt("OPENAI_TOKENS_PER_HOUR", 100000),
		},
		Gemini: Gemini{
			APIKey: os.Getenv("GOOGLE_API_KEY"),
			Model:  env("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Browser: Browser{
			Display:      env("DISPLAY", ":0"),
			Headless:     envBool("PW_HEADLESS"),
			UserDataDir:  env("PW_USER_DATA_DIR", "./userdata"),
			BrowsersPath: env("PLAYWRIGHT_BROWSERS_PATH", ""),
		},
		Pool: Pool{
			IdleTimeout: envDuration("POOL_IDLE_TIMEOUT", 30*time.Minute),
			SweepPeriod: envDuration("POOL_SWEEP_PERIOD", 60*time.Second),
		},
		Worker: Worker{
			ID:         env("WORKER_ID", "worker-1"),
			PollPeriod: envDuration("WORKER_POLL_PERIOD", 5*time.Second),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
