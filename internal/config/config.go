package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel slog.Level
	HTTPAddr string

	// RegionsPath points at the YAML catalog of monitored stations.
	// The catalog is loaded once at startup and never reloaded.
	RegionsPath string

	SQLiteDriver          string
	SQLiteDSN             string
	SQLitePath            string
	SQLiteMaxOpenConns    int
	SQLiteMaxIdleConns    int
	SQLiteConnMaxLifetime time.Duration

	// MQTT ingestion is optional; an empty MQTT_BROKER disables it.
	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string

	// Provider polling is optional; an empty POLL_SCHEDULE disables it.
	PollSchedule  string
	PollHoursBack int
	ProviderURL   string

	SessionTTL      time.Duration
	CleanupSchedule string

	MaxQueryHours int
	MaxDataPoints int
}

func LoadFromEnv() (Config, error) {
	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	switch appEnv {
	case "dev", "prod":
	default:
		return Config{}, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}

	httpAddr := getenvDefault("HTTP_ADDR", ":8080")
	regionsPath := getenvDefault("REGIONS_PATH", "regions.yaml")

	driver := getenvDefault("DB_DRIVER", "sqlite3")
	dsn := strings.TrimSpace(os.Getenv("DB_DSN"))
	path := getenvDefault("SQLITE_PATH", "data/weather.db")

	maxOpenConns, err := getenvInt("DB_MAX_OPEN_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := getenvInt("DB_MAX_IDLE_CONNS", 1)
	if err != nil {
		return Config{}, err
	}
	connMaxLifetime, err := getenvDuration("DB_CONN_MAX_LIFETIME", 0)
	if err != nil {
		return Config{}, err
	}

	mqttPort, err := getenvInt("MQTT_PORT", 1883)
	if err != nil {
		return Config{}, err
	}

	pollHoursBack, err := getenvInt("POLL_HOURS_BACK", 6)
	if err != nil {
		return Config{}, err
	}
	if pollHoursBack <= 0 {
		return Config{}, fmt.Errorf("POLL_HOURS_BACK must be > 0, got %d", pollHoursBack)
	}

	sessionTTL, err := getenvDuration("SESSION_TTL", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	if sessionTTL <= 0 {
		return Config{}, fmt.Errorf("SESSION_TTL must be > 0, got %s", sessionTTL)
	}

	maxQueryHours, err := getenvInt("MAX_QUERY_HOURS", 168)
	if err != nil {
		return Config{}, err
	}
	if maxQueryHours <= 0 {
		return Config{}, fmt.Errorf("MAX_QUERY_HOURS must be > 0, got %d", maxQueryHours)
	}

	maxDataPoints, err := getenvInt("MAX_DATA_POINTS", 1000)
	if err != nil {
		return Config{}, err
	}
	if maxDataPoints <= 0 {
		return Config{}, fmt.Errorf("MAX_DATA_POINTS must be > 0, got %d", maxDataPoints)
	}

	return Config{
		AppEnv:                appEnv,
		LogLevel:              level,
		HTTPAddr:              httpAddr,
		RegionsPath:           regionsPath,
		SQLiteDriver:          driver,
		SQLiteDSN:             dsn,
		SQLitePath:            path,
		SQLiteMaxOpenConns:    maxOpenConns,
		SQLiteMaxIdleConns:    maxIdleConns,
		SQLiteConnMaxLifetime: connMaxLifetime,
		MQTTBroker:            strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		MQTTPort:              mqttPort,
		MQTTClientID:          getenvDefault("MQTT_CLIENT_ID", "weathermon-server"),
		MQTTTopic:             getenvDefault("MQTT_TOPIC", "weathermon/observations"),
		PollSchedule:          strings.TrimSpace(os.Getenv("POLL_SCHEDULE")),
		PollHoursBack:         pollHoursBack,
		ProviderURL:           getenvDefault("PROVIDER_URL", "https://api.open-meteo.com/v1/forecast"),
		SessionTTL:            sessionTTL,
		CleanupSchedule:       getenvDefault("CLEANUP_SCHEDULE", "@hourly"),
		MaxQueryHours:         maxQueryHours,
		MaxDataPoints:         maxDataPoints,
	}, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return n, nil
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
