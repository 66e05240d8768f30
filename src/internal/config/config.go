package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=paylio_ledger_db;Username=postgres;Password=postgres;Timeout=30;CommandTimeout=30"
const defaultHTTPAddr = ":8080"
const defaultChannelID = "PaylioApp"
const defaultChannelKey = "PaylioKey001"
const defaultOperatorID = "PaylioOps"
const defaultOperatorKey = "PaylioOpsKey001"
const defaultFromEmail = "Paylio <no-reply@paylio.app>"
const defaultRedisChannelPrefix = "paylio:notifications"

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	DatabaseDSN    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	MigrationsDir  string
	HTTPAddr       string
	Store          string

	ChannelID   string
	ChannelKey  string
	OperatorID  string
	OperatorKey string

	RedisAddr          string
	RedisChannelPrefix string
	ResendAPIKey       string
	DefaultFromEmail   string
	AdminEmails        []string

	PinMaxAttempts    int
	PinLockout        time.Duration
	DispatchQueueSize int
	DispatchWorkers   int

	LogLevel        string
	ShutdownTimeout time.Duration
}

func Load() (Config, error) {
	store := strings.ToLower(envOr("LEDGER_STORE", StorePostgres))
	if store != StorePostgres && store != StoreMemory {
		return Config{}, fmt.Errorf("LEDGER_STORE must be %q or %q, got %q", StorePostgres, StoreMemory, store)
	}

	pinMaxAttempts, err := envInt("PIN_MAX_ATTEMPTS", 5)
	if err != nil {
		return Config{}, err
	}
	pinLockoutMinutes, err := envInt("PIN_LOCKOUT_MINUTES", 30)
	if err != nil {
		return Config{}, err
	}
	queueSize, err := envInt("DISPATCH_QUEUE_SIZE", 256)
	if err != nil {
		return Config{}, err
	}
	workers, err := envInt("DISPATCH_WORKERS", 4)
	if err != nil {
		return Config{}, err
	}
	shutdownSeconds, err := envInt("SHUTDOWN_TIMEOUT_SECONDS", 15)
	if err != nil {
		return Config{}, err
	}
	maxOpenConns, err := envInt("DB_MAX_OPEN_CONNS", 30)
	if err != nil {
		return Config{}, err
	}
	maxIdleConns, err := envInt("DB_MAX_IDLE_CONNS", 20)
	if err != nil {
		return Config{}, err
	}

	return Config{
		DatabaseDSN:        normalizeConnectionString(envOr("DATABASE_DSN", defaultConnectionString)),
		DBMaxOpenConns:     maxOpenConns,
		DBMaxIdleConns:     maxIdleConns,
		MigrationsDir:      envOr("MIGRATIONS_DIR", filepath.Join("src", "migrations")),
		HTTPAddr:           envOr("HTTP_ADDR", defaultHTTPAddr),
		Store:              store,
		ChannelID:          envOr("CHANNEL_ID", defaultChannelID),
		ChannelKey:         envOr("CHANNEL_KEY", defaultChannelKey),
		OperatorID:         envOr("OPERATOR_ID", defaultOperatorID),
		OperatorKey:        envOr("OPERATOR_KEY", defaultOperatorKey),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisChannelPrefix: envOr("REDIS_CHANNEL_PREFIX", defaultRedisChannelPrefix),
		ResendAPIKey:       strings.TrimSpace(os.Getenv("RESEND_API_KEY")),
		DefaultFromEmail:   envOr("DEFAULT_FROM_EMAIL", defaultFromEmail),
		AdminEmails:        splitList(os.Getenv("ADMIN_EMAILS")),
		PinMaxAttempts:     pinMaxAttempts,
		PinLockout:         time.Duration(pinLockoutMinutes) * time.Minute,
		DispatchQueueSize:  queueSize,
		DispatchWorkers:    workers,
		LogLevel:           envOr("LOG_LEVEL", "info"),
		ShutdownTimeout:    time.Duration(shutdownSeconds) * time.Second,
	}, nil
}

func envOr(key string, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, v)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
