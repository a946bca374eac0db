package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile string // optional YAML catalog, empty = embedded seed

	// Favorites storage
	Store       string // "sqlite" | "postgres" | "redis" | "memory"
	SQLitePath  string // default ~/.linlv/linlv.db
	DatabaseURL string // postgres DSN

	// Redis (only read when Store == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	// Assistant
	GeminiAPIKey         string        // empty => assistant answers with the missing-key message
	GeminiBaseURL        string        // API root
	GeminiModel          string        // ex: gemini-2.5-flash
	AssistantTimeout     time.Duration // per completion request
	SessionTTL           time.Duration // idle sessions older than this are dropped
	SessionSweepInterval time.Duration // how often idle sessions are looked for

	// Chat rate limit (token bucket per client IP)
	ChatBurst        int
	ChatRefillPerMin int

	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	CORSOrigins  []string // empty => any origin
}

var validStores = []string{"sqlite", "postgres", "redis", "memory"}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LINLV_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LINLV_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("LINLV_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LINLV_PRETTY_LOG", true),

		CatalogFile: getenv("LINLV_CATALOG_FILE", ""),

		// Storage
		Store:       strings.ToLower(getenv("LINLV_STORE", "sqlite")),
		SQLitePath:  getenv("LINLV_SQLITE_PATH", defaultSQLitePath()),
		DatabaseURL: getenv("LINLV_DATABASE_URL", ""),

		// Assistant
		GeminiAPIKey:         getenv("LINLV_GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiBaseURL:        getenv("LINLV_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:          getenv("LINLV_GEMINI_MODEL", "gemini-2.5-flash"),
		AssistantTimeout:     mustDuration("LINLV_ASSISTANT_TIMEOUT", 30*time.Second),
		SessionTTL:           mustDuration("LINLV_SESSION_TTL", 2*time.Hour),
		SessionSweepInterval: mustDuration("LINLV_SESSION_SWEEP_INTERVAL", 10*time.Minute),

		ChatBurst:        getenvInt("LINLV_CHAT_BURST", 5),
		ChatRefillPerMin: getenvInt("LINLV_CHAT_REFILL_PER_MIN", 10),

		// Access restrictions
		AllowedCIDRS: parseAllowedIPs(getenv("LINLV_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("LINLV_TRUST_PROXY", false),
		CORSOrigins:  splitAndTrim(getenv("LINLV_CORS_ORIGINS", "")),
	}

	if !contains(validStores, cfg.Store) {
		panic(fmt.Sprintf("❌ FATAL: LINLV_STORE must be one of %s, got %q", strings.Join(validStores, ", "), cfg.Store))
	}

	switch cfg.Store {
	case "postgres":
		cfg.DatabaseURL = requireEnv("LINLV_DATABASE_URL")
	case "redis":
		cfg.loadRedis()
	}

	if cfg.AssistantTimeout <= 0 {
		panic("❌ FATAL: LINLV_ASSISTANT_TIMEOUT must be > 0")
	}
	if cfg.ChatBurst <= 0 || cfg.ChatRefillPerMin <= 0 {
		panic("❌ FATAL: LINLV_CHAT_BURST and LINLV_CHAT_REFILL_PER_MIN must be > 0")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

func (cfg *Config) loadRedis() {
	cfg.RedisAddr = requireEnv("LINLV_REDIS_ADDR")
	cfg.RedisUser = getenv("LINLV_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("LINLV_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("LINLV_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("LINLV_REDIS_DB")
	cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
	cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
	cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
	cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
	cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
	cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
	cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
	cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
	cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: LINLV_REDIS_PASSWORD is required when LINLV_REDIS_PASSWORD_REQUIRED=true")
	}
}

// Redacted returns a copy safe to print.
func (cfg *Config) Redacted() Config {
	out := *cfg
	if out.GeminiAPIKey != "" {
		out.GeminiAPIKey = "***REDACTED***"
	}
	if out.RedisPassword != "" {
		out.RedisPassword = "***REDACTED***"
	}
	if out.RedisUser != "" {
		out.RedisUser = "***REDACTED***"
	}
	if out.DatabaseURL != "" {
		out.DatabaseURL = "***REDACTED***"
	}
	return out
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".linlv", "linlv.db")
	}
	return filepath.Join(home, ".linlv", "linlv.db")
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func requireEnvInt(key string) int {
	v := requireEnv(key)
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
