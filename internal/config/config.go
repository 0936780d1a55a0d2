package config

import (
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port         string
	APIBaseURL   string
	RefreshPath  string
	SessionStore string // sqlite | postgres | redis | memory
	DBDSN        string
	RedisAddr    string
	// SessionSecret seals tokens at rest. Empty means a random key per process.
	SessionSecret  string
	SessionTTL     time.Duration
	RequestTimeout time.Duration
	RefreshTimeout time.Duration
	LogFile        string
	KafkaBrokers   []string
	OTLPEndpoint   string
	TemplatesDir   string
	CookieSecure   bool
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	api := os.Getenv("API_BASE_URL")
	if api == "" {
		api = "http://localhost:8000"
	}
	refreshPath := os.Getenv("API_REFRESH_PATH")
	if refreshPath == "" {
		refreshPath = "/refresh-token"
	}
	store := strings.ToLower(os.Getenv("SESSION_STORE"))
	if store == "" {
		store = "sqlite"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "giftible-sessions.db"
	} // sqlite file in project root
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "./giftible.log"
	}
	templates := os.Getenv("TEMPLATES_DIR")
	if templates == "" {
		templates = "./web/templates"
	}
	var brokers []string
	if b := os.Getenv("KAFKA_BROKERS"); b != "" {
		for _, s := range strings.Split(b, ",") {
			if s = strings.TrimSpace(s); s != "" {
				brokers = append(brokers, s)
			}
		}
	}

	cfg := Config{
		Port:           port,
		APIBaseURL:     strings.TrimRight(api, "/"),
		RefreshPath:    refreshPath,
		SessionStore:   store,
		DBDSN:          dsn,
		RedisAddr:      redisAddr,
		SessionSecret:  os.Getenv("SESSION_SECRET"),
		SessionTTL:     duration("SESSION_TTL", 7*24*time.Hour),
		RequestTimeout: duration("REQUEST_TIMEOUT", 15*time.Second),
		RefreshTimeout: duration("REFRESH_TIMEOUT", 10*time.Second),
		LogFile:        logFile,
		KafkaBrokers:   brokers,
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		TemplatesDir:   templates,
		CookieSecure:   os.Getenv("COOKIE_SECURE") == "true",
	}
	log.Printf("[config] PORT=%s API_BASE_URL=%s SESSION_STORE=%s DB_DSN=%s LOG_FILE=%s KAFKA_BROKERS=%v",
		cfg.Port, cfg.APIBaseURL, cfg.SessionStore, cfg.DBDSN, cfg.LogFile, cfg.KafkaBrokers)
	return cfg
}

func duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
