package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"vivair-contato/contato/infra"
	"vivair-contato/middleware/cors"
)

var errInvalidConfig = errors.New("invalid config")

type config struct {
	listenAddr  string
	logLevel    string
	upstreamURL string
	corsOrigins []string
	trustProxy  bool
	// header com o IP do cliente posto pela CDN (ex: CF-Connecting-IP)
	clientIPHeader string

	contatoLimit      int
	contatoWindow     time.Duration
	contatoMinElapsed time.Duration
	notifyTimeout     time.Duration

	rateEnabled        bool
	rateRPS            float64
	rateBurst          int
	addHeaders         bool
	concurrencyMax     int
	concurrencyTimeout time.Duration

	redisAddr     string
	redisPassword string
	redisDB       int
	statsTTL      time.Duration
	statsBucket   string

	notify infra.NotifyConfig
}

func readConfig() (config, error) {
	cfg := config{}
	cfg.listenAddr = getenvDefault("LISTEN_ADDR", ":8080")
	cfg.logLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.upstreamURL = strings.TrimSpace(os.Getenv("UPSTREAM_URL"))
	cfg.corsOrigins = cors.ParseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))
	cfg.trustProxy = getenvBoolDefault("TRUST_PROXY_HEADERS", true)
	cfg.clientIPHeader = strings.TrimSpace(os.Getenv("CLIENT_IP_HEADER"))

	cfg.contatoLimit = getenvIntDefault("CONTATO_RATE_LIMIT", 3)
	cfg.contatoWindow = getenvDurationDefault("CONTATO_RATE_WINDOW", time.Hour)
	cfg.contatoMinElapsed = getenvDurationDefault("CONTATO_MIN_ELAPSED", 1500*time.Millisecond)
	cfg.notifyTimeout = getenvDurationDefault("NOTIFY_TIMEOUT", 8*time.Second)

	cfg.rateEnabled = getenvBoolDefault("RATE_ENABLED", true)
	cfg.rateRPS = getenvFloatDefault("RATE_RPS", 5)
	cfg.rateBurst = getenvIntDefault("RATE_BURST", 20)
	cfg.addHeaders = getenvBoolDefault("ADD_RATELIMIT_HEADERS", false)
	cfg.concurrencyMax = getenvIntDefault("CONCURRENCY_MAX", 100)
	cfg.concurrencyTimeout = getenvDurationDefault("CONCURRENCY_TIMEOUT", 0)

	cfg.redisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.redisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.redisDB = getenvIntDefault("REDIS_DB", 0)
	cfg.statsTTL = getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour)
	cfg.statsBucket = getenvDefault("RATE_STATS_BUCKET", "minute")

	cfg.notify = infra.NotifyConfig{
		WebhookURL:      strings.TrimSpace(os.Getenv("WA_WEBHOOK_URL")),
		NotifyRecipient: getenvDefault("WA_NOTIFY_PHONE", infra.DefaultNotifyPhone),
		EmailProvider:   getenvDefault("EMAIL_PROVIDER", infra.ProviderResend),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		ResendURL:       getenvDefault("RESEND_API_URL", infra.DefaultResendURL),
		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:       getenvDefault("EMAIL_FROM", infra.DefaultEmailFrom),
		// RESEND_TO é o nome antigo
		EmailTo: getenvDefault("EMAIL_TO", getenvDefault("RESEND_TO", infra.DefaultEmailTo)),
	}

	if cfg.upstreamURL != "" {
		u, err := url.Parse(cfg.upstreamURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return config{}, fmt.Errorf("%w: UPSTREAM_URL must be an absolute URL", errInvalidConfig)
		}
	}
	if cfg.contatoLimit <= 0 {
		return config{}, fmt.Errorf("%w: CONTATO_RATE_LIMIT must be > 0", errInvalidConfig)
	}
	if cfg.contatoWindow <= 0 {
		return config{}, fmt.Errorf("%w: CONTATO_RATE_WINDOW must be > 0", errInvalidConfig)
	}
	if cfg.notifyTimeout <= 0 {
		return config{}, fmt.Errorf("%w: NOTIFY_TIMEOUT must be > 0", errInvalidConfig)
	}
	if cfg.rateRPS <= 0 {
		return config{}, fmt.Errorf("%w: RATE_RPS must be > 0", errInvalidConfig)
	}
	if cfg.rateBurst <= 0 {
		return config{}, fmt.Errorf("%w: RATE_BURST must be > 0", errInvalidConfig)
	}
	if cfg.concurrencyMax < 0 {
		return config{}, fmt.Errorf("%w: CONCURRENCY_MAX must be >= 0", errInvalidConfig)
	}
	switch strings.ToLower(cfg.notify.EmailProvider) {
	case infra.ProviderResend, infra.ProviderSendGrid:
	default:
		return config{}, fmt.Errorf("%w: EMAIL_PROVIDER must be resend or sendgrid", errInvalidConfig)
	}
	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
