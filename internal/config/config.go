package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// VerifyMode selects protocol served on the payment verification route.
type VerifyMode string

const (
	VerifyModeClient  VerifyMode = "client"
	VerifyModeWebhook VerifyMode = "webhook"
)

// Storage drivers.
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress            string
	DatabaseURI           string
	StorageDriver         string
	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string
	RazorpayAPIURL        string
	VerifyMode            VerifyMode
	DefaultCurrency       string
	GatewayTimeout        time.Duration
	ShutdownTimeout       time.Duration
	OrderTTL              time.Duration
	ExpiryPollInterval    time.Duration
	ExpiryBatchSize       int
	WorkerPoolSize        int
	KafkaBrokers          []string
	KafkaTopic            string
	CORSAllowedOrigins    []string
	LogLevel              string
}

const (
	defaultRunAddress         = ":8080"
	defaultRazorpayAPIURL     = "https://api.razorpay.com"
	defaultCurrency           = "INR"
	defaultGatewayTimeout     = 10 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultOrderTTL           = 24 * time.Hour
	defaultExpiryPollInterval = time.Minute
	defaultExpiryBatchSize    = 32
	defaultWorkerPoolSize     = 2
	defaultKafkaTopic         = "payments.user-upgraded"
	defaultCORSAllowedOrigins = "*"
	defaultLogLevel           = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		StorageDriver:         getString(lookup, "STORAGE_DRIVER", StorageDriverPostgres),
		RazorpayKeyID:         getString(lookup, "RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:     getString(lookup, "RAZORPAY_KEY_SECRET", ""),
		RazorpayWebhookSecret: getString(lookup, "RAZORPAY_WEBHOOK_SECRET", ""),
		RazorpayAPIURL:        getString(lookup, "RAZORPAY_API_URL", defaultRazorpayAPIURL),
		VerifyMode:            VerifyMode(getString(lookup, "VERIFY_MODE", string(VerifyModeClient))),
		DefaultCurrency:       getString(lookup, "DEFAULT_CURRENCY", defaultCurrency),
		GatewayTimeout:        getDuration(lookup, "GATEWAY_TIMEOUT", defaultGatewayTimeout),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		OrderTTL:              getDuration(lookup, "ORDER_TTL", defaultOrderTTL),
		ExpiryPollInterval:    getDuration(lookup, "EXPIRY_POLL_INTERVAL", defaultExpiryPollInterval),
		ExpiryBatchSize:       getInt(lookup, "EXPIRY_BATCH_SIZE", defaultExpiryBatchSize),
		WorkerPoolSize:        getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		KafkaBrokers:          splitList(getString(lookup, "KAFKA_BROKERS", "")),
		KafkaTopic:            getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		CORSAllowedOrigins:    splitList(getString(lookup, "CORS_ALLOWED_ORIGINS", defaultCORSAllowedOrigins)),
		LogLevel:              getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	// PORT is honoured for platforms that only inject a port number.
	if port, ok := lookup("PORT"); ok && port != "" {
		if _, explicit := lookup("RUN_ADDRESS"); !explicit {
			cfg.RunAddress = ":" + port
		}
	}

	fs := flag.NewFlagSet("payments", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		verifyModeStr      = string(cfg.VerifyMode)
		kafkaBrokersStr    = strings.Join(cfg.KafkaBrokers, ",")
		corsOriginsStr     = strings.Join(cfg.CORSAllowedOrigins, ",")
		gatewayTimeoutStr  = cfg.GatewayTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		orderTTLStr        = cfg.OrderTTL.String()
		pollIntervalStr    = cfg.ExpiryPollInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "Document storage driver (postgres|memory)")
	fs.StringVar(&cfg.RazorpayAPIURL, "gateway-url", cfg.RazorpayAPIURL, "Payment gateway API base URL")
	fs.StringVar(&verifyModeStr, "verify-mode", verifyModeStr, "Verification protocol on /payment/verify (client|webhook)")
	fs.StringVar(&cfg.DefaultCurrency, "currency", cfg.DefaultCurrency, "Default order currency")
	fs.StringVar(&gatewayTimeoutStr, "gateway-timeout", gatewayTimeoutStr, "Payment gateway request timeout")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&orderTTLStr, "order-ttl", orderTTLStr, "Age after which created orders expire, 0 disables")
	fs.StringVar(&pollIntervalStr, "expiry-interval", pollIntervalStr, "Interval between stale order sweeps")
	fs.IntVar(&cfg.ExpiryBatchSize, "expiry-batch", cfg.ExpiryBatchSize, "Maximum orders per expiry sweep")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent expiry workers")
	fs.StringVar(&kafkaBrokersStr, "kafka-brokers", kafkaBrokersStr, "Comma separated Kafka brokers")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Topic for user upgrade events")
	fs.StringVar(&corsOriginsStr, "cors-origins", corsOriginsStr, "Comma separated allowed CORS origins, * allows any")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg.VerifyMode = VerifyMode(strings.ToLower(verifyModeStr))
	cfg.KafkaBrokers = splitList(kafkaBrokersStr)
	cfg.CORSAllowedOrigins = splitList(corsOriginsStr)
	cfg.DefaultCurrency = strings.ToUpper(cfg.DefaultCurrency)

	var err error

	if cfg.GatewayTimeout, err = time.ParseDuration(gatewayTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid gateway timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.OrderTTL, err = time.ParseDuration(orderTTLStr); err != nil {
		return nil, fmt.Errorf("invalid order ttl: %w", err)
	}

	if cfg.ExpiryPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid expiry interval: %w", err)
	}

	secretFiles := []struct {
		env    string
		target *string
	}{
		{"RAZORPAY_KEY_SECRET_FILE", &cfg.RazorpayKeySecret},
		{"RAZORPAY_WEBHOOK_SECRET_FILE", &cfg.RazorpayWebhookSecret},
	}
	for _, sf := range secretFiles {
		path, ok := lookup(sf.env)
		if !ok || path == "" {
			continue
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", strings.ToLower(sf.env), err)
		}
		*sf.target = strings.TrimSpace(string(content))
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ExpiryBatchSize <= 0 {
		cfg.ExpiryBatchSize = defaultExpiryBatchSize
	}

	if cfg.ExpiryPollInterval <= 0 {
		cfg.ExpiryPollInterval = defaultExpiryPollInterval
	}

	if cfg.GatewayTimeout <= 0 {
		cfg.GatewayTimeout = defaultGatewayTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.OrderTTL < 0 {
		cfg.OrderTTL = 0
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.RazorpayKeyID == "" {
		return fmt.Errorf("razorpay key id must be provided")
	}

	if c.RazorpayKeySecret == "" {
		return fmt.Errorf("razorpay key secret must be provided")
	}

	switch c.VerifyMode {
	case VerifyModeClient:
	case VerifyModeWebhook:
		if c.RazorpayWebhookSecret == "" {
			return fmt.Errorf("razorpay webhook secret must be provided in webhook mode")
		}
	default:
		return fmt.Errorf("unknown verify mode %q", c.VerifyMode)
	}

	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURI == "" {
			return fmt.Errorf("database URI must be provided")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	for _, origin := range c.CORSAllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid CORS origin %q", origin)
		}
	}

	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("default currency must be a three letter code")
	}

	return nil
}

// CORSAllowAll reports whether any origin may call the API.
func (c *Config) CORSAllowAll() bool {
	for _, origin := range c.CORSAllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// WebhookEnabled reports whether webhook callbacks can be verified.
func (c *Config) WebhookEnabled() bool {
	return c.RazorpayWebhookSecret != ""
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(value string) []string {
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
