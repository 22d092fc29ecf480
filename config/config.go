package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// ContractAccountID doubles as the owner identity: only it may change
	// the oracle account. The oracle identity itself lives in the house row
	// and is rotated through set_oracle_account, not configuration.
	ContractAccountID string

	// Resolver configuration
	ResolverAccountID  string
	ResolverSigningKey string   // opaque signing credential, passed through to the transport
	ResolveTransport   string   // "local" settles in-process, "rpc" submits to the endpoints
	RPCEndpoints       []string // ordered candidate endpoints, tried first to last
	ResolveTimeout     time.Duration
	RateLimitBackoff   time.Duration

	// HTTP gateway
	ListenAddr string

	// Optional NATS outcome feed. Empty disables the subscriber.
	NATSURL string

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		ContractAccountID: getenvDefault("CONTRACT_ID", "game-v0.testnet"),

		ResolverAccountID:  getenvDefault("RESOLVER_ACCOUNT_ID", "resolver-v0.testnet"),
		ResolverSigningKey: os.Getenv("RESOLVER_PRIVATE_KEY"),
		ResolveTransport:   getenvDefault("RESOLVE_TRANSPORT", "local"),
		ResolveTimeout:     30 * time.Second,
		RateLimitBackoff:   5 * time.Second,

		ListenAddr: getenvDefault("LISTEN_ADDR", ":3002"),
		NATSURL:    os.Getenv("NATS_URL"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Ordered endpoint list, first entry tried first
	if endpoints := os.Getenv("RPC_ENDPOINTS"); endpoints != "" {
		for _, e := range strings.Split(endpoints, ",") {
			if e = strings.TrimSpace(e); e != "" {
				config.RPCEndpoints = append(config.RPCEndpoints, e)
			}
		}
	} else {
		config.RPCEndpoints = []string{"https://rpc.testnet.near.org"}
	}

	if timeout := os.Getenv("RESOLVE_TIMEOUT_SECONDS"); timeout != "" {
		if parsed, err := strconv.Atoi(timeout); err == nil && parsed > 0 {
			config.ResolveTimeout = time.Duration(parsed) * time.Second
		}
	}
	if backoff := os.Getenv("RATE_LIMIT_BACKOFF_SECONDS"); backoff != "" {
		if parsed, err := strconv.Atoi(backoff); err == nil && parsed > 0 {
			config.RateLimitBackoff = time.Duration(parsed) * time.Second
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.ResolveTransport != "local" && config.ResolveTransport != "rpc" {
		return nil, fmt.Errorf("RESOLVE_TRANSPORT must be \"local\" or \"rpc\", got %q", config.ResolveTransport)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
