package config

import (
	"os"
	"time"
)

// Default per-request ceiling. Timeouts are transport failures, never treated
// as session expiry.
const DefaultRequestTimeout = 30 * time.Second

// Client captures configuration for the API client and session core.
type Client struct {
	// APIBaseURL is the externally reachable Fineract instance. When empty,
	// requests target the local dev proxy instead.
	APIBaseURL string
	// Tenant is the environment default tenant, used when no tenant has been
	// stored by a login or tenant switch.
	Tenant string
	// RequestTimeout is the fixed per-request ceiling.
	RequestTimeout time.Duration
	// CredentialDir overrides where the durable credential scope lives.
	// Empty means the user config directory.
	CredentialDir string
}

// Proxy captures configuration for the development proxy.
type Proxy struct {
	Addr     string
	Upstream string
}

// FromEnv builds a Client config from environment variables so main stays lean.
func FromEnv() Client {
	timeout := DefaultRequestTimeout
	if raw := os.Getenv("FINADMIN_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}

	return Client{
		APIBaseURL:     os.Getenv("FINADMIN_API_BASE_URL"),
		Tenant:         os.Getenv("FINADMIN_TENANT"),
		RequestTimeout: timeout,
		CredentialDir:  os.Getenv("FINADMIN_CRED_DIR"),
	}
}

// ProxyFromEnv builds a Proxy config from environment variables.
func ProxyFromEnv() Proxy {
	addr := os.Getenv("DEVPROXY_ADDR")
	if addr == "" {
		addr = ":8443"
	}
	upstream := os.Getenv("DEVPROXY_UPSTREAM")
	if upstream == "" {
		upstream = "https://localhost:8444"
	}
	return Proxy{Addr: addr, Upstream: upstream}
}
