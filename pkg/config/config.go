package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Version       int
	BaseURL       string
	Cookie        string
	SessionCookie string
	Authorization string
	CFResponse    string
	Origin        string

	Protocol       string
	ProxyURL       string
	RequestTimeout time.Duration

	Cores       int
	PinWorkers  bool
	NonceLength int

	FetchBackoff time.Duration
	ClaimBackoff time.Duration
	CyclePause   time.Duration

	StateDir     string
	StatusAddr   string
	LogLevel     string
	ShutdownWait time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func atob(s string, def bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return def
}

func duration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

// LoadDotEnv copies a .env file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

func Parse() Config {
	return Config{
		Version:       atoi(getenv("MINER_VERSION", "2"), 2),
		BaseURL:       getenv("BASE_URL", ""),
		Cookie:        getenv("COOKIE", ""),
		SessionCookie: getenv("SESSION_COOKIE", ""),
		Authorization: getenv("AUTHORIZATION", ""),
		CFResponse:    getenv("CF_RESPONSE", ""),
		Origin:        getenv("ORIGIN", "https://blockjoker.org"),

		Protocol:       getenv("HTTP_PROTOCOL", "h2"),
		ProxyURL:       getenv("PROXY_URL", ""),
		RequestTimeout: duration(getenv("REQUEST_TIMEOUT", "0s"), 0),

		Cores:       atoi(getenv("MINER_CORES", "0"), 0),
		PinWorkers:  atob(getenv("PIN_WORKERS", "true"), true),
		NonceLength: atoi(getenv("NONCE_LENGTH", "48"), 48),

		FetchBackoff: duration(getenv("FETCH_BACKOFF", "1s"), time.Second),
		ClaimBackoff: duration(getenv("CLAIM_BACKOFF", "300ms"), 300*time.Millisecond),
		CyclePause:   duration(getenv("CYCLE_PAUSE", "100ms"), 100*time.Millisecond),

		StateDir:     getenv("STATE_DIR", ""),
		StatusAddr:   getenv("STATUS_ADDR", ""),
		LogLevel:     getenv("LOG_LEVEL", "info"),
		ShutdownWait: duration(getenv("SHUTDOWN_WAIT", "5s"), 5*time.Second),
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Authorization == "" {
		errs = append(errs, errors.New("AUTHORIZATION is required"))
	}
	if c.Version != 1 && c.Version != 2 {
		errs = append(errs, fmt.Errorf("MINER_VERSION must be 1 or 2, got %d", c.Version))
	}
	if c.Protocol != "h2" && c.Protocol != "h3" {
		errs = append(errs, fmt.Errorf("HTTP_PROTOCOL must be h2 or h3, got %q", c.Protocol))
	}
	if c.Cores < 0 {
		errs = append(errs, fmt.Errorf("MINER_CORES must not be negative, got %d", c.Cores))
	}
	if c.NonceLength <= 0 {
		errs = append(errs, fmt.Errorf("NONCE_LENGTH must be positive, got %d", c.NonceLength))
	}
	return errors.Join(errs...)
}
