package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds the runtime settings of nextup. User preferences (language, theme, favorites)
// are not part of it; those live in the key-value store.
type Config struct {
	Environment string
	LogLevel    zerolog.Level

	APIBaseURL  string
	HTTPTimeout time.Duration
	// MaxAttempts is the number of tries per API request. 1 disables retries.
	MaxAttempts int

	RadiusMeters     float64
	StationboardSize int
	SearchDebounce   time.Duration
	SearchCacheSize  int
	SearchCacheTTL   time.Duration
	LocateTimeout    time.Duration
	GeoIPURL         string

	StoreDSN       string
	LineColorsFile string

	Port        string
	CORSOrigins []string
}

type Option func(*Config)

// WithEnvironment sets the environment name (production, development, local)
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel parses level and falls back to info when it is not a zerolog level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil || level == "" {
			parsed = zerolog.InfoLevel
		}
		c.LogLevel = parsed
	}
}

// WithAPIBaseURL points the transit client at another API host
func WithAPIBaseURL(url string) Option {
	return func(c *Config) {
		c.APIBaseURL = strings.TrimRight(url, "/")
	}
}

func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		if n < 1 {
			n = 1
		}
		c.MaxAttempts = n
	}
}

func WithRadius(meters float64) Option {
	return func(c *Config) {
		c.RadiusMeters = meters
	}
}

func WithStoreDSN(dsn string) Option {
	return func(c *Config) {
		c.StoreDSN = dsn
	}
}

// New creates a configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:      "development",
		LogLevel:         zerolog.InfoLevel,
		APIBaseURL:       "https://transport.opendata.ch/v1",
		HTTPTimeout:      30 * time.Second,
		MaxAttempts:      1,
		RadiusMeters:     1000,
		StationboardSize: 20,
		SearchDebounce:   300 * time.Millisecond,
		SearchCacheSize:  128,
		SearchCacheTTL:   time.Minute,
		LocateTimeout:    10 * time.Second,
		GeoIPURL:         "http://ip-api.com/json",
		Port:             "8080",
		CORSOrigins:      []string{"http://localhost:5173"},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// DefaultStoreDSN returns the JSON state file under the user's home directory
func DefaultStoreDSN() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find user home directory: %w", err)
	}
	return "file://" + filepath.Join(homeDir, ".nextup", "state.json"), nil
}

// Load reads a .env file when present and builds the configuration from the environment.
// Invalid numeric or duration values are reported rather than silently replaced.
func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := New(
		WithEnvironment(getEnvOrDefault("ENV", "development")),
		WithLogLevel(os.Getenv("LOG_LEVEL")),
	)

	if v := os.Getenv("NEXTUP_API_URL"); v != "" {
		WithAPIBaseURL(v)(cfg)
	}

	var err error
	if cfg.HTTPTimeout, err = durationEnv("NEXTUP_HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return nil, err
	}
	if cfg.SearchDebounce, err = durationEnv("NEXTUP_SEARCH_DEBOUNCE", cfg.SearchDebounce); err != nil {
		return nil, err
	}
	if cfg.SearchCacheTTL, err = durationEnv("NEXTUP_SEARCH_CACHE_TTL", cfg.SearchCacheTTL); err != nil {
		return nil, err
	}
	if cfg.LocateTimeout, err = durationEnv("NEXTUP_LOCATE_TIMEOUT", cfg.LocateTimeout); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts, err = intEnv("NEXTUP_MAX_ATTEMPTS", cfg.MaxAttempts); err != nil {
		return nil, err
	}
	if cfg.SearchCacheSize, err = intEnv("NEXTUP_SEARCH_CACHE_SIZE", cfg.SearchCacheSize); err != nil {
		return nil, err
	}
	if cfg.StationboardSize, err = intEnv("NEXTUP_STATIONBOARD_LIMIT", cfg.StationboardSize); err != nil {
		return nil, err
	}

	if v := os.Getenv("NEXTUP_RADIUS"); v != "" {
		f, perr := strconv.ParseFloat(v, 64)
		if perr != nil || f <= 0 {
			return nil, fmt.Errorf("invalid NEXTUP_RADIUS: %q", v)
		}
		cfg.RadiusMeters = f
	}

	cfg.GeoIPURL = getEnvOrDefault("NEXTUP_GEOIP_URL", cfg.GeoIPURL)
	cfg.LineColorsFile = os.Getenv("NEXTUP_LINE_COLORS")
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	cfg.StoreDSN = os.Getenv("NEXTUP_STORE")
	if cfg.StoreDSN == "" {
		if cfg.StoreDSN, err = DefaultStoreDSN(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// InitializeLogging sets up the global zerolog logger. Human-readable console output goes to w
// unless ENV=production, where plain JSON lines are written for log collectors.
func (c *Config) InitializeLogging(w io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	if c.Environment == "production" {
		log.Logger = zerolog.New(w).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return n, nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
