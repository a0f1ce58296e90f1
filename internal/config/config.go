package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-feed/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// ProviderConfig is the shared shape of every upstream source. Fields tagged
// with koanf can be overridden from PROVIDERS_FILE.
type ProviderConfig struct {
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Timeout    time.Duration `koanf:"timeout"`
	MaxRetries int           `koanf:"max_retries"`
}

// Enabled reports whether the provider has credentials to run with.
func (p ProviderConfig) Enabled() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

type SportradarConfig struct {
	ProviderConfig `koanf:",squash"`
	Locale         string `koanf:"locale"`
	SeasonYear     int    `koanf:"season_year"`
	SeasonType     string `koanf:"season_type"`
}

type APISportsConfig struct {
	ProviderConfig `koanf:",squash"`
	Host           string `koanf:"host"`
}

type OddsAPIConfig struct {
	ProviderConfig `koanf:",squash"`
	Sport          string `koanf:"sport"`
	Regions        string `koanf:"regions"`
	Markets        string `koanf:"markets"`
}

type Providers struct {
	Sportradar SportradarConfig `koanf:"sportradar"`
	APISports  APISportsConfig  `koanf:"apisports"`
	OddsAPI    OddsAPIConfig    `koanf:"oddsapi"`
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	CORSAllowedOrigins []string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	LogLevel           logging.Level
	LogFormat          logging.Format

	LiveInterval  time.Duration
	BoardInterval time.Duration
	ScheduleLimit int
	LeadersLimit  int
	SnapshotTTL   time.Duration
	StreamEnabled bool

	ProvidersFile string
	Providers     Providers

	RetryBackoff          time.Duration
	CircuitEnabled        bool
	CircuitFailureCount   int
	CircuitOpenTimeout    time.Duration
	CircuitHalfOpenMaxReq int

	RedisEnabled bool
	RedisURL     string
	RedisChannel string

	MetricsEnabled bool
	SwaggerEnabled bool

	UptraceEnabled         bool
	UptraceDSN             string
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
	// PprofEnabled mounts /debug/pprof on the API listener.
	PprofEnabled bool
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	logFormatDefault := string(logging.FormatJSON)
	if appEnv == EnvDev {
		logFormatDefault = string(logging.FormatConsole)
	}
	logFormat, err := logging.ParseFormat(getEnv("LOG_FORMAT", logFormatDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_FORMAT: %w", err)
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "hoops-feed"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logLevel,
		LogFormat:          logFormat,
		ProvidersFile:      strings.TrimSpace(getEnv("PROVIDERS_FILE", "")),
		RedisURL:           strings.TrimSpace(getEnv("REDIS_URL", "redis://localhost:6379/0")),
		RedisChannel:       strings.TrimSpace(getEnv("REDIS_CHANNEL", "hoops-feed:dashboard")),
		UptraceDSN:         strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeAuthToken: strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	durations := []struct {
		key      string
		fallback string
		target   *time.Duration
	}{
		{"HTTP_READ_TIMEOUT", "10s", &cfg.ReadTimeout},
		{"HTTP_WRITE_TIMEOUT", "15s", &cfg.WriteTimeout},
		{"SHUTDOWN_TIMEOUT", "10s", &cfg.ShutdownTimeout},
		{"LIVE_INTERVAL", "15s", &cfg.LiveInterval},
		{"BOARD_INTERVAL", "5m", &cfg.BoardInterval},
		{"SNAPSHOT_TTL", "30m", &cfg.SnapshotTTL},
		{"UPSTREAM_RETRY_BACKOFF", "500ms", &cfg.RetryBackoff},
		{"CIRCUIT_OPEN_TIMEOUT", "30s", &cfg.CircuitOpenTimeout},
		{"PYROSCOPE_UPLOAD_RATE", "15s", &cfg.PyroscopeUploadRate},
	}
	for _, d := range durations {
		if *d.target, err = getEnvAsDuration(d.key, d.fallback); err != nil {
			return Config{}, err
		}
	}

	ints := []struct {
		key      string
		fallback int
		min      int
		target   *int
	}{
		{"SCHEDULE_LIMIT", 5, 1, &cfg.ScheduleLimit},
		{"LEADERS_LIMIT", 3, 1, &cfg.LeadersLimit},
		{"CIRCUIT_FAILURE_COUNT", 5, 1, &cfg.CircuitFailureCount},
		{"CIRCUIT_HALF_OPEN_MAX_REQ", 1, 1, &cfg.CircuitHalfOpenMaxReq},
	}
	for _, i := range ints {
		value, err := getEnvAsInt(i.key, i.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", i.key, err)
		}
		if value < i.min {
			return Config{}, fmt.Errorf("%s must be >= %d", i.key, i.min)
		}
		*i.target = value
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	bools := []struct {
		key      string
		fallback string
		target   *bool
	}{
		{"STREAM_ENABLED", "true", &cfg.StreamEnabled},
		{"CIRCUIT_ENABLED", "true", &cfg.CircuitEnabled},
		{"REDIS_ENABLED", "false", &cfg.RedisEnabled},
		{"METRICS_ENABLED", "true", &cfg.MetricsEnabled},
		{"SWAGGER_ENABLED", swaggerDefault, &cfg.SwaggerEnabled},
		{"UPTRACE_ENABLED", "false", &cfg.UptraceEnabled},
		{"PYROSCOPE_ENABLED", "false", &cfg.PyroscopeEnabled},
		{"PPROF_ENABLED", "false", &cfg.PprofEnabled},
	}
	for _, b := range bools {
		value, err := strconv.ParseBool(getEnv(b.key, b.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", b.key, err)
		}
		*b.target = value
	}

	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.RedisEnabled && cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("REDIS_URL is required when REDIS_ENABLED=true")
	}

	if cfg.Providers, err = loadProviders(); err != nil {
		return Config{}, err
	}
	if cfg.ProvidersFile != "" {
		if err := applyProvidersFile(cfg.ProvidersFile, &cfg.Providers); err != nil {
			return Config{}, fmt.Errorf("load PROVIDERS_FILE: %w", err)
		}
	}
	if err := cfg.Providers.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadProviders() (Providers, error) {
	var out Providers
	var err error

	if out.Sportradar.ProviderConfig, err = loadProvider("SPORTRADAR", "https://api.sportradar.us/nba/trial/v8", "20s", 1); err != nil {
		return Providers{}, err
	}
	out.Sportradar.Locale = getEnv("SPORTRADAR_LOCALE", "en")
	out.Sportradar.SeasonType = strings.ToUpper(getEnv("SPORTRADAR_SEASON_TYPE", "REG"))
	if out.Sportradar.SeasonYear, err = getEnvAsInt("SPORTRADAR_SEASON_YEAR", 0); err != nil {
		return Providers{}, fmt.Errorf("parse SPORTRADAR_SEASON_YEAR: %w", err)
	}

	if out.APISports.ProviderConfig, err = loadProvider("APISPORTS", "https://api-nba-v1.p.rapidapi.com", "10s", 0); err != nil {
		return Providers{}, err
	}
	out.APISports.Host = getEnv("APISPORTS_HOST", "api-nba-v1.p.rapidapi.com")

	if out.OddsAPI.ProviderConfig, err = loadProvider("ODDSAPI", "https://api.the-odds-api.com/v4", "20s", 1); err != nil {
		return Providers{}, err
	}
	out.OddsAPI.Sport = getEnv("ODDSAPI_SPORT", "basketball_nba")
	out.OddsAPI.Regions = getEnv("ODDSAPI_REGIONS", "us")
	out.OddsAPI.Markets = getEnv("ODDSAPI_MARKETS", "h2h,spreads,totals")

	return out, nil
}

func loadProvider(prefix, baseURL, timeout string, retries int) (ProviderConfig, error) {
	out := ProviderConfig{
		BaseURL: strings.TrimSpace(getEnv(prefix+"_BASE_URL", baseURL)),
		APIKey:  strings.TrimSpace(getEnv(prefix+"_API_KEY", "")),
	}

	var err error
	if out.Timeout, err = getEnvAsDuration(prefix+"_TIMEOUT", timeout); err != nil {
		return ProviderConfig{}, err
	}
	if out.MaxRetries, err = getEnvAsInt(prefix+"_MAX_RETRIES", retries); err != nil {
		return ProviderConfig{}, fmt.Errorf("parse %s_MAX_RETRIES: %w", prefix, err)
	}
	return out, nil
}

func (p Providers) validate() error {
	named := map[string]ProviderConfig{
		"SPORTRADAR": p.Sportradar.ProviderConfig,
		"APISPORTS":  p.APISports.ProviderConfig,
		"ODDSAPI":    p.OddsAPI.ProviderConfig,
	}
	for prefix, provider := range named {
		if provider.BaseURL == "" {
			return fmt.Errorf("%s_BASE_URL cannot be empty", prefix)
		}
		if provider.Timeout <= 0 {
			return fmt.Errorf("%s_TIMEOUT must be > 0", prefix)
		}
		if provider.MaxRetries < 0 {
			return fmt.Errorf("%s_MAX_RETRIES must be >= 0", prefix)
		}
	}
	if p.Sportradar.SeasonYear < 0 {
		return fmt.Errorf("SPORTRADAR_SEASON_YEAR must be >= 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}
	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
