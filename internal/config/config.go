package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level
	SwaggerEnabled     bool

	PprofEnabled bool
	PprofAddr    string

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	ESPNSiteBaseURL       string
	ESPNCoreBaseURL       string
	ESPNStandingsBaseURL  string
	ESPNTeamID            string
	ESPNConferenceGroupID string
	SportsRefBaseURL      string
	SportsRefSchoolSlug   string

	CurrentSeason int
	Seasons       []int

	// FetchRelays holds "kind=base" relay definitions tried after the direct
	// request. Empty means the built-in relay chain.
	FetchRelays                []string
	FetchCircuitEnabled        bool
	FetchCircuitFailureCount   int
	FetchCircuitOpenTimeout    time.Duration
	FetchCircuitHalfOpenMaxReq int
	FetchMaxBodyBytes          int64

	SyncStageTimeout          time.Duration
	SyncAthleteBatchSize      int
	SyncSparseRosterThreshold int
	AnalyticsWindow           int
	AnalyticsMaxWorkers       int
	RefreshInterval           time.Duration
	LiveInterval              time.Duration

	CacheEnabled bool
	CacheTTL     time.Duration

	RedisEnabled     bool
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisSnapshotTTL time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "hoops-hub-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                   parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceDSN:                 strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		ESPNSiteBaseURL:            strings.TrimSpace(getEnv("ESPN_SITE_BASE_URL", "")),
		ESPNCoreBaseURL:            strings.TrimSpace(getEnv("ESPN_CORE_BASE_URL", "")),
		ESPNStandingsBaseURL:       strings.TrimSpace(getEnv("ESPN_STANDINGS_BASE_URL", "")),
		ESPNTeamID:                 strings.TrimSpace(getEnv("ESPN_TEAM_ID", "57")),
		ESPNConferenceGroupID:      strings.TrimSpace(getEnv("ESPN_CONFERENCE_GROUP_ID", "23")),
		SportsRefBaseURL:           strings.TrimSpace(getEnv("SPORTSREF_BASE_URL", "")),
		SportsRefSchoolSlug:        strings.TrimSpace(getEnv("SPORTSREF_SCHOOL_SLUG", "florida")),
		FetchRelays:                splitCSV(getEnv("FETCH_RELAYS", "")),
		RedisAddr:                  strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379")),
		RedisPassword:              getEnv("REDIS_PASSWORD", ""),
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.ESPNTeamID == "" {
		return Config{}, fmt.Errorf("ESPN_TEAM_ID cannot be empty")
	}

	if cfg.ReadTimeout, err = getEnvAsDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsDuration("APP_WRITE_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}
	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return Config{}, err
	}

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	if cfg.CurrentSeason, err = getEnvAsInt("SEASON_CURRENT", defaultSeason(time.Now())); err != nil {
		return Config{}, fmt.Errorf("parse SEASON_CURRENT: %w", err)
	}
	if cfg.CurrentSeason <= 0 {
		return Config{}, fmt.Errorf("SEASON_CURRENT must be > 0")
	}
	if cfg.Seasons, err = parseSeasonList(getEnv("SEASON_LIST", ""), cfg.CurrentSeason); err != nil {
		return Config{}, fmt.Errorf("parse SEASON_LIST: %w", err)
	}

	if cfg.FetchCircuitEnabled, err = getEnvAsBool("FETCH_CIRCUIT_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.FetchCircuitFailureCount, err = getEnvAsInt("FETCH_CIRCUIT_FAILURE_COUNT", 3); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.FetchCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FETCH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.FetchCircuitOpenTimeout, err = getEnvAsDuration("FETCH_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.FetchCircuitHalfOpenMaxReq, err = getEnvAsInt("FETCH_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.FetchCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FETCH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	maxBody, err := getEnvAsInt("FETCH_MAX_BODY_BYTES", 8<<20)
	if err != nil {
		return Config{}, fmt.Errorf("parse FETCH_MAX_BODY_BYTES: %w", err)
	}
	if maxBody <= 0 {
		return Config{}, fmt.Errorf("FETCH_MAX_BODY_BYTES must be > 0")
	}
	cfg.FetchMaxBodyBytes = int64(maxBody)

	if cfg.SyncStageTimeout, err = getEnvAsDuration("SYNC_STAGE_TIMEOUT", "45s"); err != nil {
		return Config{}, err
	}
	if cfg.SyncAthleteBatchSize, err = getEnvAsInt("SYNC_ATHLETE_BATCH_SIZE", 6); err != nil {
		return Config{}, fmt.Errorf("parse SYNC_ATHLETE_BATCH_SIZE: %w", err)
	}
	if cfg.SyncAthleteBatchSize < 1 {
		return Config{}, fmt.Errorf("SYNC_ATHLETE_BATCH_SIZE must be >= 1")
	}
	if cfg.SyncSparseRosterThreshold, err = getEnvAsInt("SYNC_SPARSE_ROSTER_THRESHOLD", 8); err != nil {
		return Config{}, fmt.Errorf("parse SYNC_SPARSE_ROSTER_THRESHOLD: %w", err)
	}
	if cfg.SyncSparseRosterThreshold < 0 {
		return Config{}, fmt.Errorf("SYNC_SPARSE_ROSTER_THRESHOLD must be >= 0")
	}
	if cfg.AnalyticsWindow, err = getEnvAsInt("ANALYTICS_WINDOW", 10); err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_WINDOW: %w", err)
	}
	if cfg.AnalyticsWindow < 1 {
		return Config{}, fmt.Errorf("ANALYTICS_WINDOW must be >= 1")
	}
	if cfg.AnalyticsMaxWorkers, err = getEnvAsInt("ANALYTICS_MAX_WORKERS", 4); err != nil {
		return Config{}, fmt.Errorf("parse ANALYTICS_MAX_WORKERS: %w", err)
	}
	if cfg.AnalyticsMaxWorkers < 1 {
		return Config{}, fmt.Errorf("ANALYTICS_MAX_WORKERS must be >= 1")
	}
	if cfg.RefreshInterval, err = getEnvAsDuration("REFRESH_INTERVAL", "10m"); err != nil {
		return Config{}, err
	}
	if cfg.LiveInterval, err = getEnvAsDuration("LIVE_INTERVAL", "30s"); err != nil {
		return Config{}, err
	}

	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getEnvAsDuration("CACHE_TTL", "6h"); err != nil {
		return Config{}, err
	}

	if cfg.RedisEnabled, err = getEnvAsBool("REDIS_ENABLED", "false"); err != nil {
		return Config{}, err
	}
	if cfg.RedisEnabled && cfg.RedisAddr == "" {
		return Config{}, fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED=true")
	}
	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("parse REDIS_DB: %w", err)
	}
	if cfg.RedisDB < 0 {
		return Config{}, fmt.Errorf("REDIS_DB must be >= 0")
	}
	if cfg.RedisSnapshotTTL, err = getEnvAsDuration("REDIS_SNAPSHOT_TTL", "24h"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(getEnv(key, fallback))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration rejects zero and negative durations.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
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

// parseSeasonList reads a CSV of season years. The current season is always
// included and the result is newest first without duplicates.
func parseSeasonList(raw string, current int) ([]int, error) {
	seen := map[int]struct{}{current: {}}
	out := []int{current}
	for _, item := range splitCSV(raw) {
		year, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid season %q: %w", item, err)
		}
		if year <= 0 {
			return nil, fmt.Errorf("season must be > 0, got %d", year)
		}
		if _, ok := seen[year]; ok {
			continue
		}
		seen[year] = struct{}{}
		out = append(out, year)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] > out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

// defaultSeason names a college season by the year it ends: games from
// October onward belong to the next year's season.
func defaultSeason(now time.Time) int {
	if now.Month() >= time.October {
		return now.Year() + 1
	}
	return now.Year()
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
