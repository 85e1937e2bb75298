package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", `other=1, uptrace-dsn="https://token@api.uptrace.dev/1"`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev/1" {
		t.Fatalf("unexpected uptrace dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SEASON_CURRENT", "2026")
	t.Setenv("SEASON_LIST", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ServiceName != "hoops-hub-api" || cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected service defaults: name=%s addr=%s", cfg.ServiceName, cfg.HTTPAddr)
	}
	if cfg.ESPNTeamID != "57" || cfg.ESPNConferenceGroupID != "23" {
		t.Fatalf("unexpected espn defaults: team=%s group=%s", cfg.ESPNTeamID, cfg.ESPNConferenceGroupID)
	}
	if cfg.SyncAthleteBatchSize != 6 || cfg.SyncSparseRosterThreshold != 8 || cfg.AnalyticsWindow != 10 {
		t.Fatalf("unexpected sync defaults: %+v", cfg)
	}
	if cfg.RefreshInterval != 10*time.Minute || cfg.LiveInterval != 30*time.Second {
		t.Fatalf("unexpected intervals: refresh=%s live=%s", cfg.RefreshInterval, cfg.LiveInterval)
	}
	if len(cfg.Seasons) != 1 || cfg.Seasons[0] != 2026 {
		t.Fatalf("unexpected seasons: %v", cfg.Seasons)
	}
	if cfg.RedisEnabled || len(cfg.FetchRelays) != 0 {
		t.Fatalf("expected redis and custom relays disabled by default")
	}
}

func TestLoad_SeasonList(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("SEASON_CURRENT", "2025")

	t.Run("sorted newest first with current included", func(t *testing.T) {
		t.Setenv("SEASON_LIST", "2019, 2024,2019")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		want := []int{2025, 2024, 2019}
		if len(cfg.Seasons) != len(want) {
			t.Fatalf("unexpected seasons: got=%v want=%v", cfg.Seasons, want)
		}
		for i := range want {
			if cfg.Seasons[i] != want[i] {
				t.Fatalf("unexpected seasons: got=%v want=%v", cfg.Seasons, want)
			}
		}
	})

	t.Run("invalid entry", func(t *testing.T) {
		t.Setenv("SEASON_LIST", "2024,last-year")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid SEASON_LIST")
		}
	})
}

func TestLoad_PprofDefaultsAddrWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")
	t.Setenv("APP_SERVICE_NAME", "hoops-hub-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "hoops-hub-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected second CORS origin: %s", cfg.CORSAllowedOrigins[1])
		}
	})
}

func TestLoad_FetchAndRedisParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "false")

	t.Run("values", func(t *testing.T) {
		t.Setenv("FETCH_RELAYS", "prefix=https://relay.example/,reader=https://reader.example/http/")
		t.Setenv("FETCH_CIRCUIT_FAILURE_COUNT", "5")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("REDIS_DB", "2")
		t.Setenv("REDIS_SNAPSHOT_TTL", "90m")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.FetchRelays) != 2 || cfg.FetchCircuitFailureCount != 5 {
			t.Fatalf("unexpected fetch config: relays=%v failures=%d", cfg.FetchRelays, cfg.FetchCircuitFailureCount)
		}
		if !cfg.RedisEnabled || cfg.RedisDB != 2 || cfg.RedisSnapshotTTL != 90*time.Minute {
			t.Fatalf("unexpected redis config: %+v", cfg)
		}
	})

	t.Run("invalid durations and counts", func(t *testing.T) {
		cases := map[string]string{
			"FETCH_CIRCUIT_FAILURE_COUNT": "0",
			"LIVE_INTERVAL":               "0s",
			"REFRESH_INTERVAL":            "soon",
			"SYNC_ATHLETE_BATCH_SIZE":     "0",
			"ANALYTICS_MAX_WORKERS":       "-1",
		}
		for key, value := range cases {
			t.Run(key, func(t *testing.T) {
				t.Setenv(key, value)
				if _, err := Load(); err == nil {
					t.Fatalf("expected error for %s=%s", key, value)
				}
			})
		}
	})
}

func TestDefaultSeason(t *testing.T) {
	t.Parallel()

	if got := defaultSeason(time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)); got != 2026 {
		t.Fatalf("unexpected season in november: got=%d want=2026", got)
	}
	if got := defaultSeason(time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)); got != 2026 {
		t.Fatalf("unexpected season in february: got=%d want=2026", got)
	}
}

func TestLoad_SwaggerDefaultsByEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("SWAGGER_ENABLED", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.SwaggerEnabled {
		t.Fatalf("expected swagger disabled in prod by default")
	}

	t.Setenv("APP_ENV", EnvDev)
	cfg, err = Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.SwaggerEnabled {
		t.Fatalf("expected swagger enabled outside prod by default")
	}

	t.Setenv("SWAGGER_ENABLED", "maybe")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid SWAGGER_ENABLED")
	}
}
