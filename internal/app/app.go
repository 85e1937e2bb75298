package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/riskibarqy/hoops-hub/external/espn"
	"github.com/riskibarqy/hoops-hub/external/sportsref"
	"github.com/riskibarqy/hoops-hub/internal/config"
	"github.com/riskibarqy/hoops-hub/internal/domain/athlete"
	"github.com/riskibarqy/hoops-hub/internal/infrastructure/repository/memory"
	redismirror "github.com/riskibarqy/hoops-hub/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/hoops-hub/internal/interfaces/httpapi"
	"github.com/riskibarqy/hoops-hub/internal/platform/cache"
	"github.com/riskibarqy/hoops-hub/internal/platform/fetcher"
	idgen "github.com/riskibarqy/hoops-hub/internal/platform/id"
	"github.com/riskibarqy/hoops-hub/internal/platform/logging"
	"github.com/riskibarqy/hoops-hub/internal/platform/resilience"
	"github.com/riskibarqy/hoops-hub/internal/usecase"
)

const redisPingTimeout = 3 * time.Second

// App owns the HTTP server and the background refresh pipeline.
type App struct {
	Server       *http.Server
	orchestrator *usecase.RefreshOrchestrator
	redis        *goredis.Client
	logger       *logging.Logger
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	relays := fetcher.DefaultRelays()
	if len(cfg.FetchRelays) > 0 {
		parsed, err := fetcher.ParseRelays(cfg.FetchRelays)
		if err != nil {
			return nil, fmt.Errorf("parse FETCH_RELAYS: %w", err)
		}
		relays = parsed
	}
	fetch := fetcher.New(fetcher.Config{
		Relays:       relays,
		MaxBodyBytes: cfg.FetchMaxBodyBytes,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FetchCircuitEnabled,
			FailureThreshold: cfg.FetchCircuitFailureCount,
			OpenTimeout:      cfg.FetchCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FetchCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	espnClient := espn.NewClient(espn.ClientConfig{
		Fetcher:           fetch,
		SiteBaseURL:       cfg.ESPNSiteBaseURL,
		CoreBaseURL:       cfg.ESPNCoreBaseURL,
		StandingsBaseURL:  cfg.ESPNStandingsBaseURL,
		TeamID:            cfg.ESPNTeamID,
		ConferenceGroupID: cfg.ESPNConferenceGroupID,
		Logger:            logger,
	})
	sportsrefClient := sportsref.NewClient(sportsref.ClientConfig{
		Fetcher:    fetch,
		BaseURL:    cfg.SportsRefBaseURL,
		SchoolSlug: cfg.SportsRefSchoolSlug,
		Logger:     logger,
	})

	seasonRepo := memory.NewSeasonRepository(cfg.CurrentSeason)
	liveRepo := memory.NewLiveRepository()

	var athleteCache *cache.Store[athlete.Athlete]
	if cfg.CacheEnabled {
		athleteCache = cache.NewStore[athlete.Athlete](cfg.CacheTTL)
	}

	out := &App{logger: logger.Named("app")}

	var mirror usecase.SnapshotMirror
	if cfg.RedisEnabled {
		out.redis = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		if err := out.redis.Ping(pingCtx).Err(); err != nil {
			out.logger.Warn("redis ping failed, mirror writes will be retried each run", "addr", cfg.RedisAddr, "error", err)
		}
		cancel()
		mirror = redismirror.NewSnapshotMirror(out.redis, redismirror.MirrorConfig{
			SeasonTTL: cfg.RedisSnapshotTTL,
			LiveTTL:   cfg.RedisSnapshotTTL,
		})
	}

	analyticsSvc := usecase.NewAnalyticsService(espnClient, usecase.AnalyticsConfig{
		Window:     cfg.AnalyticsWindow,
		MaxWorkers: cfg.AnalyticsMaxWorkers,
	}, logger)
	syncSvc := usecase.NewSeasonSyncService(
		espnClient,
		sportsrefClient,
		espnClient,
		espnClient,
		analyticsSvc,
		seasonRepo,
		mirror,
		athleteCache,
		idgen.NewUUIDGenerator(),
		usecase.SeasonSyncConfig{
			CurrentSeason:         cfg.CurrentSeason,
			AthleteBatchSize:      cfg.SyncAthleteBatchSize,
			SparseRosterThreshold: cfg.SyncSparseRosterThreshold,
			StageTimeout:          cfg.SyncStageTimeout,
		},
		logger,
	)
	liveSvc := usecase.NewLiveService(espnClient, liveRepo, mirror, usecase.LiveConfig{Interval: cfg.LiveInterval}, logger)
	out.orchestrator = usecase.NewRefreshOrchestrator(syncSvc, liveSvc, seasonRepo, usecase.RefreshConfig{
		Interval: cfg.RefreshInterval,
		Seasons:  cfg.Seasons,
	}, logger)

	queries := usecase.NewSeasonQueryService(seasonRepo, liveRepo, cfg.Seasons)
	handler := httpapi.NewHandler(queries, out.orchestrator, fetch, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	out.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return out, nil
}

// Start kicks off the refresh pipeline. The first run happens immediately.
func (a *App) Start(ctx context.Context) {
	if !a.orchestrator.Start(ctx) {
		a.logger.WarnContext(ctx, "refresh pipeline already running")
	}
}

// Shutdown stops the HTTP server first so no request observes a stopped
// pipeline, then the pipeline and the redis client.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error
	if err := a.Server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}
	a.orchestrator.Stop()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close redis client: %w", err)
		}
	}
	return firstErr
}
