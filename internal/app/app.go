package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/prediction-cup/internal/config"
	"github.com/riskibarqy/prediction-cup/internal/domain/cup"
	"github.com/riskibarqy/prediction-cup/internal/domain/prediction"
	"github.com/riskibarqy/prediction-cup/internal/domain/season"
	"github.com/riskibarqy/prediction-cup/internal/infrastructure/notification"
	repocache "github.com/riskibarqy/prediction-cup/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/prediction-cup/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-cup/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/prediction-cup/internal/interfaces/httpapi"
	"github.com/riskibarqy/prediction-cup/internal/platform/cache"
	"github.com/riskibarqy/prediction-cup/internal/platform/logging"
	"github.com/riskibarqy/prediction-cup/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type repositories struct {
	seasons     season.Repository
	predictions prediction.Repository
	points      cup.Repository
	close       func() error
}

// NewHTTPServer builds the API server and returns a cleanup func that releases storage.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		_ = repos.close()
		return nil, nil, err
	}

	standingsCfg := usecase.StandingsServiceConfig{
		WinnerCount:       cfg.Cup.WinnerCount,
		WinnerScanWorkers: cfg.Cup.WinnerScanWorkers,
	}
	reads := newReadRepositories(cfg, repos)

	storage := usecase.NewCupPointsStorage(reads.pointWriter, cfg.Cup.IntegritySampleSize, logger)
	standingsSvc := usecase.NewCupStandingsService(repos.seasons, reads.pointWriter, standingsCfg, logger)
	standingsReads := standingsSvc
	if reads.cachedPoints != nil {
		standingsReads = usecase.NewCupStandingsService(reads.cachedSeasons, reads.cachedPoints, standingsCfg, logger)
	}

	handler := httpapi.NewHandler(
		usecase.NewCupActivationService(repos.seasons, logger),
		usecase.NewCupScoringService(repos.seasons, repos.predictions, storage, logger),
		usecase.NewCupCorrectionService(
			repos.seasons,
			repos.predictions,
			reads.pointWriter,
			storage,
			notifier,
			correctionConfig(cfg.Cup),
			logger,
		),
		standingsSvc,
		standingsReads,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return server, repos.close, nil
}

// readRepositories splits cup storage into a writer that reads fresh and a cached
// reader view. Both share one cache store, so every write clears what readers hold.
type readRepositories struct {
	pointWriter   cup.Repository
	cachedPoints  cup.Repository
	cachedSeasons season.Repository
}

func newReadRepositories(cfg config.Config, repos repositories) readRepositories {
	if !cfg.CacheEnabled {
		return readRepositories{pointWriter: repos.points}
	}
	readCache := cache.NewStore[any](cfg.CacheTTL)
	return readRepositories{
		pointWriter:   repocache.NewInvalidatingCupRepository(repos.points, readCache),
		cachedPoints:  repocache.NewCupRepository(repos.points, readCache),
		cachedSeasons: repocache.NewSeasonRepository(repos.seasons, readCache),
	}
}

func correctionConfig(cfg config.CupConfig) usecase.CorrectionServiceConfig {
	return usecase.CorrectionServiceConfig{
		Policy: cup.ConflictPolicy{
			RecencyWindow:         cfg.ConflictWindow,
			ManualReviewThreshold: cfg.ManualReviewThreshold,
		},
		Defaults: usecase.CorrectionOptions{
			EnableConflictResolution:         true,
			NotifyOnPointChanges:             cfg.NotifyOnPointChanges,
			RequireAdminApprovalForOverrides: cfg.RequireAdminApprovalForOverrides,
		},
		LateGraceMinutes:       cfg.LateGraceMinutes,
		LateCorrectionsEnabled: cfg.LateSubmissionCorrectionsEnabled,
	}
}

func newNotifier(cfg config.Config, logger *logging.Logger) (cup.Notifier, error) {
	if !cfg.Notify.WebhookEnabled {
		return notification.NewLogNotifier(logger), nil
	}
	notifier, err := notification.NewWebhookNotifier(notification.WebhookConfig{
		URL:            cfg.Notify.WebhookURL,
		Token:          cfg.Notify.WebhookToken,
		Timeout:        cfg.Notify.Timeout,
		CircuitBreaker: cfg.Notify.CircuitBreaker,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build webhook notifier: %w", err)
	}
	return notifier, nil
}

func newRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		data := memory.NewDataset()
		memory.SeedDemo(data, time.Now())
		logger.Info("storage ready", "driver", config.StorageMemory, "seeded", true)
		return repositories{
			seasons:     memory.NewSeasonRepository(data),
			predictions: memory.NewPredictionRepository(data),
			points:      memory.NewCupRepository(data),
			close:       func() error { return nil },
		}, nil
	case config.StoragePostgres:
		db, err := openDatabase(cfg)
		if err != nil {
			return repositories{}, err
		}
		logger.Info("storage ready",
			"driver", config.StoragePostgres,
			"db_name", dbNameFromURL(cfg.DBURL),
			"max_open_conns", cfg.DBMaxOpenConns,
		)
		return repositories{
			seasons:     postgres.NewSeasonRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			points:      postgres.NewCupRepository(db),
			close:       db.Close,
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
