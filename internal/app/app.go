package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/refbook/refbook/internal/config"
	"github.com/refbook/refbook/internal/domain/assignment"
	"github.com/refbook/refbook/internal/domain/club"
	"github.com/refbook/refbook/internal/domain/match"
	"github.com/refbook/refbook/internal/domain/postulation"
	"github.com/refbook/refbook/internal/infrastructure/account/gatekeeper"
	cacherepo "github.com/refbook/refbook/internal/infrastructure/repository/cache"
	"github.com/refbook/refbook/internal/infrastructure/repository/memory"
	"github.com/refbook/refbook/internal/infrastructure/repository/postgres"
	"github.com/refbook/refbook/internal/interfaces/httpapi"
	basecache "github.com/refbook/refbook/internal/platform/cache"
	idgen "github.com/refbook/refbook/internal/platform/id"
	"github.com/refbook/refbook/internal/platform/logging"
	"github.com/refbook/refbook/internal/platform/resilience"
	"github.com/refbook/refbook/internal/usecase"
)

type repositories struct {
	clubs        club.Repository
	matches      match.Repository
	postulations postulation.Repository
	assignments  assignment.Repository
	db           *sqlx.DB
}

func (r repositories) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// NewHTTPServer wires repositories, services, and the HTTP router.
// The returned cleanup closes the database pool when one was opened.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	idGen := idgen.NewRandomGenerator()

	clubSvc := usecase.NewClubService(repos.clubs, logger)
	matchSvc := usecase.NewMatchService(repos.clubs, repos.matches, idGen, logger)
	postulationSvc := usecase.NewPostulationService(repos.clubs, repos.matches, repos.postulations, repos.assignments, idGen, logger)
	assignmentSvc := usecase.NewAssignmentService(repos.matches, repos.assignments, idGen, logger)
	overviewSvc := usecase.NewOverviewService(repos.matches, repos.postulations, repos.assignments, cfg.OverviewMaxWorkers, logger)

	gatekeeperClient := gatekeeper.NewClient(
		&http.Client{Timeout: cfg.GatekeeperTimeout},
		gatekeeper.Config{
			BaseURL:        cfg.GatekeeperBaseURL,
			IntrospectPath: cfg.GatekeeperIntrospectPath,
			TokenCacheTTL:  cfg.GatekeeperTokenCacheTTL,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.GatekeeperCircuitEnabled,
				FailureThreshold: cfg.GatekeeperCircuitFailureCount,
				OpenTimeout:      cfg.GatekeeperCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.GatekeeperCircuitHalfOpenMaxReq,
			},
		},
		logger,
	)

	handler := httpapi.NewHandler(clubSvc, matchSvc, postulationSvc, assignmentSvc, overviewSvc, logger)
	router := httpapi.NewRouter(handler, gatekeeperClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = repos.Close()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, repos.Close, nil
}

func buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("no DB_URL configured, using in-memory repositories")
		return repositories{
			clubs:        memory.NewClubRepository(memory.SeedClubs()),
			matches:      memory.NewMatchRepository(memory.SeedMatches()),
			postulations: memory.NewPostulationRepository(),
			assignments:  memory.NewAssignmentRepository(),
		}, nil
	}

	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
	}

	repos := repositories{
		clubs:        postgres.NewClubRepository(db),
		matches:      postgres.NewMatchRepository(db),
		postulations: postgres.NewPostulationRepository(db),
		assignments:  postgres.NewAssignmentRepository(db),
		db:           db,
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.clubs = cacherepo.NewClubRepository(repos.clubs, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
	}

	logger.Info("postgres repositories ready",
		"db_name", dbNameFromURL(dbURL),
		"cache_enabled", cfg.CacheEnabled,
	)

	return repos, nil
}
