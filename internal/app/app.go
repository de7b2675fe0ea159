package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/brcoutinho/volleyscore/internal/config"
	"github.com/brcoutinho/volleyscore/internal/domain/scoreboard"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/async"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/file"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/memory"
	"github.com/brcoutinho/volleyscore/internal/infrastructure/repository/postgres"
	"github.com/brcoutinho/volleyscore/internal/interfaces/httpapi"
	"github.com/brcoutinho/volleyscore/internal/platform/clock"
	idgen "github.com/brcoutinho/volleyscore/internal/platform/id"
	"github.com/brcoutinho/volleyscore/internal/platform/logging"
	"github.com/brcoutinho/volleyscore/internal/usecase"
)

const tickInterval = time.Second

// App bundles the HTTP server with everything that must be torn down
// with it: the match timer, the async snapshot writer and the DB pool.
type App struct {
	Server *http.Server

	ticker *clock.Ticker
	writer *async.SnapshotWriter
	db     *sqlx.DB
	logger *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	application := &App{logger: logger}

	store, err := application.buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	service := usecase.NewScoreboardService(store, idgen.NewRandomGenerator(), cfg.DefaultMatchConfig, cfg.UndoDepth, logger)

	ticker := clock.NewTicker(tickInterval, service.Tick)
	service.SetTimer(ticker)
	application.ticker = ticker

	service.Restore(ctx)

	handler := httpapi.NewHandler(service, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}
	application.Server = server

	return application, nil
}

func (a *App) buildStore(cfg config.Config, logger *logging.Logger) (scoreboard.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		return memory.NewSnapshotRepository(), nil

	case config.StoreDriverFile:
		writer, err := async.NewSnapshotWriter(file.NewSnapshotRepository(cfg.StateFilePath), logger)
		if err != nil {
			return nil, fmt.Errorf("build file store: %w", err)
		}
		a.writer = writer
		return writer, nil

	case config.StoreDriverPostgres:
		dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
		db, err := otelsqlx.Connect("postgres", dsn,
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithDBName(dbNameFromURL(dsn)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.db = db

		writer, err := async.NewSnapshotWriter(postgres.NewSnapshotRepository(db), logger)
		if err != nil {
			return nil, fmt.Errorf("build postgres store: %w", err)
		}
		a.writer = writer
		return writer, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Shutdown stops the HTTP server, the match timer and flushes any
// pending snapshot write before closing the DB pool.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}

	if a.ticker != nil {
		a.ticker.Stop()
	}

	if a.writer != nil {
		if err := a.writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
