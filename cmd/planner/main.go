package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/overlap-planner/internal/application"
	"github.com/example/overlap-planner/internal/config"
	httptransport "github.com/example/overlap-planner/internal/http"
	"github.com/example/overlap-planner/internal/persistence"
	"github.com/example/overlap-planner/internal/persistence/sqlite"
	"github.com/example/overlap-planner/internal/roster"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	adminHash, err := application.CreatePasswordHash(cfg.AdminPassword, application.DefaultArgon2idParams)
	if err != nil {
		logger.Error("failed to hash admin password", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := uuid.NewString
	now := time.Now

	rosterRepo := newRosterRepositoryAdapter(sqlite.NewRosterRepository(pool))
	sessionRepo := newSessionRepositoryAdapter(sqlite.NewSessionRepository(pool))

	admin := application.AdminCredentials{Email: cfg.AdminEmail, PasswordHash: adminHash}
	authService := application.NewAuthServiceWithLogger(admin, sessionRepo, nil, idGenerator, tokenGenerator, now, cfg.SessionTTL, logger)
	rosterService := application.NewRosterServiceWithLogger(rosterRepo, idGenerator, now, logger)
	planService := application.NewPlanServiceWithLogger(rosterRepo, now, logger)
	rosterService.AttachPlanCache(planService.Cache())

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:    authService,
		Rosters: rosterService,
		Plans:   planService,
		Logger:  logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("planner API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

type rosterRepositoryAdapter struct {
	repo *sqlite.RosterRepository
}

func newRosterRepositoryAdapter(repo *sqlite.RosterRepository) *rosterRepositoryAdapter {
	return &rosterRepositoryAdapter{repo: repo}
}

func (a *rosterRepositoryAdapter) CreateRoster(ctx context.Context, snapshot roster.Snapshot) (roster.Snapshot, error) {
	if err := a.repo.CreateRoster(ctx, toPersistenceRoster(snapshot)); err != nil {
		return roster.Snapshot{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetRoster(ctx, snapshot.ID)
	if err != nil {
		return roster.Snapshot{}, mapPersistenceError(err)
	}
	return toSnapshot(stored), nil
}

func (a *rosterRepositoryAdapter) GetRoster(ctx context.Context, id string) (roster.Snapshot, error) {
	stored, err := a.repo.GetRoster(ctx, id)
	if err != nil {
		return roster.Snapshot{}, mapPersistenceError(err)
	}
	return toSnapshot(stored), nil
}

func (a *rosterRepositoryAdapter) UpdateRoster(ctx context.Context, snapshot roster.Snapshot) (roster.Snapshot, error) {
	if err := a.repo.UpdateRoster(ctx, toPersistenceRoster(snapshot)); err != nil {
		return roster.Snapshot{}, mapPersistenceError(err)
	}
	stored, err := a.repo.GetRoster(ctx, snapshot.ID)
	if err != nil {
		return roster.Snapshot{}, mapPersistenceError(err)
	}
	return toSnapshot(stored), nil
}

func (a *rosterRepositoryAdapter) DeleteRoster(ctx context.Context, id string) error {
	return mapPersistenceError(a.repo.DeleteRoster(ctx, id))
}

func (a *rosterRepositoryAdapter) ListRosters(ctx context.Context) ([]roster.Snapshot, error) {
	models, err := a.repo.ListRosters(ctx)
	if err != nil {
		return nil, mapPersistenceError(err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	snapshots := make([]roster.Snapshot, 0, len(models))
	for _, model := range models {
		snapshots = append(snapshots, toSnapshot(model))
	}
	return snapshots, nil
}

type sessionRepositoryAdapter struct {
	repo *sqlite.SessionRepository
}

func newSessionRepositoryAdapter(repo *sqlite.SessionRepository) *sessionRepositoryAdapter {
	return &sessionRepositoryAdapter{repo: repo}
}

func (a *sessionRepositoryAdapter) CreateSession(ctx context.Context, session application.Session) (application.Session, error) {
	stored, err := a.repo.CreateSession(ctx, toPersistenceSession(session))
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) GetSession(ctx context.Context, token string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, token)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (application.Session, error) {
	stored, err := a.repo.RevokeSession(ctx, token, revokedAt)
	if err != nil {
		return application.Session{}, mapPersistenceError(err)
	}
	return toApplicationSession(stored), nil
}

func (a *sessionRepositoryAdapter) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	return mapPersistenceError(a.repo.DeleteExpiredSessions(ctx, reference))
}

func toPersistenceRoster(snapshot roster.Snapshot) persistence.Roster {
	return persistence.Roster{
		ID:          snapshot.ID,
		Name:        snapshot.Name,
		People:      snapshot.People,
		Constraints: snapshot.Constraints,
		CreatedAt:   snapshot.CreatedAt,
		UpdatedAt:   snapshot.UpdatedAt,
	}
}

func toSnapshot(model persistence.Roster) roster.Snapshot {
	return roster.Snapshot{
		ID:          model.ID,
		Name:        model.Name,
		People:      model.People,
		Constraints: model.Constraints,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceSession(session application.Session) persistence.Session {
	return persistence.Session{
		ID:        session.ID,
		Subject:   session.Subject,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
		RevokedAt: cloneTime(session.RevokedAt),
	}
}

func toApplicationSession(model persistence.Session) application.Session {
	return application.Session{
		ID:        model.ID,
		Subject:   model.Subject,
		Token:     model.Token,
		ExpiresAt: model.ExpiresAt,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
		RevokedAt: cloneTime(model.RevokedAt),
	}
}

func mapPersistenceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return application.ErrNotFound
	case errors.Is(err, persistence.ErrAlreadyExists):
		return application.ErrAlreadyExists
	default:
		return err
	}
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
