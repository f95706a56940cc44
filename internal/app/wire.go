package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/clubsure/platform/internal/auth"
	"github.com/clubsure/platform/internal/guard"
	"github.com/clubsure/platform/internal/handler"
	"github.com/clubsure/platform/internal/infra"
	"github.com/clubsure/platform/internal/lifecycle"
	"github.com/clubsure/platform/internal/notify"
	"github.com/clubsure/platform/internal/repository"
	"github.com/clubsure/platform/internal/scheduler"
	"github.com/clubsure/platform/internal/storage"
	"github.com/clubsure/platform/internal/verification"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps holds the external dependencies needed to assemble the application.
type Deps struct {
	Pool     *pgxpool.Pool
	Store    storage.Backend
	Notifier notify.Notifier
	JWTMgr   *auth.JWTManager
	Config   *infra.Config
	Logger   *slog.Logger
}

// App bundles the assembled HTTP router and reminder worker.
type App struct {
	Router chi.Router
	Worker *scheduler.Worker
}

// New wires repositories, services, the lifecycle engine and the HTTP
// routes together.
func New(deps Deps) *App {
	pool := deps.Pool
	cfg := deps.Config
	logger := deps.Logger

	var db repository.DB = pool
	docRepo := repository.NewDocumentRepository()
	clubRepo := repository.NewClubRepository()
	reminderRepo := repository.NewReminderRepository()

	verifier := verification.NewService(db, clubRepo, docRepo, verification.DefaultPolicy(), logger)

	store := storage.WithBreaker(deps.Store, guard.NewCircuitBreaker(5, 30*time.Second))

	engineCfg := lifecycle.DefaultConfig()
	engineCfg.MaxFileSizeBytes = cfg.MaxFileSizeBytes
	engineCfg.StorageTimeout = cfg.StorageTimeout
	engine := lifecycle.NewEngine(db, docRepo, clubRepo, store, verifier, deps.Notifier, engineCfg, logger)

	worker := scheduler.NewWorker(db, docRepo, clubRepo, reminderRepo, engine, deps.Notifier,
		cfg.ReminderThresholdDays, cfg.ReminderInterval, logger)

	activity := &activityRecorder{clubs: clubRepo, db: pool, logger: logger}
	uploadLimiter := guard.NewRateLimiter(30, time.Hour)

	documentHandler := handler.NewDocumentHandler(engine, cfg.MaxFileSizeBytes, cfg.SignedURLExpiry)
	clubHandler := handler.NewClubHandler(clubRepo, verifier, worker, pool)

	r := chi.NewRouter()

	// Global middleware (order matters)
	r.Use(handler.Recovery(logger))
	r.Use(handler.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(handler.CORS)
	r.Use(handler.JSONContentType)

	// Health (no auth)
	r.Get("/health", handler.HealthHandler(pool))

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(deps.JWTMgr, activity))

		r.Route("/clubs", func(r chi.Router) {
			r.Post("/", clubHandler.Register)
			r.Get("/{clubID}", clubHandler.Get)
			r.Get("/{clubID}/documents", documentHandler.List)
			r.With(handler.RateLimit(uploadLimiter)).Post("/{clubID}/documents", documentHandler.Upload)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Get("/{documentID}", documentHandler.Get)
			r.Get("/{documentID}/url", documentHandler.SignedURL)
			r.Delete("/{documentID}", documentHandler.Withdraw)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/documents/{documentID}/decision", documentHandler.Decide)
			r.Post("/clubs/{clubID}/recompute", clubHandler.Recompute)
			r.Post("/clubs/{clubID}/suspend", clubHandler.Suspend)
			r.Post("/clubs/{clubID}/unsuspend", clubHandler.Unsuspend)
			r.Put("/clubs/{clubID}/tier", clubHandler.SetTier)
			r.Post("/reminders/run", clubHandler.RunReminders)
		})
	})

	return &App{Router: r, Worker: worker}
}

// activityRecorder pings last_active_at for club owners off the request
// path. Errors are logged and dropped.
type activityRecorder struct {
	clubs  repository.ClubRepository
	db     repository.DBTX
	logger *slog.Logger
}

func (a *activityRecorder) RecordActivity(ctx context.Context, profileID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := a.clubs.TouchLastActive(ctx, a.db, profileID); err != nil {
			a.logger.Debug("touch last active", "profile_id", profileID, "error", err)
		}
	}()
}
