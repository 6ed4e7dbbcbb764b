package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/halcyonweb/backoffice/internal/cache"
	"github.com/halcyonweb/backoffice/internal/domain"
	"github.com/halcyonweb/backoffice/internal/http/handlers"
	hmw "github.com/halcyonweb/backoffice/internal/http/middleware"
	"github.com/halcyonweb/backoffice/internal/mailer"
	"github.com/halcyonweb/backoffice/internal/notify"
	"github.com/halcyonweb/backoffice/internal/repository"
	"github.com/halcyonweb/backoffice/internal/service"
	"github.com/halcyonweb/backoffice/pkg/config"
	"github.com/halcyonweb/backoffice/pkg/database"
	"github.com/halcyonweb/backoffice/pkg/events"
	"github.com/halcyonweb/backoffice/pkg/logger"
	mw "github.com/halcyonweb/backoffice/pkg/middleware"
)

func main() {
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus is optional; the site must run without a broker.
	var bus events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn("Failed to connect to NATS, continuing without event bus", "error", err)
		} else {
			bus = natsBus
			defer natsBus.Close()
		}
	}

	// Redis backs intake rate limiting and idempotent replay; also optional.
	var store *cache.Cache
	if cfg.Redis.Enabled {
		store, err = cache.New(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("Failed to connect to Redis, continuing without intake throttling", "error", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	subRepo := repository.NewSubmissionRepository(pool)

	// Mail and notification dispatch
	m := mailer.FromConfig(cfg.Mail)
	dispatcher := notify.NewDispatcher(m, cfg.Mail.AdminRecipients, cfg.Site.SiteName)

	// Initialize services
	authService := service.NewAuthService(userRepo, bus, cfg)
	intakeService := service.NewIntakeService(subRepo, dispatcher, bus)

	// Initialize handlers
	guard := hmw.NewGuard(cfg.Session, cfg.Site)
	h := handlers.New(authService, intakeService, guard, cfg)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("backoffice"))
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Site.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Auth flow; always reachable regardless of session state.
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.With(guard.RequireAPI("")).Get("/auth/me", h.Me)

	r.Route("/api", func(r chi.Router) {
		// Public form intake
		r.Group(func(r chi.Router) {
			// A typed nil *cache.Cache must not reach the interface, or
			// the middleware's nil check stops working.
			var limiter hmw.RateLimiter
			if store != nil {
				limiter = store
			}
			r.Use(hmw.IntakeRateLimit(limiter, 30, 10))
			if store != nil {
				r.Use(mw.Idempotency(store))
			}
			r.Post("/forms", h.SubmitForm)
		})

		// Admin API (require admin session)
		r.Route("/admin", func(r chi.Router) {
			r.Use(guard.RequireAPI(domain.RoleAdmin))
			r.Get("/submissions", h.ListSubmissions)
			r.Get("/submissions/{id}", h.GetSubmission)
			r.Patch("/submissions/{id}", h.UpdateSubmissionStatus)
			r.Get("/users", h.ListUsers)
		})
	})

	// Admin UI assets, built separately, served behind the page guard.
	adminUI := http.StripPrefix("/admin", http.FileServer(http.Dir(cfg.Site.AdminUIDir)))
	r.With(guard.RequirePage(domain.RoleAdmin)).Handle("/admin", adminUI)
	r.With(guard.RequirePage(domain.RoleAdmin)).Handle("/admin/*", adminUI)

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown. ListenAndServe unblocks as soon as Shutdown is
	// initiated, so main must wait on this goroutine before the deferred
	// pool/broker closes run; otherwise in-flight notification sends race
	// process exit.
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}

		// Drain in-flight notification sends before exiting.
		dispatcher.Wait()
	}()

	logger.Info("Starting backoffice service", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	<-done
}
