package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/config"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/crypto"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/handler"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/middleware"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/repository"
	"github.com/S0L1ST8/PasswordGeneratorComposite/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	var db *sql.DB
	if conn, err := repository.NewDB(cfg.DatabaseDSN); err != nil {
		slog.Warn("database unavailable, account and profile routes disabled", "error", err)
	} else if err := repository.Migrate(context.Background(), conn); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	} else {
		db = conn
		defer db.Close()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, db),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newRouter builds the API. Routes needing storage are only mounted when db
// is non-nil.
func newRouter(cfg config.Config, db *sql.DB) http.Handler {
	genService := service.NewGeneratorService(cfg.MaxPasswordLength)
	genHandler := handler.NewGeneratorHandler(genService)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.With(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)).
		Post("/api/v1/generate", genHandler.HandleGenerate)

	if db == nil {
		return r
	}

	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	authService := service.NewAuthService(repository.NewUserRepository(db), crypto.NewHasher(), tokens)
	authHandler := handler.NewAuthHandler(authService)

	profileService := service.NewProfileService(repository.NewProfileRepository(db), genService)
	profileHandler := handler.NewProfileHandler(profileService)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		r.Post("/api/v1/auth/register", authHandler.HandleRegister)
		r.Post("/api/v1/auth/login", authHandler.HandleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(tokens))
		r.Get("/api/v1/auth/me", authHandler.HandleMe)

		r.Get("/api/v1/profiles", profileHandler.HandleList)
		r.Post("/api/v1/profiles", profileHandler.HandleCreate)
		r.Put("/api/v1/profiles/{profile_id}", profileHandler.HandleUpdate)
		r.Delete("/api/v1/profiles/{profile_id}", profileHandler.HandleDelete)
		r.Post("/api/v1/profiles/{profile_id}/generate", profileHandler.HandleGenerate)
	})

	return r
}
