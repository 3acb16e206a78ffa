package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fdg312/meal-planner/internal/ai"
	"github.com/fdg312/meal-planner/internal/auth"
	"github.com/fdg312/meal-planner/internal/blob"
	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/exports"
	"github.com/fdg312/meal-planner/internal/mealplans"
	"github.com/fdg312/meal-planner/internal/meals"
	"github.com/fdg312/meal-planner/internal/profiles"
	"github.com/fdg312/meal-planner/internal/storage"
	"github.com/fdg312/meal-planner/internal/storage/memory"
	"github.com/fdg312/meal-planner/internal/storage/postgres"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	logger         *zap.Logger
	mux            *http.ServeMux
	storage        storage.Storage
	limiter        Limiter
	authMiddleware *auth.Middleware
}

// New собирает хранилище, сервисы и маршруты
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config: cfg,
		logger: logger,
		mux:    http.NewServeMux(),
	}

	if err := s.initStorage(ctx); err != nil {
		return nil, err
	}

	limiter, err := NewLimiter(ctx, cfg)
	if err != nil {
		s.storage.Close()
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	s.limiter = limiter

	if err := s.routes(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// initStorage выбирает Postgres или in-memory storage
func (s *Server) initStorage(ctx context.Context) error {
	if s.config.DatabaseURL == "" {
		s.logger.Info("using in-memory storage")
		mem := memory.New()
		n, err := meals.Seed(ctx, mem.Meals())
		if err != nil {
			return fmt.Errorf("seed meal catalog: %w", err)
		}
		s.logger.Info("meal catalog seeded", zap.Int("meals", n))
		s.storage = mem
		return nil
	}

	s.logger.Info("connecting to PostgreSQL")
	pg, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		if s.config.IsProduction() {
			return fmt.Errorf("postgres: %w", err)
		}
		s.logger.Warn("postgres unavailable, falling back to in-memory storage", zap.Error(err))
		s.config.DatabaseURL = ""
		return s.initStorage(ctx)
	}
	s.logger.Info("PostgreSQL connected")
	s.storage = pg
	return nil
}

func (s *Server) routes(ctx context.Context) error {
	authService := auth.NewService(s.config, s.storage.Users(), s.logger.Named("auth"))
	if err := authService.EnsureAdmin(ctx, s.config.AdminEmail, s.config.AdminPassword); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	s.authMiddleware = auth.NewMiddleware(s.config, authService, s.logger.Named("auth"))
	authHandlers := auth.NewHandlers(authService)

	completer := ai.NewCompleter(s.config)
	s.logger.Info("meal plan completer ready",
		zap.String("ai_mode", s.config.AIMode),
		zap.String("model", completer.Model()))

	planService := mealplans.NewService(
		s.storage.Profiles(),
		s.storage.Meals(),
		s.storage.MealPlans(),
		completer,
		time.Duration(s.config.AITimeoutSeconds)*time.Second,
		s.logger.Named("mealplans"),
	)
	planHandler := mealplans.NewHandler(planService)

	profileHandler := profiles.NewHandler(profiles.NewService(s.storage.Profiles(), s.logger.Named("profiles")))
	mealHandler := meals.NewHandler(meals.NewService(s.storage.Meals(), s.logger.Named("meals")))

	blobStore, blobMode, err := blob.NewBlobStore(ctx, s.config.Blob, s.logger.Named("blob"))
	if err != nil {
		return fmt.Errorf("blob store: %w", err)
	}
	s.logger.Info("plan exports", zap.String("blob_mode", blobMode))
	exportHandlers := exports.NewHandlers(exports.NewService(planService, blobStore, s.config.Blob.S3, s.logger.Named("exports")))

	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth
	s.mux.HandleFunc("POST /v1/auth/signup", authHandlers.HandleSignup)
	s.mux.HandleFunc("POST /v1/auth/login", authHandlers.HandleLogin)

	// Profiles
	s.mux.HandleFunc("POST /v1/profiles", profileHandler.HandleSave)
	s.mux.HandleFunc("GET /v1/profiles/{id}", profileHandler.HandleGet)

	// Meal catalog
	s.mux.HandleFunc("GET /v1/meals", mealHandler.HandleList)
	s.mux.HandleFunc("POST /v1/meals", s.authMiddleware.RequireAdmin(mealHandler.HandleCreate))
	s.mux.HandleFunc("DELETE /v1/meals/{id}", s.authMiddleware.RequireAdmin(mealHandler.HandleDelete))

	// Meal plans
	s.mux.HandleFunc("POST /generate-meal-plan", planHandler.HandleGenerate)
	s.mux.HandleFunc("POST /v1/meal-plans/generate", planHandler.HandleGenerate)
	s.mux.HandleFunc("GET /v1/meal-plans/basic", planHandler.HandleBasic)
	s.mux.HandleFunc("GET /v1/meal-plans", planHandler.HandleList)
	s.mux.HandleFunc("GET /v1/meal-plans/{id}", planHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/meal-plans/{id}/export", exportHandlers.HandleExport)

	return nil
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler returns the router wrapped in the middleware chain.
// Outermost first: Recovery → RequestLog → CORS → Rate Limit → Auth → Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.Wrap(handler)
	handler = RateLimitMiddleware(s.limiter, s.logger, handler)
	handler = CORSMiddleware(s.config, handler)
	handler = RequestLogMiddleware(s.logger.Named("http"), handler)
	handler = RecoveryMiddleware(s.logger, handler)
	return handler
}

// Start слушает порт до отмены ctx, затем даёт запросам завершиться
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("healthz", fmt.Sprintf("http://localhost%s/healthz", srv.Addr)))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close закрывает storage и rate limiter
func (s *Server) Close() error {
	var result *multierror.Error
	if s.limiter != nil {
		if err := s.limiter.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close rate limiter: %w", err))
		}
	}
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close storage: %w", err))
		}
	}
	return result.ErrorOrNil()
}
