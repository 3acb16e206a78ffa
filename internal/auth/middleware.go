package auth

import (
	"net/http"
	"strings"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/fdg312/meal-planner/internal/userctx"
	"go.uber.org/zap"
)

// Middleware: middleware для проверки авторизации
type Middleware struct {
	config  *config.Config
	service *Service
	logger  *zap.Logger
}

func NewMiddleware(cfg *config.Config, service *Service, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		config:  cfg,
		service: service,
		logger:  logger,
	}
}

// RequireAuth: middleware для защиты эндпоинтов
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.AuthRequired || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authenticateHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth validates Bearer token only when it is provided.
// Without token, requests pass through unchanged.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if strings.TrimSpace(authHeader) == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authenticateHeader(authHeader)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		m.logger.Debug("auth token accepted",
			zap.String("sub", claims.UserID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// Wrap picks the mode configured by AUTH_MODE and AUTH_REQUIRED.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	switch {
	case m.config.AuthMode == config.AuthModeNone:
		return next
	case m.config.AuthRequired:
		return m.RequireAuth(next)
	default:
		return m.OptionalAuth(next)
	}
}

// RequireAdmin gates a single route to admins. With AUTH_MODE=none it is a no-op.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.config.AuthMode == config.AuthModeNone {
			next(w, r)
			return
		}

		if _, ok := userctx.GetUserID(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Token required")
			return
		}
		if !isAdminRole(userctx.GetRole(r.Context())) {
			writeError(w, http.StatusForbidden, "forbidden", "Access denied. Admins only.")
			return
		}

		next(w, r)
	}
}

func (m *Middleware) authenticateHeader(authHeader string) (*Claims, error) {
	if authHeader == "" {
		return nil, ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, ErrInvalidToken
	}

	return m.service.VerifyJWT(parts[1])
}

func isPublicPath(path string) bool {
	return path == "/healthz" || strings.HasPrefix(path, "/v1/auth/")
}
