// Package server provides the HTTP REST API for the résumé builder.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/cv-builder/internal/config"
	"github.com/jonathan/cv-builder/internal/db"
	"github.com/jonathan/cv-builder/internal/docstore"
	"github.com/jonathan/cv-builder/internal/inflight"
	"github.com/jonathan/cv-builder/internal/rendering"
	"github.com/jonathan/cv-builder/internal/resumes"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/server/middleware"
	"github.com/jonathan/cv-builder/internal/server/ratelimit"
	"github.com/redis/go-redis/v9"
)

// guardPrefix namespaces delete claims in a shared Redis.
const guardPrefix = "cv-builder:inflight:"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	db          *db.DB
	redis       *redis.Client
	storage     string
	resumes     *resumes.Store
	guard       inflight.Guard
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	export      Config
}

// Config holds server configuration
type Config struct {
	Port          int
	DatabaseURL   string // in-memory storage when empty
	RedisURL      string // process-local delete guard when empty
	Locale        string // default export locale
	ChromePath    string
	PDFEngine     rendering.PDFEngine
	LaTeXTemplate string
	Verbose       bool
}

// Deps are the collaborators of a Server. Zero fields get in-memory defaults.
type Deps struct {
	Backend   docstore.Backend
	Users     UserStore
	Guard     inflight.Guard
	JWT       *config.JWTConfig
	Password  *config.PasswordConfig
	RateLimit *ratelimit.Config
}

// New creates a server wired from cfg and the environment: PostgreSQL when
// DatabaseURL is set, Redis when RedisURL is set, JWT and bcrypt settings
// from JWT_* and BCRYPT_COST/PASSWORD_PEPPER.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()
	var deps Deps

	var err error
	if deps.Password, err = config.NewPasswordConfig(); err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	if deps.JWT, err = config.NewJWTConfig(); err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	deps.RateLimit = ratelimit.LoadConfig()

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, fmt.Errorf("failed to prepare database: %w", err)
		}
		deps.Backend = database
		deps.Users = database
	} else {
		log.Printf("[server] DATABASE_URL not set, using in-memory storage")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = inflight.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			if database != nil {
				database.Close()
			}
			return nil, err
		}
		deps.Guard = inflight.NewRedis(rdb, guardPrefix, inflight.DefaultTTL)
	}

	s, err := NewWithDeps(cfg, deps)
	if err != nil {
		return nil, err
	}
	s.db = database
	s.redis = rdb
	return s, nil
}

// NewWithDeps creates a server over explicit collaborators. JWT is required.
func NewWithDeps(cfg Config, deps Deps) (*Server, error) {
	if deps.JWT == nil {
		return nil, fmt.Errorf("JWT config is required")
	}
	if deps.Password == nil {
		deps.Password = &config.PasswordConfig{BcryptCost: config.DefaultBcryptCost}
	}

	s := &Server{export: cfg, storage: "memory"}
	if deps.Backend == nil {
		deps.Backend = docstore.NewMemory()
	}
	if _, ok := deps.Backend.(*db.DB); ok {
		s.storage = "postgres"
	}
	if deps.Users == nil {
		deps.Users = NewMemoryUsers()
	}
	if deps.Guard == nil {
		deps.Guard = inflight.NewMemory()
	}

	s.resumes = resumes.NewStore(deps.Backend)
	s.guard = deps.Guard
	s.rateLimiter = ratelimit.NewLimiter(deps.RateLimit)
	s.userService = NewUserService(deps.Users, deps.Password)
	s.jwtService = NewJWTService(deps.JWT)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("PUT /auth/password", protected(s.handleUpdatePassword))

	mux.Handle("GET /resumes", protected(s.handleListResumes))
	mux.Handle("POST /resumes", protected(s.handleCreateResume))
	mux.Handle("GET /resumes/{id}", protected(s.handleGetResume))
	mux.Handle("PATCH /resumes/{id}", protected(s.handleUpdateResume))
	mux.Handle("DELETE /resumes/{id}", protected(s.handleDeleteResume))
	mux.Handle("POST /resumes/{id}/duplicate", protected(s.handleDuplicateResume))
	mux.Handle("GET /resumes/{id}/export", protected(s.handleExportResume))

	mux.Handle("POST /render", protected(s.handleRender))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))

	port := cfg.Port
	if port == 0 {
		port = config.DefaultPort
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // PDF export runs headless Chrome
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] starting on %s (storage: %s)", s.httpServer.Addr, s.storage)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("[server] shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.Close()
	log.Println("[server] stopped")
	return nil
}

// Close releases the rate limiter, database pool and Redis client.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("[server] failed to close redis: %v", err)
		}
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects clients over their budget with 429
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d %s in %v", r.Method, r.URL.Path, rec.status, r.RemoteAddr, time.Since(start))
	})
}

// handleHealth reports liveness and, with PostgreSQL, database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			log.Printf("[server] health check failed: %v", err)
			jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "storage": s.storage})
			return
		}
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok", "storage": s.storage})
}

// handleUpdatePassword changes the caller's password.
func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.authHandler.UpdatePassword(w, r, userID)
}

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("[server] error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func errorResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// failure maps err to its status code and writes it as an error response.
// Schema violations are reported on one line.
func failure(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	message := err.Error()

	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		message = "validation error: " + schemaErr.Summary()
	}
	if status >= http.StatusInternalServerError {
		log.Printf("[server] request failed: %v", err)
	}
	errorResponse(w, status, message)
}

// extractClientID returns the client IP from RemoteAddr. Forwarded headers
// are ignored since they can be spoofed without a trusted proxy.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := max(int(info.RetryAfter.Seconds()), 1)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	jsonResponse(w, http.StatusTooManyRequests, response)
}
