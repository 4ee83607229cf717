package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/job-board/internal/config"
	"github.com/jonathan/job-board/internal/events"
	"github.com/jonathan/job-board/internal/jobsearch"
	"github.com/jonathan/job-board/internal/server/middleware"
	"github.com/jonathan/job-board/internal/server/ratelimit"
	"github.com/jonathan/job-board/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	search      *jobsearch.Engine
	events      events.Publisher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
}

// Config holds server dependencies. Nil auth and rate limit configs are
// loaded from the environment; a nil Publisher logs events instead of
// publishing them.
type Config struct {
	App       *config.AppConfig
	Store     Store
	Publisher events.Publisher
	JWT       *config.JWTConfig
	Password  *config.PasswordConfig
	RateLimit *ratelimit.Config
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	app := cfg.App
	if app == nil {
		app = &config.AppConfig{}
		app.ApplyDefaults()
	}

	var err error
	if cfg.Password == nil {
		if cfg.Password, err = config.NewPasswordConfig(); err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
	}
	if cfg.JWT == nil {
		if cfg.JWT, err = config.NewJWTConfig(); err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.LogPublisher{}
	}

	s := &Server{
		store: cfg.Store,
		search: jobsearch.NewEngine(cfg.Store, jobsearch.Limits{
			DefaultPageSize: app.Search.DefaultPageSize,
			MaxPageSize:     app.Search.MaxPageSize,
		}),
		events:      cfg.Publisher,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		jwtService:  NewJWTService(cfg.JWT),
		userService: NewUserService(cfg.Store, cfg.Password),
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", app.Server.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  app.Server.ReadTimeout(),
		WriteTimeout: app.Server.WriteTimeout(),
		IdleTimeout:  app.Server.IdleTimeout(),
	}

	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	authed := func(h http.HandlerFunc) http.Handler { return auth(h) }
	role := func(r types.Role, h http.HandlerFunc) http.Handler {
		return auth(middleware.RequireRole(r)(h))
	}
	recruiter := func(h http.HandlerFunc) http.Handler { return role(types.RoleRecruiter, h) }
	candidate := func(h http.HandlerFunc) http.Handler { return role(types.RoleCandidate, h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Users
	mux.HandleFunc("POST /api/users/register", s.authHandler.Register)
	mux.HandleFunc("POST /api/users/login", s.authHandler.Login)
	mux.Handle("GET /api/users/profile", authed(s.authHandler.GetProfile))
	mux.Handle("PUT /api/users/profile", authed(s.authHandler.UpdateProfile))
	mux.Handle("PUT /api/users/password", authed(s.authHandler.UpdatePassword))

	// Jobs
	mux.HandleFunc("GET /api/jobs", s.handleSearchJobs)
	mux.HandleFunc("GET /api/jobs/highlighted", s.handleHighlightedJobs)
	mux.HandleFunc("GET /api/jobs/{id}", s.handleGetJob)
	mux.HandleFunc("GET /api/jobs/company/{companyId}", s.handleCompanyJobs)
	mux.Handle("GET /api/jobs/recruiter/myjobs", recruiter(s.handleMyJobs))
	mux.Handle("POST /api/jobs", recruiter(s.handleCreateJob))
	mux.Handle("PUT /api/jobs/{id}", recruiter(s.handleUpdateJob))
	mux.Handle("DELETE /api/jobs/{id}", recruiter(s.handleDeleteJob))

	// Companies
	mux.HandleFunc("GET /api/companies", s.handleListCompanies)
	mux.HandleFunc("GET /api/companies/top", s.handleTopCompanies)
	mux.HandleFunc("GET /api/companies/{id}", s.handleGetCompany)
	mux.Handle("GET /api/companies/recruiter/mycompanies", recruiter(s.handleMyCompanies))
	mux.Handle("POST /api/companies", recruiter(s.handleCreateCompany))
	mux.Handle("PUT /api/companies/{id}", recruiter(s.handleUpdateCompany))
	mux.Handle("POST /api/companies/{id}/reviews", authed(s.handleAddReview))

	// CVs
	mux.Handle("GET /api/cvs", candidate(s.handleListCVs))
	mux.Handle("GET /api/cvs/{id}", authed(s.handleGetCV))
	mux.Handle("POST /api/cvs", candidate(s.handleCreateCV))
	mux.Handle("PUT /api/cvs/{id}", authed(s.handleUpdateCV))
	mux.Handle("DELETE /api/cvs/{id}", authed(s.handleDeleteCV))

	// Applications
	mux.Handle("GET /api/applications", authed(s.handleListApplications))
	mux.Handle("GET /api/applications/{id}", authed(s.handleGetApplication))
	mux.Handle("GET /api/applications/job/{jobId}", recruiter(s.handleJobApplications))
	mux.Handle("POST /api/applications", candidate(s.handleCreateApplication))
	mux.Handle("PUT /api/applications/{id}", recruiter(s.handleUpdateApplication))
	mux.Handle("DELETE /api/applications/{id}", candidate(s.handleDeleteApplication))

	// Lookup lists
	mux.HandleFunc("GET /api/utils/{kind}", s.handleCatalog)

	return mux
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth reports whether the service and its database are reachable
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		log.Printf("[health] database unreachable: %v", err)
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// extractClientID extracts the client identifier from the request: the first
// X-Forwarded-For hop when the limiter trusts a proxy, else the remote IP.
func (s *Server) extractClientID(r *http.Request) string {
	if s.rateLimiter.TrustProxy() {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		// Round up so clients never retry a moment too early
		secs := int((info.RetryAfter + time.Second - 1) / time.Second)
		response["retry_after"] = secs
		w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	}

	log.Printf("[rate-limit] Rate limit exceeded: client=%s Limit=%d Remaining=%d",
		clientID, info.Limit, info.Remaining)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
