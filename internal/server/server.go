package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/config"
	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/generator"
	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/research"
	"github.com/jonathan/career-docs/internal/server/middleware"
	"github.com/jonathan/career-docs/internal/server/ratelimit"
	"github.com/jonathan/career-docs/internal/types"
)

// Store is the persistence surface the handlers need. *db.DB satisfies it.
type Store interface {
	UserStore
	GetUser(ctx context.Context, id uuid.UUID) (*db.UserRecord, error)
	SaveCV(ctx context.Context, userID uuid.UUID, cv *types.SourceCV) (uuid.UUID, error)
	GetCV(ctx context.Context, id uuid.UUID) (*db.CVRecord, error)
	ListCVs(ctx context.Context, userID uuid.UUID) ([]db.CVRecord, error)
	SaveGeneratedDocument(ctx context.Context, doc *db.GeneratedDocument) (uuid.UUID, error)
	GetGeneratedDocument(ctx context.Context, id uuid.UUID) (*db.GeneratedDocument, error)
	ListGeneratedDocuments(ctx context.Context, cvID uuid.UUID, kind db.GeneratedKind) ([]db.GeneratedDocument, error)
	SaveValidationAudit(ctx context.Context, cvID uuid.UUID, kind db.GeneratedKind, code types.Code, violations []types.Violation) error
}

// DocumentGenerator is the generation surface the handlers need.
// *generator.Generator satisfies it.
type DocumentGenerator interface {
	TailorCV(ctx context.Context, sourceCV *types.SourceCV, jobPosting string) types.Result[*generator.TailorOutcome]
	GenerateVPR(ctx context.Context, sourceCV *types.SourceCV, input generator.VPRInput) types.Result[*generator.VPROutcome]
	GenerateGapQuestions(ctx context.Context, sourceCV *types.SourceCV, jobPosting string) types.Result[[]types.GapQuestion]
}

// Researcher fetches company context for VPR generation. Wired to the research
// package in production; nil disables research.
type Researcher func(ctx context.Context, company string, urls []string) (string, error)

// Server is the HTTP server.
type Server struct {
	httpServer  *http.Server
	store       Store
	generator   DocumentGenerator
	researcher  Researcher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	closeDB     func()
}

// New creates a server from configuration: it connects to the database, builds
// the Gemini-backed generator, and wires the route table.
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	researcher := func(ctx context.Context, company string, urls []string) (string, error) {
		brief, err := research.ResearchCompany(ctx, company, urls, research.Options{
			UseBrowser: cfg.UseBrowser,
			Verbose:    cfg.Verbose,
		})
		if err != nil {
			return "", err
		}
		return brief.CombinedText(), nil
	}

	s := newServer(
		database,
		generator.New(llmClient, cfg.MaxRegenerations, cfg.Verbose),
		researcher,
		NewUserService(database, passwordConfig),
		NewJWTService(jwtConfig),
	)
	s.closeDB = database.Close
	s.httpServer.Addr = fmt.Sprintf(":%d", cfg.Port)
	return s, nil
}

// newServer wires the route table for the given dependencies. Tests use it
// directly with fakes.
func newServer(store Store, gen DocumentGenerator, researcher Researcher, userService *UserService, jwtService *JWTService) *Server {
	s := &Server{
		store:       store,
		generator:   gen,
		researcher:  researcher,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultLimits()),
		jwtService:  jwtService,
		userService: userService,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	authed := http.NewServeMux()
	authed.HandleFunc("POST /cvs", s.handleUploadCV)
	authed.HandleFunc("GET /cvs", s.handleListCVs)
	authed.HandleFunc("GET /cvs/{id}", s.handleGetCV)
	authed.HandleFunc("GET /cvs/{id}/baseline", s.handleGetBaseline)
	authed.HandleFunc("POST /cvs/{id}/tailor", s.handleTailor)
	authed.HandleFunc("POST /cvs/{id}/vpr", s.handleVPR)
	authed.HandleFunc("POST /cvs/{id}/gap-questions", s.handleGapQuestions)
	authed.HandleFunc("GET /cvs/{id}/documents", s.handleListDocuments)
	authed.HandleFunc("GET /documents/{id}", s.handleGetDocument)
	mux.Handle("/", middleware.Auth(jwtService.AsTokenValidator())(authed))

	s.httpServer = &http.Server{
		Handler:      s.withRateLimit(s.withLogging(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation calls are slow
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start listens for requests until SIGINT/SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	if s.closeDB != nil {
		s.closeDB()
	}
	log.Println("Server stopped")
	return nil
}

// Handler exposes the root handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withLogging adds request logging.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit enforces per-client endpoint budgets.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
		}
		if !allowed {
			s.errorResponse(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientID identifies a client by IP for rate limiting.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
