package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaheer/resume-optimizer/internal/config"
	"github.com/shaheer/resume-optimizer/internal/githubrepos"
	"github.com/shaheer/resume-optimizer/internal/llm"
	"github.com/shaheer/resume-optimizer/internal/pipeline"
	"github.com/shaheer/resume-optimizer/internal/server/ratelimit"
)

// DefaultPort is used when no port is configured.
const DefaultPort = 8080

// generatorFactory builds a per-request generator so callers can override
// the model credential; tests inject deterministic stubs here.
type generatorFactory func(ctx context.Context, apiKey string) (pipeline.Generator, func() error, error)

// Server represents the HTTP server.
type Server struct {
	httpServer   *http.Server
	cfg          *config.Config
	github       *githubrepos.Client
	rateLimiter  *ratelimit.Limiter
	newGenerator generatorFactory
	pruneStop    chan struct{}
}

// New creates a new server instance.
func New(cfg *config.Config) *Server {
	s := &Server{
		cfg:         cfg,
		github:      githubrepos.NewClient(githubrepos.WithToken(cfg.GitHubToken)),
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		pruneStop:   make(chan struct{}),
	}
	s.newGenerator = s.geminiGenerator

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /optimize", s.handleOptimize)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.withCORS(mux),
	}

	return s
}

// geminiGenerator is the production generator factory.
func (s *Server) geminiGenerator(ctx context.Context, apiKey string) (pipeline.Generator, func() error, error) {
	llmCfg := &llm.Config{Model: s.cfg.Model}
	if s.cfg.TimeoutSeconds > 0 {
		llmCfg.Timeout = time.Duration(s.cfg.TimeoutSeconds) * time.Second
	}
	client, err := llm.NewGeminiClient(ctx, llmCfg, apiKey)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// Start runs the server until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go s.pruneLoop()

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

	close(s.pruneStop)
	log.Println("Server stopped")
	return nil
}

// pruneLoop periodically drops idle rate-limit buckets.
func (s *Server) pruneLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.rateLimiter.Prune(30 * time.Minute)
		case <-s.pruneStop:
			return
		}
	}
}

// withCORS adds CORS headers for the browser frontend.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractClientID extracts the client identifier used for rate limiting.
// For now this is the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
