package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/bookforge/bookforge-api/internal/config"
	"github.com/bookforge/bookforge-api/internal/database/bunstore"
	"github.com/bookforge/bookforge-api/internal/domain/repository"
	"github.com/bookforge/bookforge-api/internal/infrastructure/llm"
	httpserver "github.com/bookforge/bookforge-api/internal/interface/http"
	"github.com/bookforge/bookforge-api/internal/usecase/generate"
)

type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	dbConn     *sql.DB
}

func New(cfg *config.Config) *Server {
	return &Server{
		cfg: cfg,
	}
}

func (s *Server) Run() error {
	ctx := context.Background()

	if err := s.cfg.Validate(); err != nil {
		return err
	}

	// ==========================================
	// Initialize Dependencies (Dependency Injection)
	// ==========================================

	var client repository.LLMClient
	if s.cfg.UseLocalLLM {
		log.Println("[System] 🏠 FORGE_USE_LOCAL_LLM is true. Using Local Ollama.")
		localClient := llm.NewLocalOllamaClient(s.cfg.OllamaHost, s.cfg.OllamaModel)
		log.Printf("[System] 📥 Ensuring local model '%s' is available...", s.cfg.OllamaModel)
		if err := localClient.PullModel(ctx, s.cfg.OllamaModel); err != nil {
			log.Printf("[Warning] 📥 Failed to pull model '%s': %v", s.cfg.OllamaModel, err)
		}
		client = localClient
	} else {
		geminiClient, err := llm.NewGeminiClient(ctx, s.cfg.GeminiAPIKey, s.cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer func() { _ = geminiClient.Close() }()
		client = geminiClient
	}
	log.Printf("[System] 🛤️  LLM client initialized (%s)", client.Name())

	// Initialize the Record Store
	var err error
	s.dbConn, err = sql.Open(sqliteshim.ShimName, s.cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.dbConn.Close(); closeErr != nil {
			log.Printf("[Warning] Failed to close database: %v", closeErr)
		}
	}()

	store, err := bunstore.NewBunStore(s.dbConn, sqlitedialect.New())
	if err != nil {
		return err
	}

	// Generation usecase with bounded background jobs
	runner := generate.NewRunner(s.cfg.MaxConcurrentGenerations, s.cfg.GenerationTimeout)
	generator := generate.NewService(store, client, runner)

	// ==========================================
	// Initialize and Start HTTP Server
	// ==========================================

	apiServer := httpserver.NewServer(generator, store)
	handler := apiServer.RegisterRoutes()

	s.httpServer = &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: handler,
	}

	// Listen for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("[System] 🌐 Starting REST API Server on %s", s.cfg.ListenAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Error] HTTP server failed: %v", err)
		}
	}()

	<-stop
	log.Println("[System] 🛑 Shutdown signal received. Draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Error] HTTP shutdown error: %v", err)
	}

	// Let in-flight generations finish writing their terminal state.
	generator.Wait()

	log.Println("[System] ✅ Server stopped gracefully.")
	return nil
}
