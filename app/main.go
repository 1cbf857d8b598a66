package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ovasilenko/reelcraft/app/api"
	"github.com/ovasilenko/reelcraft/app/cfg"
	"github.com/ovasilenko/reelcraft/app/database"
	"github.com/ovasilenko/reelcraft/app/pipeline"
	"github.com/ovasilenko/reelcraft/app/probe"
	"github.com/ovasilenko/reelcraft/app/sources"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	appConfig, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting ReelCraft server", "version", appConfig.Version)

	// Database connection
	db, err := database.NewConnection(appConfig.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	slog.Info("Database ready", "path", appConfig.DBPath, "migration_version", version, "dirty", dirty)

	// Shared client for all outbound provider calls; the timeout is the
	// only cancellation mechanism beyond the request context.
	httpClient := &http.Client{Timeout: appConfig.RequestTimeout}

	// Source adapters. Credentials come from configuration once at start;
	// an empty key leaves that source disabled.
	newsSources := []sources.ArticleSource{
		sources.NewNewsAPISource(httpClient, appConfig.NewsAPIKey),
		sources.NewGNewsSource(httpClient, appConfig.GNewsKey),
		sources.NewNewsDataSource(httpClient, appConfig.NewsDataKey),
		sources.NewGoogleNewsSource(httpClient, appConfig.UserAgent),
	}

	pexels := sources.NewPexelsSource(httpClient, appConfig.PexelsKey)
	pixabay := sources.NewPixabaySource(httpClient, appConfig.PixabayKey)
	imageSources := []sources.ImageSource{pexels, pixabay}
	videoSources := []sources.VideoSource{pexels, pixabay}

	// Repositories
	userRepo := database.NewUserRepository(db)
	credentialRepo := database.NewCredentialRepository(db)
	generationRepo := database.NewGenerationRepository(db)

	// Credential probes
	registry, err := probe.LoadRegistry()
	if err != nil {
		log.Fatal("Failed to load probe registry:", err)
	}
	tester := probe.NewTester(httpClient, registry)

	// Pipeline factory: collaborators are built per request from the
	// caller's stored provider keys.
	generate := func(ctx context.Context, req pipeline.Request, creds map[string]string, userID string) (*pipeline.Outcome, error) {
		orchestrator := &pipeline.Orchestrator{
			Script:       pipeline.NewGeminiScriptWriter(creds["gemini"]),
			Voice:        pipeline.NewOpenAIVoice(creds["openai"]),
			Footage:      pipeline.NewPexelsFootage(httpClient, creds["pexels"]),
			Images:       pipeline.NewHuggingFaceImages(httpClient, creds["huggingface"]),
			Publisher:    pipeline.NewStoragePublisher(httpClient, appConfig.StorageURL, appConfig.StorageKey, appConfig.StorageBucket),
			Research:     pipeline.NewNewsResearcher(httpClient, newsSources),
			Generations:  generationRepo,
			UserID:       userID,
			FootageLimit: 3,
			ImageLimit:   3,
		}
		return orchestrator.Run(ctx, req)
	}

	// HTTP server
	apiHandler := api.NewHandler(newsSources, imageSources, videoSources,
		userRepo, credentialRepo, tester, generate, appConfig.MaxArticles)
	server := api.NewServer(apiHandler)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // pipeline runs synchronously within the request
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	slog.Info("ReelCraft server shutdown complete")
}
