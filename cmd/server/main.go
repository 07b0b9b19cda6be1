// Package main runs the PetPad launchpad service:
// - Scanner (scheduled): polls the feed for launch requests and deploys them
// - API (continuous): health, token list, launch history, stats, metrics
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"petpad-launchpad/internal/api"
	"petpad-launchpad/internal/clawnch"
	"petpad-launchpad/internal/deploy"
	"petpad-launchpad/internal/ledger"
	"petpad-launchpad/internal/moltbook"
	"petpad-launchpad/internal/parser"
	"petpad-launchpad/internal/pixelart"
	"petpad-launchpad/internal/scanner"
	"petpad-launchpad/internal/storage"
	"petpad-launchpad/internal/storage/memory"
	"petpad-launchpad/internal/storage/migrations"
	pgstore "petpad-launchpad/internal/storage/postgres"
	"petpad-launchpad/internal/upload"
)

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	apiKey := flag.String("api-key", os.Getenv("MOLTBOOK_API_KEY"), "Moltbook API key (scanner disabled when empty)")
	feedBaseURL := flag.String("feed-base-url", os.Getenv("MOLTBOOK_BASE_URL"), "Moltbook API base URL (default production)")
	submolt := flag.String("submolt", envOr("SUBMOLT", "petpad"), "Submolt to scan and announce in")
	uploadMethod := flag.String("upload-method", envOr("UPLOAD_METHOD", upload.MethodIili), "Image upload method (iili, imgur, self-hosted)")
	imgurClientID := flag.String("imgur-client-id", os.Getenv("IMGUR_CLIENT_ID"), "Imgur client ID (for imgur uploads)")
	selfHostedURL := flag.String("self-hosted-url", os.Getenv("SELF_HOSTED_URL"), "Public base URL for self-hosted uploads")
	uploadsDir := flag.String("uploads-dir", envOr("UPLOADS_DIR", "uploads"), "Directory for self-hosted uploads")
	launchEndpoint := flag.String("launch-endpoint", os.Getenv("CLAWNCH_ENDPOINT"), "Deployment service endpoint (default production)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (in-memory storage when empty)")
	scanInterval := flag.Duration("scan-interval", 1*time.Minute, "Feed scan interval")
	launchDelay := flag.Duration("launch-delay", scanner.DefaultLaunchDelay, "Pause after each launch attempt")
	batchSize := flag.Int("batch-size", scanner.DefaultBatchSize, "Posts fetched per scan cycle")
	addr := flag.String("addr", envOr("ADDR", ":3000"), "HTTP listen address")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	posts, launches, cleanup, err := createStores(ctx, *postgresDSN, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	led := ledger.New(posts, launches)

	// Create scanner unless the feed credential is missing; the API still
	// serves read-only over whatever the ledger holds.
	var runner *scanner.Runner
	if *apiKey == "" {
		logger.Println("MOLTBOOK_API_KEY not set, scanner disabled (API only)")
	} else {
		runner, err = createRunner(led, runnerConfig{
			apiKey:         *apiKey,
			feedBaseURL:    *feedBaseURL,
			submolt:        *submolt,
			uploadMethod:   *uploadMethod,
			imgurClientID:  *imgurClientID,
			selfHostedURL:  *selfHostedURL,
			uploadsDir:     *uploadsDir,
			launchEndpoint: *launchEndpoint,
			launchDelay:    *launchDelay,
			batchSize:      *batchSize,
		})
		if err != nil {
			logger.Fatalf("Failed to create scanner: %v", err)
		}
	}

	// Build API server
	apiOpts := api.Options{
		Ledger:       led,
		UploadMethod: *uploadMethod,
		Logger:       log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lshortfile),
	}
	if runner != nil {
		apiOpts.Status = runner
	}
	if *uploadMethod == upload.MethodSelfHosted {
		apiOpts.UploadsDir = *uploadsDir
	}
	apiServer := api.NewServer(apiOpts)

	httpServer := &http.Server{Addr: *addr, Handler: apiServer.Handler()}

	// Channel to signal completion
	done := make(chan struct{})

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Start scanner scheduler in background
	if runner != nil {
		go runScheduler(ctx, runner, *scanInterval, logger)
	}

	// Run HTTP server in foreground
	logger.Printf("Starting HTTP server on %s", *addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	close(done)
	logger.Println("Shutdown complete")
}

// createStores selects PostgreSQL or in-memory storage.
func createStores(ctx context.Context, postgresDSN string, logger *log.Logger) (storage.ProcessedPostStore, storage.LaunchStore, func(), error) {
	if postgresDSN == "" {
		logger.Println("Using in-memory storage (set POSTGRES_DSN to persist launches)")
		return memory.NewProcessedPostStore(), memory.NewLaunchStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	logger.Println("Using PostgreSQL storage")
	return pgstore.NewProcessedPostStore(pool), pgstore.NewLaunchStore(pool), pool.Close, nil
}

// runnerConfig carries the scanner wiring knobs from flags.
type runnerConfig struct {
	apiKey         string
	feedBaseURL    string
	submolt        string
	uploadMethod   string
	imgurClientID  string
	selfHostedURL  string
	uploadsDir     string
	launchEndpoint string
	launchDelay    time.Duration
	batchSize      int
}

// createRunner wires the full scan-parse-launch pipeline.
func createRunner(led *ledger.Ledger, cfg runnerConfig) (*scanner.Runner, error) {
	var feedOpts []moltbook.ClientOption
	if cfg.feedBaseURL != "" {
		feedOpts = append(feedOpts, moltbook.WithBaseURL(cfg.feedBaseURL))
	}
	feed := moltbook.NewClient(cfg.apiKey, feedOpts...)

	primary, err := upload.ForMethod(cfg.uploadMethod, cfg.imgurClientID, cfg.selfHostedURL, cfg.uploadsDir)
	if err != nil {
		return nil, err
	}
	publisher := upload.NewPublisher(primary, upload.NewIili(),
		log.New(os.Stdout, "[upload] ", log.LstdFlags|log.Lshortfile))

	var launchOpts []clawnch.ClientOption
	if cfg.launchEndpoint != "" {
		launchOpts = append(launchOpts, clawnch.WithEndpoint(cfg.launchEndpoint))
	}
	launcher := clawnch.NewClient(launchOpts...)

	deployer, err := deploy.NewDeployer(deploy.Options{
		Feed:       feed,
		Launcher:   launcher,
		Submolt:    cfg.submolt,
		Credential: cfg.apiKey,
		Logger:     log.New(os.Stdout, "[deploy] ", log.LstdFlags|log.Lshortfile),
	})
	if err != nil {
		return nil, err
	}

	return scanner.NewRunner(scanner.RunnerOptions{
		Feed:        feed,
		Ledger:      led,
		Parser:      parser.New(),
		Render:      pixelart.Render,
		Publisher:   publisher,
		Deployer:    deployer,
		Submolt:     cfg.submolt,
		BatchSize:   cfg.batchSize,
		LaunchDelay: cfg.launchDelay,
		Logger:      log.New(os.Stdout, "[scanner] ", log.LstdFlags|log.Lshortfile),
	})
}

// runScheduler runs an eager first scan, then one per interval. Overlapping
// ticks are dropped by the runner itself.
func runScheduler(ctx context.Context, runner *scanner.Runner, interval time.Duration, logger *log.Logger) {
	logger.Printf("Starting scanner (interval: %v)...", interval)

	if err := runner.Scan(ctx); err != nil && err != context.Canceled {
		logger.Printf("Scan error: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := runner.Scan(ctx); err != nil && err != context.Canceled {
				logger.Printf("Scan error: %v", err)
			}
		}
	}
}

// envOr returns the env var value or a default when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
