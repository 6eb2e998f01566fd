package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/10thfloor/NFractional-sub000/internal/config"
	"github.com/10thfloor/NFractional-sub000/internal/consumer"
	"github.com/10thfloor/NFractional-sub000/internal/observability"
	"github.com/10thfloor/NFractional-sub000/internal/projection"
	"github.com/10thfloor/NFractional-sub000/internal/storage"
	"github.com/10thfloor/NFractional-sub000/internal/storage/memory"
	"github.com/10thfloor/NFractional-sub000/internal/storage/migrations"
	pgstore "github.com/10thfloor/NFractional-sub000/internal/storage/postgres"
)

func main() {
	cfg := config.Default()

	// Parse flags; env-seeded values are the defaults
	natsURL := flag.String("nats-url", cfg.NATSURL, "NATS server URL")
	streamName := flag.String("stream", cfg.StreamName, "JetStream stream name")
	subjectRoot := flag.String("subject-root", cfg.SubjectRoot, "Subject root the stream binds (<root>.>)")
	network := flag.String("network", cfg.Network, "Chain network to consume (filters <root>.<network>.>)")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL")
	metricsAddr := flag.String("metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	batchSize := flag.Int("batch-size", cfg.BatchSize, "Messages per pull fetch")
	fetchWait := flag.Duration("fetch-wait", cfg.FetchWait, "Max wait per pull fetch")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[indexer] ", log.LstdFlags|log.Lshortfile)

	// Start metrics server if enabled
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("Starting metrics server on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("Metrics server error: %v", err)
			}
		}()
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Channel to signal main goroutine completion
	done := make(chan error, 1)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

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

	err := run(ctx, logger, runConfig{
		natsURL:     *natsURL,
		streamName:  *streamName,
		subjectRoot: *subjectRoot,
		network:     *network,
		postgresDSN: *postgresDSN,
		useMemory:   *useMemory,
		batchSize:   *batchSize,
		fetchWait:   *fetchWait,
		adminRetry:  cfg.AdminRetryDelay,
	})

	// Signal completion to shutdown handler
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Error: %v", err)
	}

	logger.Println("Shutdown complete")
}

type runConfig struct {
	natsURL     string
	streamName  string
	subjectRoot string
	network     string
	postgresDSN string
	useMemory   bool
	batchSize   int
	fetchWait   time.Duration
	adminRetry  time.Duration
}

// run wires storage, the projection pipeline, and the JetStream consumer,
// then consumes until the context is cancelled.
func run(ctx context.Context, logger *log.Logger, rc runConfig) error {
	if rc.network == "" {
		return fmt.Errorf("--network is required")
	}
	if !rc.useMemory && rc.postgresDSN == "" {
		return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	var store *storage.Store
	if rc.useMemory {
		logger.Println("Using in-memory storage")
		store = memory.NewStore()
	} else {
		pool, err := pgstore.NewPool(ctx, rc.postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		store = pgstore.NewStore(pool)
	}

	pipeline := projection.NewPipeline(store, logger)

	nc, js, err := consumer.Connect(rc.natsURL)
	if err != nil {
		return err
	}
	defer nc.Close()
	logger.Printf("Connected to NATS at %s", rc.natsURL)

	cons := consumer.New(js, pipeline, consumer.Options{
		StreamName:      rc.streamName,
		SubjectRoot:     rc.subjectRoot,
		Network:         rc.network,
		BatchSize:       rc.batchSize,
		FetchWait:       rc.fetchWait,
		AdminRetryDelay: rc.adminRetry,
		Logger:          logger,
	})

	if err := cons.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure stream/consumer: %w", err)
	}

	return cons.Run(ctx)
}
