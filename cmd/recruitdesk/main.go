// cmd/recruitdesk/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"recruitdesk/internal/aibridge"
	"recruitdesk/internal/common/aws"
	"recruitdesk/internal/common/config"
	"recruitdesk/internal/common/database"
	httpclient "recruitdesk/internal/common/http"
	"recruitdesk/internal/common/logger"
	"recruitdesk/internal/common/observability"
	"recruitdesk/internal/events"
	"recruitdesk/internal/formfill"
	"recruitdesk/internal/latency"
	"recruitdesk/internal/notify"
	"recruitdesk/internal/search"
	"recruitdesk/internal/store/cvstore"
	"recruitdesk/internal/store/jobstore"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting recruitdesk...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("recruitdesk")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Simulated latency ---
	var sim latency.Simulator
	if cfg.Latency.Enabled {
		sim = latency.NewUniform(config.GetDuration(cfg.Latency.MinMs), config.GetDuration(cfg.Latency.MaxMs))
		zapLog.Info("Latency simulation enabled",
			zap.Int("minMs", cfg.Latency.MinMs),
			zap.Int("maxMs", cfg.Latency.MaxMs),
		)
	} else {
		sim = latency.NewNoop()
	}

	// --- Event bus ---
	bus := events.NewBus(cfg.Events.BufferSize, log)
	defer bus.Close()

	// --- Snapshot backend selection ---
	var backend jobstore.Backend
	switch cfg.Storage.Backend {
	case "redis":
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Storage.Redis)
			if err != nil {
				return err
			}
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")

		backend = jobstore.NewRedisBackend(redisClient.Client, cfg.Storage.SnapshotKey)

	case "postgres":
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Storage.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		backend = jobstore.NewPostgresBackend(pg.DB, cfg.Storage.SnapshotKey)

	default:
		zapLog.Info("Using in-memory snapshot backend")
		backend = jobstore.NewMemoryBackend()
	}

	// --- Stores ---
	jobs := jobstore.New(backend, sim, log, bus)
	cvs := cvstore.New(sim, log, bus)

	// warm the snapshot so first-boot seeding happens before traffic
	if resp := jobs.List(ctx); resp.Success {
		zapLog.Info("Requisition snapshot loaded", zap.Int("jobs", len(resp.Data)))
	}

	// deleting a requisition drops its uploaded CVs
	deletedCh, cancelDeleted := bus.Subscribe(events.TopicJobDeleted)
	defer cancelDeleted()
	go func() {
		for evt := range deletedCh {
			if payload, ok := evt.Payload.(events.JobEvent); ok {
				cvs.DeleteForJob(context.Background(), payload.Job.ID)
			}
		}
	}()

	// --- AI fill-form bridge and its listener ---
	bridge := aibridge.NewClient(
		cfg.Extractor.BaseURL,
		cfg.Extractor.MarkConfidential,
		httpclient.NewClient(config.GetDuration(cfg.Extractor.Timeout)),
		log,
		bus,
	)

	applier := formfill.NewApplier(bus, log)
	defer applier.Close()

	// --- CV search index ---
	if cfg.Search.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Search.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
		}
		zapLog.Info("Elasticsearch connected successfully")

		cvIndex := search.NewCVIndex(esClient.Client, cfg.Search.Index, log)
		indexer := search.NewIndexer(cvIndex, bus, log)
		defer indexer.Close()
	}

	// --- Lifecycle notifications ---
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SES client init failed", zap.Error(err))
		}
		snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("SNS client init failed", zap.Error(err))
		}

		notifier := notify.NewNotifier(cfg.Notifications, sesClient, snsClient, bus, log)
		defer notifier.Close()
		zapLog.Info("Notifier started")
	}

	zapLog.Info("All components initialized",
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("search", cfg.Search.Enabled),
	)

	// --- Health/Metrics server ---
	go func() {
		http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/extract", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			var body struct {
				Prompt string `json:"prompt"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(bridge.Extract(r.Context(), body.Prompt))
		})
		http.HandleFunc("/draft", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(applier.Snapshot())
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := http.ListenAndServe(cfg.Metrics.Address, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping...")
	zapLog.Info("recruitdesk stopped gracefully")
}
