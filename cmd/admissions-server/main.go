// cmd/admissions-server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"admissions-tracker/internal/admissions/alert"
	"admissions-tracker/internal/admissions/classifier"
	"admissions-tracker/internal/admissions/crm"
	"admissions-tracker/internal/admissions/mailer"
	"admissions-tracker/internal/admissions/normalizer"
	"admissions-tracker/internal/admissions/orchestrator"
	"admissions-tracker/internal/admissions/report"
	"admissions-tracker/internal/admissions/search"
	"admissions-tracker/internal/admissions/stage"
	"admissions-tracker/internal/admissions/store"
	"admissions-tracker/internal/admissions/tracker"
	awsclient "admissions-tracker/internal/common/aws"
	"admissions-tracker/internal/common/camunda"
	"admissions-tracker/internal/common/config"
	"admissions-tracker/internal/common/database"
	"admissions-tracker/internal/common/gemini"
	httpclient "admissions-tracker/internal/common/http"
	"admissions-tracker/internal/common/logger"
	"admissions-tracker/internal/common/observability"
	"admissions-tracker/internal/common/storage"
	"admissions-tracker/internal/common/zoho"
	"admissions-tracker/internal/webhook"
	processsubmission "admissions-tracker/internal/workers/admissions/process-submission"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// closers run in reverse order on shutdown.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)

	// run returns only after its closers have run, so exiting here cannot
	// skip them.
	if err := run(cfg, zapLog); err != nil {
		zapLog.Error("Admissions server failed", zap.Error(err))
		_ = zapLog.Sync()
		os.Exit(1)
	}
	_ = zapLog.Sync()
}

func run(cfg *config.Config, zapLog *zap.Logger) error {
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting admissions server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("store", cfg.Tracker.Store),
		zap.Strings("requiredForms", cfg.Tracker.RequiredForms),
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	var cleanup closers
	defer func() { cleanup.run() }()

	obs := observability.New(cfg.App.Name, log)
	cleanup.add(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			zapLog.Warn("Observability shutdown failed", zap.Error(err))
		}
	})

	readiness := map[string]webhook.Pinger{}

	// --- Application record store ---
	recordStore, err := buildStore(ctx, cfg, zapLog, &cleanup)
	if err != nil {
		return fmt.Errorf("store init failed: %w", err)
	}
	readiness["store"] = recordStore

	track := tracker.New(recordStore, cfg.Tracker.RequiredKinds(), log)

	deps := orchestrator.Deps{
		Normalizer: normalizer.New(),
		Tracker:    track,
		Selector:   stage.Selector{PreliminaryClassification: cfg.Tracker.PreliminaryClassification},
	}

	// --- Classifier ---
	generator, err := buildGenerator(ctx, cfg, &cleanup)
	if err != nil {
		return fmt.Errorf("classifier init failed: %w", err)
	}
	deps.Classifier = classifier.New(generator, config.GetDuration(cfg.Classifier.Timeout), log)

	// --- Report storage ---
	var docs report.DocumentStore
	if cfg.Storage.MinIO.Enabled {
		minioClient, err := storage.NewMinIOClient(storage.Config{
			Endpoint:  cfg.Storage.MinIO.Endpoint,
			AccessKey: cfg.Storage.MinIO.AccessKey,
			SecretKey: cfg.Storage.MinIO.SecretKey,
			Bucket:    cfg.Storage.MinIO.Bucket,
			UseSSL:    cfg.Storage.MinIO.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("minio init failed: %w", err)
		}
		err = retryWithBackoff(func() error {
			return minioClient.EnsureBucket(ctx)
		}, 5, 2*time.Second, zapLog, "MinIO bucket check")
		if err != nil {
			return fmt.Errorf("minio bucket unavailable: %w", err)
		}
		docs = minioClient
		zapLog.Info("Report storage ready", zap.String("bucket", minioClient.Bucket()))
	}
	deps.Reporter = report.New(docs, log)

	// --- Mail ---
	transport, err := buildTransport(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("mail transport init failed: %w", err)
	}
	deps.Mailer = mailer.New(mailer.Config{
		FromEmail: cfg.Mail.FromEmail,
		FromName:  cfg.Mail.FromName,
		Timeout:   config.GetDuration(cfg.Mail.Timeout),
	}, transport, log)

	// --- Optional hooks ---
	if cfg.Integrations.Zoho.Enabled {
		zohoClient := zoho.NewCRMClient(cfg.Integrations.Zoho.BaseURL, cfg.Integrations.Zoho.AuthToken,
			config.GetDuration(cfg.Integrations.Zoho.Timeout))
		deps.CRM = crm.NewSyncer(zohoClient, log)
		zapLog.Info("Zoho CRM sync enabled")
	}

	var searcher webhook.ApplicantSearcher
	if cfg.Database.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Elasticsearch initialization")
		if err != nil {
			return fmt.Errorf("elasticsearch init failed: %w", err)
		}
		index := search.NewIndex(esClient.Client, cfg.Database.Elasticsearch.Index)
		if err := index.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("elasticsearch index setup failed: %w", err)
		}
		deps.Search = index
		searcher = index
		readiness["elasticsearch"] = esClient
		zapLog.Info("Applicant search enabled", zap.String("index", cfg.Database.Elasticsearch.Index))
	}

	if cfg.Alerts.SNS.Enabled {
		snsClient, err := awsclient.NewSNSClient(ctx, awsOptions(cfg))
		if err != nil {
			return fmt.Errorf("sns init failed: %w", err)
		}
		deps.Alerts = alert.NewAlerter(snsClient, cfg.Alerts.SNS.TopicARN, log)
		zapLog.Info("Completion alerts enabled", zap.String("topic", cfg.Alerts.SNS.TopicARN))
	}

	orch := orchestrator.New(orchestrator.Config{
		AdmissionsRecipient: cfg.Mail.AdmissionsRecipient,
		DuplicateWarning:    cfg.Tracker.DuplicateWarning,
		ReportTimeout:       config.GetDuration(cfg.Report.Timeout),
		HookTimeout:         config.GetDuration(cfg.Hooks.Timeout),
	}, deps, log)

	// --- Zeebe worker ---
	var zeebeWorker *camunda.CamundaWorker
	if cfg.Camunda.Enabled {
		var zeebeClient *camunda.Client
		err = retryWithBackoff(func() error {
			var err error
			zeebeClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
		if err != nil {
			return fmt.Errorf("zeebe client init failed: %w", err)
		}
		cleanup.add(func() {
			if err := zeebeClient.Close(); err != nil {
				zapLog.Error("Error closing Zeebe client", zap.Error(err))
			}
		})
		readiness["zeebe"] = zeebeClient

		handler := processsubmission.NewHandler(&processsubmission.Config{
			Timeout: config.GetDuration(cfg.Camunda.Timeout),
		}, orch, log)
		zeebeWorker = camunda.NewWorker(zeebeClient.GetClient(), cfg.Camunda.JobType, cfg.Camunda.MaxJobsActive, handler, log)
	}

	// --- HTTP ---
	h := webhook.NewHandler(webhook.Deps{
		Service:    cfg.App.Name,
		Submitter:  orch,
		Applicants: track,
		Search:     searcher,
		Readiness:  readiness,
		Recorder:   obs,
	}, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      webhook.NewRouter(h),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serveErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining...")
	case err := <-serveErr:
		runErr = fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if zeebeWorker != nil {
		zeebeWorker.Stop()
	}

	if runErr == nil {
		zapLog.Info("Admissions server stopped gracefully")
	}
	return runErr
}

func buildStore(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, cleanup *closers) (store.Store, error) {
	switch cfg.Tracker.Store {
	case config.StorePostgres:
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			return nil
		}, 10, 2*time.Second, zapLog, "PostgreSQL initialization")
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { pg.Close() })
		if err := pg.EnsureSchema(ctx, store.PostgresSchema...); err != nil {
			return nil, err
		}
		zapLog.Info("PostgreSQL record store ready")
		return store.NewPostgresStore(pg.DB), nil

	case config.StoreRedis:
		var rc *database.RedisClient
		err := retryWithBackoff(func() error {
			var err error
			rc, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rc.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis initialization")
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { rc.Close() })
		zapLog.Info("Redis record store ready", zap.String("prefix", cfg.Database.Redis.KeyPrefix))
		return store.NewRedisStore(rc.Client, cfg.Database.Redis.KeyPrefix, cfg.Database.Redis.MaxRetries), nil

	default:
		zapLog.Warn("Using in-memory record store; records are lost on restart")
		return store.NewMemoryStore(), nil
	}
}

// buildGenerator returns nil when classification is disabled, in which case
// every classification is the fallback.
func buildGenerator(ctx context.Context, cfg *config.Config, cleanup *closers) (classifier.Generator, error) {
	switch cfg.Classifier.Provider {
	case config.ClassifierGemini:
		client, err := gemini.NewClient(ctx, cfg.Classifier.Gemini.APIKey, cfg.Classifier.Gemini.Model)
		if err != nil {
			return nil, err
		}
		cleanup.add(func() { client.Close() })
		return client, nil
	case config.ClassifierGateway:
		return classifier.NewGateway(cfg.Classifier.Gateway.BaseURL, cfg.Classifier.Gateway.APIKey,
			cfg.Classifier.Gateway.MaxRetries, httpclient.NewClient(config.GetDuration(cfg.Classifier.Timeout))), nil
	default:
		return nil, nil
	}
}

func buildTransport(ctx context.Context, cfg *config.Config, log logger.Logger) (mailer.Transport, error) {
	switch cfg.Mail.Provider {
	case config.MailSES:
		sesClient, err := awsclient.NewSESClient(ctx, awsOptions(cfg))
		if err != nil {
			return nil, err
		}
		return mailer.NewSESTransport(sesClient), nil
	case config.MailSMTP:
		smtp := cfg.Integrations.SMTP
		return mailer.NewSMTPTransport(smtp.Host, smtp.Port, smtp.Username, smtp.Password), nil
	default:
		return mailer.NewLogTransport(log), nil
	}
}

func awsOptions(cfg *config.Config) awsclient.Options {
	return awsclient.Options{
		Region:          cfg.Integrations.AWS.Region,
		AccessKeyID:     cfg.Integrations.AWS.AccessKeyID,
		SecretAccessKey: cfg.Integrations.AWS.SecretAccessKey,
	}
}
