package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/huzaifaahmed2004/care-coord/cmd/mainconfig"
	"github.com/huzaifaahmed2004/care-coord/internal/api/router"
	"github.com/huzaifaahmed2004/care-coord/internal/appointments"
	"github.com/huzaifaahmed2004/care-coord/internal/assistant"
	"github.com/huzaifaahmed2004/care-coord/internal/auth"
	"github.com/huzaifaahmed2004/care-coord/internal/booking"
	appconfig "github.com/huzaifaahmed2004/care-coord/internal/config"
	"github.com/huzaifaahmed2004/care-coord/internal/dashboard"
	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/internal/notifications"
	"github.com/huzaifaahmed2004/care-coord/internal/notify"
	"github.com/huzaifaahmed2004/care-coord/internal/observability/metrics"
	"github.com/huzaifaahmed2004/care-coord/internal/patients"
	"github.com/huzaifaahmed2004/care-coord/internal/refcache"
	"github.com/huzaifaahmed2004/care-coord/internal/worker/notifier"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting care-coord API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}
	dynamoClient := dynamodb.NewFromConfig(awsCfg)

	// Stores, one per collection.
	userStore := auth.NewStore(dynamoClient, cfg.UsersTable, logger)
	patientStore := patients.NewStore(dynamoClient, cfg.PatientsTable, logger)
	doctorStore := doctors.NewStore(dynamoClient, cfg.DoctorsTable, logger)
	departmentStore := departments.NewStore(dynamoClient, cfg.DepartmentsTable, logger)
	appointmentStore := appointments.NewStore(dynamoClient, cfg.AppointmentsTable, logger)
	labStore := labtests.NewStore(dynamoClient, cfg.LabTestOrdersTable, logger)
	catalog := labtests.NewCatalog(dynamoClient, cfg.AvailableLabTestsTable)
	notificationStore := notifications.NewStore(dynamoClient, cfg.NotificationsTable, logger)

	reports := labtests.NewReportStore(s3.NewFromConfig(awsCfg), cfg.LabReportsBucket, logger)

	// Booking event queue. The in-memory queue runs the notification worker
	// inside this process; SQS hands it to the worker binary.
	var queue events.Queue
	if cfg.MemoryQueueEnabled() {
		queue = events.NewMemoryQueue(64)
		logger.Info("using in-memory booking event queue")
	} else {
		queue = events.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.BookingQueueURL)
	}
	publisher := events.NewPublisher(queue, logger)

	// Reference-data readers, cached when Redis is configured. Admin update
	// handlers get the matching invalidators so writes are visible before
	// the TTL runs out.
	var doctorReader doctorDirectory = doctorStore
	var departmentReader departmentDirectory = departmentStore
	var doctorInvalidator doctors.Invalidator
	var departmentInvalidator departments.Invalidator
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		cache := refcache.New(redis.NewClient(opts), cfg.RefCacheTTL, logger)
		cachedDoctors := refcache.NewDoctorReader(cache, doctorStore)
		cachedDepartments := refcache.NewDepartmentReader(cache, departmentStore)
		doctorReader = cachedDoctors
		departmentReader = cachedDepartments
		doctorInvalidator = cachedDoctors
		departmentInvalidator = cachedDepartments
		logger.Info("reference-data cache enabled", "addr", cfg.RedisAddr)
	}

	registry := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(registry)

	bookingSvc := booking.NewService(booking.ServiceParams{
		Patients:     patientStore,
		Doctors:      doctorReader,
		Departments:  departmentReader,
		Appointments: appointmentStore,
		LabOrders:    labStore,
		Catalog:      catalog,
		Publisher:    publisher,
		Metrics:      bookingMetrics,
		BaseFee:      cfg.BaseFee,
		Logger:       logger,
	})

	hub := notifications.NewHub(notificationStore, logger)

	if cfg.MemoryQueueEnabled() {
		mailer := notify.NewService(buildEmailSender(cfg, awsCfg, logger), logger)
		inlineWorker := notifier.NewWorker(queue, notificationStore, hub, mailer, logger,
			notifier.WithWorkerCount(cfg.WorkerCount),
			notifier.WithReceiveWaitSeconds(cfg.ReceiveWaitSecs),
			notifier.WithReceiveBatchSize(cfg.ReceiveBatchSize),
		)
		inlineWorker.Start(ctx)
		defer inlineWorker.Wait()
	}

	assistantSvc := assistant.NewService(
		buildLLMClient(ctx, cfg, awsCfg, logger),
		bookingSvc, doctorStore, catalog, cfg.GeminiModelID, logger,
	)

	dashboardSvc := dashboard.NewService(appointmentStore, labStore, doctorStore, departmentStore, logger)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)

	r := router.New(&router.Config{
		Logger:               logger,
		Verifier:             issuer,
		AuthHandler:          auth.NewHandler(userStore, issuer, logger),
		PatientsHandler:      patients.NewHandler(patientStore, logger),
		BookingHandler:       booking.NewHandler(bookingSvc, logger),
		AppointmentsHandler:  appointments.NewHandler(appointmentStore, doctorStore, publisher, logger),
		LabTestsHandler:      labtests.NewHandler(labStore, catalog, reports, publisher, logger),
		DoctorsHandler:       doctors.NewHandler(doctorStore, doctorInvalidator, logger),
		DepartmentsHandler:   departments.NewHandler(departmentStore, departmentInvalidator, logger),
		NotificationsHandler: notifications.NewHandler(notificationStore, hub, logger),
		AssistantHandler:     assistant.NewHandler(assistantSvc, logger),
		DashboardHandler:     dashboard.NewHandler(dashboardSvc, logger),
		MetricsHandler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins:   splitOrigins(cfg.CORSAllowedOrigins),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

type doctorDirectory interface {
	Get(ctx context.Context, id string) (*doctors.Doctor, error)
}

type departmentDirectory interface {
	Get(ctx context.Context, id string) (*departments.Department, error)
}

// buildLLMClient prefers Gemini, falls back to Bedrock, and degrades to the
// stub when neither is configured.
func buildLLMClient(ctx context.Context, cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) assistant.LLMClient {
	var bedrock assistant.LLMClient
	if cfg.BedrockModelID != "" {
		bedrock = assistant.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
		} else {
			return assistant.NewFallbackLLMClient(gemini, bedrock, logger)
		}
	}
	if bedrock != nil {
		return bedrock
	}

	logger.Warn("no LLM provider configured, assistant is stubbed")
	return assistant.StubLLMClient{}
}

// buildEmailSender selects the provider named by EMAIL_PROVIDER.
func buildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) notify.EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); sender != nil {
			return sender
		}
		logger.Warn("sendgrid selected but not configured, falling back to stub")
		return notify.NewStubEmailSender(logger)
	case "ses":
		if sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); sender != nil {
			return sender
		}
		return notify.NewStubEmailSender(logger)
	default:
		return notify.NewStubEmailSender(logger)
	}
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
