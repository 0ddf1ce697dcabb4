package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"

	"github.com/huzaifaahmed2004/care-coord/cmd/mainconfig"
	appconfig "github.com/huzaifaahmed2004/care-coord/internal/config"
	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/notifications"
	"github.com/huzaifaahmed2004/care-coord/internal/notify"
	"github.com/huzaifaahmed2004/care-coord/internal/worker/notifier"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// The worker binary consumes booking events from SQS. Deployments on the
// in-memory queue run the worker inside the API process instead.
func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if cfg.MemoryQueueEnabled() {
		logger.Error("notification worker requires SQS; the in-memory queue runs inside the API process")
		os.Exit(1)
	}
	if cfg.BookingQueueURL == "" {
		logger.Error("BOOKING_QUEUE_URL is required")
		os.Exit(1)
	}

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	queue := events.NewSQSQueue(sqs.NewFromConfig(awsCfg), cfg.BookingQueueURL)
	store := notifications.NewStore(dynamodb.NewFromConfig(awsCfg), cfg.NotificationsTable, logger)

	var sender notify.EmailSender
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			sender = s
		}
	case "ses":
		if s := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger); s != nil {
			sender = s
		}
	}
	if sender == nil {
		sender = notify.NewStubEmailSender(logger)
	}
	mailer := notify.NewService(sender, logger)

	// The WebSocket hub lives in the API process; this binary only writes
	// notification documents, so no refresher is wired.
	worker := notifier.NewWorker(queue, store, nil, mailer, logger,
		notifier.WithWorkerCount(cfg.WorkerCount),
		notifier.WithReceiveWaitSeconds(cfg.ReceiveWaitSecs),
		notifier.WithReceiveBatchSize(cfg.ReceiveBatchSize),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker.Start(ctx)
	logger.Info("notification worker started", "workers", cfg.WorkerCount)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down notification worker...")
	cancel()

	doneCtx, doneCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer doneCancel()

	waitCh := make(chan struct{})
	go func() {
		worker.Wait()
		close(waitCh)
	}()

	select {
	case <-waitCh:
		logger.Info("notification worker stopped")
	case <-doneCtx.Done():
		logger.Error("notification worker shutdown timed out", "error", doneCtx.Err())
	}
}
