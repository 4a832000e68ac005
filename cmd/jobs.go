package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vibast-solutions/ms-go-redsys/app/factory"
	"github.com/vibast-solutions/ms-go-redsys/app/service"
	"github.com/vibast-solutions/ms-go-redsys/config"
)

var workerMode bool

// job is one batch operation of the payment lifecycle that can run once or
// as a worker loop.
type job struct {
	name     string
	interval func(cfg *config.Config) time.Duration
	run      func(ctx context.Context, s *service.PaymentService) error
}

var (
	dispatchCallbacksJob = job{
		name:     "callbacks_dispatch",
		interval: func(cfg *config.Config) time.Duration { return cfg.Jobs.CallbackDispatchInterval },
		run: func(ctx context.Context, s *service.PaymentService) error {
			return s.RunDispatchCallbacksBatch(ctx)
		},
	}
	expirePendingJob = job{
		name:     "expire_pending",
		interval: func(cfg *config.Config) time.Duration { return cfg.Jobs.ExpirePendingInterval },
		run: func(ctx context.Context, s *service.PaymentService) error {
			return s.RunExpirePendingBatch(ctx)
		},
	}
)

var callbacksCmd = &cobra.Command{
	Use:   "callbacks",
	Short: "Run status callback related commands",
}

var callbacksDispatchCmd = &cobra.Command{
	Use:   "dispatch",
	Short: "Send terminal payment statuses to caller services",
	Run:   func(_ *cobra.Command, _ []string) { runCommand(dispatchCallbacksJob) },
}

var expireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Run expiration-related commands",
}

var expirePendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Expire payments that never received a gateway notification",
	Run:   func(_ *cobra.Command, _ []string) { runCommand(expirePendingJob) },
}

func init() {
	rootCmd.AddCommand(callbacksCmd)
	rootCmd.AddCommand(expireCmd)
	callbacksCmd.AddCommand(callbacksDispatchCmd)
	expireCmd.AddCommand(expirePendingCmd)

	callbacksCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
	expireCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(j job) {
	cfg, paymentService, cleanup := mustCreatePaymentService()
	defer cleanup()

	logger := factory.NewModuleLogger("jobs").WithField("job", j.name)
	if !workerMode {
		runJob(logger, func() error { return j.run(context.Background(), paymentService) })
		return
	}

	interval := j.interval(cfg)
	if interval <= 0 {
		logger.Fatal("invalid worker interval")
	}
	runWorker(logger, interval, func(ctx context.Context) error { return j.run(ctx, paymentService) })
}

func runWorker(logger logrus.FieldLogger, interval time.Duration, fn func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(logger, func() error { return fn(ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logger.Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(logger, func() error { return fn(ctx) })
		}
	}
}

func runJob(logger logrus.FieldLogger, fn func() error) {
	start := time.Now()
	err := fn()
	entry := logger.WithField("latency", time.Since(start).String())
	if err != nil {
		entry.WithError(err).Error("job_failed")
		return
	}
	entry.Info("job_completed")
}
