package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mykitchen/kitchen/internal/app/service"
	"github.com/mykitchen/kitchen/pkg/logger"
)

const DefaultReconcileSpec = "@every 10m"

// Reconciler is the part of service.CartService the scheduler drives.
type Reconciler interface {
	Reconcile(ctx context.Context) (*service.ReconcileReport, error)
}

// CartReconcileScheduler periodically checks the cart against the catalog.
type CartReconcileScheduler struct {
	cron       *cron.Cron
	reconciler Reconciler
	spec       string
	timeout    time.Duration
}

func NewCartReconcileScheduler(reconciler Reconciler, spec string) *CartReconcileScheduler {
	if spec == "" {
		spec = DefaultReconcileSpec
	}
	cronLog := cronLogger{}
	return &CartReconcileScheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		reconciler: reconciler,
		spec:       spec,
		timeout:    time.Minute,
	}
}

// Start schedules the job and starts the cron runner.
func (s *CartReconcileScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for cart reconcile", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Cart reconcile scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce performs a single reconcile pass.
func (s *CartReconcileScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger.Debug("Starting scheduled cart reconcile", nil)

	report, err := s.reconciler.Reconcile(ctx)
	if err != nil {
		logger.Error("Scheduled cart reconcile failed", err)
		return
	}

	logger.Info("Scheduled cart reconcile finished", map[string]interface{}{
		"checked":  report.Checked,
		"removed":  len(report.Removed),
		"repriced": len(report.Repriced),
	})
}

// Stop stops the runner and waits for a running job to finish.
func (s *CartReconcileScheduler) Stop() {
	logger.Info("Stopping cart reconcile scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Cart reconcile scheduler stopped", nil)
}

// cronLogger adapts pkg/logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, kvFields(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, err, kvFields(keysAndValues))
}

func kvFields(kv []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			fields[k] = kv[i+1]
		}
	}
	return fields
}
