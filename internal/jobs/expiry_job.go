package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiryJobName is the name of the quotation expiry sweep job
const ExpiryJobName = "quotation_expiry_sweep"

// DefaultExpiryTimeout bounds how long a single sweep may run
const DefaultExpiryTimeout = 5 * time.Minute

// QuotationExpirer defines the interface for expiring overdue quotations.
// This interface allows the job to call the service without importing the service package directly.
type QuotationExpirer interface {
	// ExpireDue transitions every sent quotation whose validity window has
	// passed to expired, returning how many were transitioned.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// ExpiryJob sweeps sent quotations past their validity window and expires them.
type ExpiryJob struct {
	quotationService QuotationExpirer
	logger           *zap.Logger
	timeout          time.Duration
}

// NewExpiryJob creates a new quotation expiry sweep job.
func NewExpiryJob(quotationService QuotationExpirer, logger *zap.Logger, timeout time.Duration) *ExpiryJob {
	if timeout <= 0 {
		timeout = DefaultExpiryTimeout
	}
	return &ExpiryJob{
		quotationService: quotationService,
		logger:           logger,
		timeout:          timeout,
	}
}

// Run executes the expiry sweep.
// This is called by the scheduler according to the cron expression.
func (j *ExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	expired, err := j.quotationService.ExpireDue(ctx, start)
	if err != nil {
		j.logger.Error("quotation expiry sweep failed",
			zap.Error(err),
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("quotation expiry sweep completed",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}
