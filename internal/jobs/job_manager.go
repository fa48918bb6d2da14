package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	activeOrderWatchJob *ActiveOrderWatchJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	activeOrderHandler queries.GetActiveOrderQueryHandler,
	metrics ports.FulfillmentMetrics,
	watchSchedule string,
	staleAfter time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		activeOrderWatchJob: NewActiveOrderWatchJob(activeOrderHandler, metrics, watchSchedule, staleAfter, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.activeOrderWatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start active order watch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.activeOrderWatchJob.Stop()
}
