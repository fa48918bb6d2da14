package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultActiveOrderWatchSchedule runs the watch at the start of every minute.
const DefaultActiveOrderWatchSchedule = "0 * * * * *"

// ActiveOrderWatchJob reports for how long the order in progress has been
// idle and warns when it exceeds staleAfter. It never changes an order.
type ActiveOrderWatchJob struct {
	handler    queries.GetActiveOrderQueryHandler
	metrics    ports.FulfillmentMetrics
	schedule   string
	staleAfter time.Duration
	now        func() time.Time
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewActiveOrderWatchJob creates the watch. schedule is a six field cron
// expression (with seconds).
func NewActiveOrderWatchJob(
	handler queries.GetActiveOrderQueryHandler,
	metrics ports.FulfillmentMetrics,
	schedule string,
	staleAfter time.Duration,
	logger *slog.Logger,
) *ActiveOrderWatchJob {
	return &ActiveOrderWatchJob{
		handler:    handler,
		metrics:    metrics,
		schedule:   schedule,
		staleAfter: staleAfter,
		now:        func() time.Time { return time.Now().UTC() },
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "active_order_watch_job"),
	}
}

// Start schedules the watch.
func (j *ActiveOrderWatchJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Active order watch job started", "schedule", j.schedule)
	return nil
}

// Run performs a single check.
func (j *ActiveOrderWatchJob) Run(ctx context.Context) {
	active, found, err := j.handler.Handle(ctx, queries.NewGetActiveOrderQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Active order watch failed", "error", err)
		return
	}

	if !found {
		j.metrics.ActiveOrderAge(0)
		return
	}

	idle := j.now().Sub(active.UpdatedAt)
	if idle < 0 {
		idle = 0
	}
	j.metrics.ActiveOrderAge(idle)

	if j.staleAfter > 0 && idle > j.staleAfter {
		j.logger.WarnContext(ctx, "Order in progress looks stale",
			"order_id", active.ID.String(),
			"idle", idle.String(),
			"stale_after", j.staleAfter.String(),
			"highest_loaded_position", active.HighestLoadedPosition,
		)
	}
}

// Stop stops the watch and waits for a running check to finish.
func (j *ActiveOrderWatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Active order watch job stopped")
}
