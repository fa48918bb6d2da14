// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// ActiveOrderWatchJob reads the order in progress, exports for how long it
// has been idle and logs a warning once that exceeds ACTIVE_ORDER_STALE_AFTER.
// Loading an order is driven by reported loads only, so the job never fails
// or closes an order by itself.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(activeOrderHandler, metrics, "0 * * * * *", 30*time.Minute, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules are six field cron expressions, seconds first. The default
// "0 * * * * *" runs at the start of every minute.
package jobs
