package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron"

	"propertyBack/internal/services"
)

const metricsReportTimeout = 10 * time.Second

// startMetricsReporter logs the cache hit/miss counters on the given cron schedule.
func startMetricsReporter(schedule string, svc *services.CacheMetricsService, infoLog *log.Logger) (*cron.Cron, error) {
	c := cron.New()
	err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), metricsReportTimeout)
		defer cancel()

		// the service logs both the counters and any failure
		_, _ = svc.GetCacheMetrics(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("schedule cache metrics report %q: %w", schedule, err)
	}
	c.Start()
	if infoLog != nil {
		infoLog.Printf("metrics reporter: scheduled %q", schedule)
	}
	return c, nil
}
