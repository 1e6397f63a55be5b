package services

import (
	"context"
	"fmt"

	"propertyBack/internal/cache"
	"propertyBack/internal/models"
)

type CacheMetricsService struct {
	Stats  cache.StatsReader
	Logger Logger
}

// GetCacheMetrics reads the cache server's keyspace counters and derives the hit ratio.
func (s *CacheMetricsService) GetCacheMetrics(ctx context.Context) (models.CacheMetrics, error) {
	log := loggerOrNop(s.Logger)

	st, err := s.Stats.Stats(ctx)
	if err != nil {
		log.Errorf("Error retrieving cache metrics: %v", err)
		return models.CacheMetrics{}, fmt.Errorf("cache metrics: %w", err)
	}

	metrics := models.CacheMetrics{
		KeyspaceHits:   st.KeyspaceHits,
		KeyspaceMisses: st.KeyspaceMisses,
		TotalRequests:  st.KeyspaceHits + st.KeyspaceMisses,
	}
	if metrics.TotalRequests > 0 {
		metrics.HitRatio = float64(metrics.KeyspaceHits) / float64(metrics.TotalRequests)
	}

	log.Infof("Cache metrics: hits=%d misses=%d hit_ratio=%.2f",
		metrics.KeyspaceHits, metrics.KeyspaceMisses, metrics.HitRatio)
	return metrics, nil
}
