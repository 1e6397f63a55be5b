package models

// CacheMetrics holds the hit/miss counters reported by the cache server.
type CacheMetrics struct {
	KeyspaceHits   int64   `json:"keyspace_hits"`
	KeyspaceMisses int64   `json:"keyspace_misses"`
	TotalRequests  int64   `json:"total_requests"`
	HitRatio       float64 `json:"hit_ratio"`
}
