package dto

import "time"

// SystemMetrics is a point-in-time summary of request, cache and database activity.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	CacheInvalidations       uint64    `json:"cache_invalidations"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	MailQueued               uint64    `json:"mail_queued"`
	MailFailed               uint64    `json:"mail_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
