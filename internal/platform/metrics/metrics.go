package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	evaluations     uint64
	applyRejected   uint64
	documentsSwept  uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == 429 {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) RecordEvaluation() {
	atomic.AddUint64(&c.evaluations, 1)
}

func (c *Collector) RecordApplyRejected() {
	atomic.AddUint64(&c.applyRejected, 1)
}

func (c *Collector) RecordDocumentsSwept(count int64) {
	if count > 0 {
		atomic.AddUint64(&c.documentsSwept, uint64(count))
	}
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":        total,
		"errorsTotal":          atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal":     atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":        avg,
		"evaluationsTotal":     atomic.LoadUint64(&c.evaluations),
		"applyRejectedTotal":   atomic.LoadUint64(&c.applyRejected),
		"documentsSweptTotal":  atomic.LoadUint64(&c.documentsSwept),
	}
}
