package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type routeStats struct {
	count      uint64
	errors     uint64
	durationMs uint64
}

// Collector counts requests overall and per chi route pattern.
type Collector struct {
	totalRequests   uint64
	clientErrors    uint64
	serverErrors    uint64
	unavailable     uint64
	totalDurationMs uint64

	mu     sync.RWMutex
	routes map[string]*routeStats
}

func New() *Collector {
	return &Collector{routes: map[string]*routeStats{}}
}

func (c *Collector) Record(route string, status int, duration time.Duration) {
	ms := uint64(duration.Milliseconds())
	atomic.AddUint64(&c.totalRequests, 1)
	atomic.AddUint64(&c.totalDurationMs, ms)
	switch {
	case status == 503:
		atomic.AddUint64(&c.unavailable, 1)
		atomic.AddUint64(&c.serverErrors, 1)
	case status >= 500:
		atomic.AddUint64(&c.serverErrors, 1)
	case status >= 400:
		atomic.AddUint64(&c.clientErrors, 1)
	}

	if route == "" {
		route = "unmatched"
	}
	stats := c.route(route)
	atomic.AddUint64(&stats.count, 1)
	atomic.AddUint64(&stats.durationMs, ms)
	if status >= 500 {
		atomic.AddUint64(&stats.errors, 1)
	}
}

func (c *Collector) route(name string) *routeStats {
	c.mu.RLock()
	stats, ok := c.routes[name]
	c.mu.RUnlock()
	if ok {
		return stats
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if stats, ok = c.routes[name]; ok {
		return stats
	}
	stats = &routeStats{}
	c.routes[name] = stats
	return stats
}

type RouteSnapshot struct {
	Route         string  `json:"route"`
	Requests      uint64  `json:"requests"`
	Errors        uint64  `json:"errors"`
	AvgDurationMs float64 `json:"avgDurationMs"`
}

type Snapshot struct {
	RequestsTotal    uint64          `json:"requestsTotal"`
	ClientErrors     uint64          `json:"clientErrorsTotal"`
	ServerErrors     uint64          `json:"serverErrorsTotal"`
	UnavailableTotal uint64          `json:"unavailableTotal"`
	AvgDurationMs    float64         `json:"avgDurationMs"`
	Routes           []RouteSnapshot `json:"routes"`
}

func (c *Collector) Snapshot() Snapshot {
	total := atomic.LoadUint64(&c.totalRequests)
	snap := Snapshot{
		RequestsTotal:    total,
		ClientErrors:     atomic.LoadUint64(&c.clientErrors),
		ServerErrors:     atomic.LoadUint64(&c.serverErrors),
		UnavailableTotal: atomic.LoadUint64(&c.unavailable),
		AvgDurationMs:    average(atomic.LoadUint64(&c.totalDurationMs), total),
		Routes:           []RouteSnapshot{},
	}

	c.mu.RLock()
	for name, stats := range c.routes {
		count := atomic.LoadUint64(&stats.count)
		snap.Routes = append(snap.Routes, RouteSnapshot{
			Route:         name,
			Requests:      count,
			Errors:        atomic.LoadUint64(&stats.errors),
			AvgDurationMs: average(atomic.LoadUint64(&stats.durationMs), count),
		})
	}
	c.mu.RUnlock()

	sort.Slice(snap.Routes, func(i, j int) bool { return snap.Routes[i].Route < snap.Routes[j].Route })
	return snap
}

func average(sum, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
