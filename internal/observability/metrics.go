package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/studyquiz-backend/internal/platform/logger"
)

// Metrics is a small Prometheus text-format registry. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	apiRequests *counterVec
	apiLatency  *histogramVec
	apiInflight *gaugeVec

	aiRequests *counterVec
	aiLatency  *histogramVec

	quizSubmissions *counterVec
	reminders       *counterVec

	pgStats   *gaugeVec
	redisUp   *gaugeVec
	redisPing *gaugeVec

	scrapeEvery time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Init builds the process-wide registry, or returns nil when disabled.
func Init(enabled bool, scrapeEvery time.Duration) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics(scrapeEvery)
	})
	return instance
}

// Current returns the registry built by Init, nil when metrics are off.
func Current() *Metrics { return instance }

func newMetrics(scrapeEvery time.Duration) *Metrics {
	if scrapeEvery <= 0 {
		scrapeEvery = 10 * time.Second
	}
	return &Metrics{
		apiRequests: newCounterVec("sq_api_requests_total", "API requests by method/route/status.", "method", "route", "status"),
		apiLatency: newHistogramVec("sq_api_request_duration_seconds", "API request latency by method/route/status.",
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}, "method", "route", "status"),
		apiInflight: newGaugeVec("sq_api_inflight_requests", "In-flight API requests."),
		aiRequests:  newCounterVec("sq_ai_requests_total", "AI provider calls by provider/operation/status.", "provider", "op", "status"),
		aiLatency: newHistogramVec("sq_ai_request_duration_seconds", "AI provider latency by provider/operation.",
			[]float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60}, "provider", "op"),
		quizSubmissions: newCounterVec("sq_quiz_submissions_total", "Quiz submissions by outcome.", "outcome"),
		reminders:       newCounterVec("sq_streak_reminders_total", "Streak reminders by channel/status.", "channel", "status"),
		pgStats:         newGaugeVec("sq_postgres_pool", "database/sql pool statistics.", "stat"),
		redisUp:         newGaugeVec("sq_redis_up", "1 when the last Redis ping succeeded."),
		redisPing:       newGaugeVec("sq_redis_ping_seconds", "Latency of the last Redis ping."),
		scrapeEvery:     scrapeEvery,
	}
}

func (m *Metrics) families() []family {
	return []family{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.aiRequests, m.aiLatency,
		m.quizSubmissions, m.reminders,
		m.pgStats, m.redisUp, m.redisPing,
	}
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	code := strconv.Itoa(status)
	m.apiRequests.add(1, method, route, code)
	m.apiLatency.observe(dur.Seconds(), method, route, code)
}

func (m *Metrics) APIInflight(delta float64) {
	if m == nil {
		return
	}
	m.apiInflight.add(delta)
}

// ObserveAI records one provider call. status is "ok" or an error kind.
func (m *Metrics) ObserveAI(provider, op, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if provider == "" {
		provider = "none"
	}
	m.aiRequests.add(1, provider, op, status)
	m.aiLatency.observe(dur.Seconds(), provider, op)
}

func (m *Metrics) IncQuizSubmission(outcome string) {
	if m == nil {
		return
	}
	m.quizSubmissions.add(1, outcome)
}

func (m *Metrics) IncReminder(channel, status string) {
	if m == nil {
		return
	}
	m.reminders.add(1, channel, status)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, f := range m.families() {
		if err := f.writeTo(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

// StartServer serves /metrics on addr until ctx is done.
func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	addr = strings.TrimSpace(addr)
	if m == nil || addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", "error", err, "addr", addr)
		}
	}()
	log.Info("metrics server listening", "addr", addr)
}

func (m *Metrics) every(ctx context.Context, fn func()) {
	go func() {
		ticker := time.NewTicker(m.scrapeEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	m.every(ctx, func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Warn("metrics: postgres stats unavailable", "error", err)
			return
		}
		s := sqlDB.Stats()
		m.pgStats.set(float64(s.OpenConnections), "open_connections")
		m.pgStats.set(float64(s.InUse), "in_use")
		m.pgStats.set(float64(s.Idle), "idle")
		m.pgStats.set(float64(s.WaitCount), "wait_count")
		m.pgStats.set(s.WaitDuration.Seconds(), "wait_duration_seconds")
	})
}

// StartRedisCollector pings rdb on every scrape. A nil client is ignored.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *goredis.Client) {
	if m == nil || rdb == nil {
		return
	}
	m.every(ctx, func() {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.set(0)
			log.Warn("metrics: redis ping failed", "error", err)
			return
		}
		m.redisUp.set(1)
		m.redisPing.set(time.Since(start).Seconds())
	})
}
