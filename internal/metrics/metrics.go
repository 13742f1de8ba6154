package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/pixil98/go-mudcore/internal/game"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var sessionStatuses = []game.SessionStatus{
	game.StatusLogin,
	game.StatusColorCheck,
	game.StatusAsciiCheck,
	game.StatusWelcomePause,
	game.StatusActive,
}

// Metrics holds the prometheus collectors for the server. It observes command
// dispatch and samples the world's stores each tick.
type Metrics struct {
	world    *game.World
	registry *prometheus.Registry

	dispatches      *prometheus.CounterVec
	dispatchSeconds *prometheus.HistogramVec
	sessions        *prometheus.GaugeVec
	roomsLoaded     prometheus.Gauge
	itemsCached     prometheus.Gauge
}

func NewMetrics(world *game.World) *Metrics {
	m := &Metrics{
		world:    world,
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mudcore_command_dispatches_total",
			Help: "Commands dispatched, by verb, invocation and result.",
		}, []string{"verb", "invocation", "result"}),
		dispatchSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mudcore_command_duration_seconds",
			Help:    "Time spent running command handlers.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"verb"}),
		sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mudcore_sessions",
			Help: "Registered sessions by state.",
		}, []string{"status"}),
		roomsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mudcore_rooms_loaded",
			Help: "Rooms held in the room cache.",
		}),
		itemsCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mudcore_items_cached",
			Help: "Items held in the item cache.",
		}),
	}

	m.registry.MustRegister(
		m.dispatches,
		m.dispatchSeconds,
		m.sessions,
		m.roomsLoaded,
		m.itemsCached,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) ObserveDispatch(verb, invocation string, ok bool, elapsed time.Duration) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.dispatches.WithLabelValues(verb, invocation, result).Inc()
	m.dispatchSeconds.WithLabelValues(verb).Observe(elapsed.Seconds())
}

// Tick samples the world's gauges.
func (m *Metrics) Tick(ctx context.Context) error {
	m.world.Lock()
	defer m.world.Unlock()

	counts := make(map[game.SessionStatus]int, len(sessionStatuses))
	for _, s := range m.world.Users.All() {
		counts[s.Status]++
	}
	for _, status := range sessionStatuses {
		m.sessions.WithLabelValues(string(status)).Set(float64(counts[status]))
	}

	m.roomsLoaded.Set(float64(len(m.world.Rooms.Cached())))
	m.itemsCached.Set(float64(m.world.Items.Count()))
	return nil
}

// Handler serves the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
