package metawards

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes a run's live Population trajectory as Prometheus
// gauges, for a run driven with --metrics-addr (spec section 9's
// ambient-stack carry-over: client_golang is part of the example pack's
// dependency surface even though the teacher itself has no exporter,
// so this run loop is where it gets wired in).
type Metrics struct {
	registry *prometheus.Registry

	susceptibles prometheus.Gauge
	latent       prometheus.Gauge
	infected     prometheus.Gauge
	removed      prometheus.Gauge
	daysRun      prometheus.Counter
}

// NewMetrics builds a fresh, independently-registered Metrics set so
// that multiple concurrent runs (a VariableSets sweep) never collide on
// the default global registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		susceptibles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "metawards_susceptibles",
			Help: "Current number of susceptible individuals across all wards.",
		}),
		latent: factory.NewGauge(prometheus.GaugeOpts{
			Name: "metawards_latent",
			Help: "Current number of individuals in the latent (stage 0) compartment.",
		}),
		infected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "metawards_infected",
			Help: "Current number of infectious individuals, latent excluded.",
		}),
		removed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "metawards_removed",
			Help: "Current number of removed (recovered or otherwise cleared) individuals.",
		}),
		daysRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "metawards_days_simulated_total",
			Help: "Number of simulation days completed so far.",
		}),
	}
}

// Observe updates the gauges from a completed day's Population tally.
func (m *Metrics) Observe(pop *Population) {
	m.susceptibles.Set(float64(pop.Susceptibles))
	m.latent.Set(float64(pop.Latent))
	m.infected.Set(float64(pop.TotalInfected() - pop.Latent))
	m.removed.Set(float64(pop.Removed))
	m.daysRun.Inc()
}

// Serve starts an HTTP server exposing this Metrics set at /metrics on
// addr, returning once ctx is cancelled or the listener fails.
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
