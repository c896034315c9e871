package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ScrapeRegistry implements Registry for scrape-based metrics collection.
// Metrics are registered with a Prometheus registry and exposed via HTTP.
type ScrapeRegistry struct {
	prom       *prometheus.Registry
	registerer prometheus.Registerer
}

// NewScrapeRegistry creates a new ScrapeRegistry. If prefix is non-empty,
// every metric created through the registry is named prefix_<name>. The Go
// runtime and process collectors are registered without the prefix.
func NewScrapeRegistry(prefix string) (*ScrapeRegistry, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("registering go collector: %w", err)
	}
	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("registering process collector: %w", err)
	}

	var registerer prometheus.Registerer = reg
	if prefix != "" {
		registerer = prometheus.WrapRegistererWithPrefix(prefix+"_", reg)
	}

	return &ScrapeRegistry{
		prom:       reg,
		registerer: registerer,
	}, nil
}

// Handler returns an http.Handler for the /metrics endpoint.
func (r *ScrapeRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(r.prom, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying registry as a prometheus.Gatherer.
func (r *ScrapeRegistry) Gatherer() prometheus.Gatherer {
	return r.prom
}

// NewGauge creates and registers a new Gauge.
func (r *ScrapeRegistry) NewGauge(opts prometheus.GaugeOpts) (Gauge, error) {
	g := prometheus.NewGauge(opts)
	if err := r.registerer.Register(g); err != nil {
		return nil, fmt.Errorf("registering gauge %q: %w", opts.Name, err)
	}
	return &scrapeGauge{gauge: g}, nil
}

// NewGaugeVec creates and registers a new GaugeVec.
func (r *ScrapeRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) (GaugeVec, error) {
	g := prometheus.NewGaugeVec(opts, labels)
	if err := r.registerer.Register(g); err != nil {
		return nil, fmt.Errorf("registering gauge vec %q: %w", opts.Name, err)
	}
	return &scrapeGaugeVec{gaugeVec: g}, nil
}

// NewCounter creates and registers a new Counter.
func (r *ScrapeRegistry) NewCounter(opts prometheus.CounterOpts) (Counter, error) {
	c := prometheus.NewCounter(opts)
	if err := r.registerer.Register(c); err != nil {
		return nil, fmt.Errorf("registering counter %q: %w", opts.Name, err)
	}
	return &scrapeCounter{counter: c}, nil
}

// NewCounterVec creates and registers a new CounterVec.
func (r *ScrapeRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error) {
	c := prometheus.NewCounterVec(opts, labels)
	if err := r.registerer.Register(c); err != nil {
		return nil, fmt.Errorf("registering counter vec %q: %w", opts.Name, err)
	}
	return &scrapeCounterVec{counterVec: c}, nil
}

type scrapeGauge struct {
	gauge prometheus.Gauge
}

func (g *scrapeGauge) Set(v float64) {
	g.gauge.Set(v)
}

type scrapeGaugeVec struct {
	gaugeVec *prometheus.GaugeVec
}

func (g *scrapeGaugeVec) With(labels prometheus.Labels) Gauge {
	return &scrapeGauge{gauge: g.gaugeVec.With(labels)}
}

type scrapeCounter struct {
	counter prometheus.Counter
}

func (c *scrapeCounter) Inc() {
	c.counter.Inc()
}

func (c *scrapeCounter) Add(v float64) {
	c.counter.Add(v)
}

type scrapeCounterVec struct {
	counterVec *prometheus.CounterVec
}

func (c *scrapeCounterVec) With(labels prometheus.Labels) Counter {
	return &scrapeCounter{counter: c.counterVec.With(labels)}
}
