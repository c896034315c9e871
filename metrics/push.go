package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/prometheus/prompb"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests
	DefaultTimeout = 30 * time.Second
)

// PushRegistry implements Registry for push-based metrics collection.
// Setting a gauge or incrementing a counter only updates an in-memory value;
// Push sends the current value of every series in a single remote write
// request.
type PushRegistry struct {
	url        string
	httpClient *http.Client
	prefix     string
	job        string
	instance   string

	mu     sync.Mutex
	series map[string]*pushSeries
	// order keeps series in creation order so pushes are deterministic.
	order []string
}

// PushConfig configures a PushRegistry.
type PushConfig struct {
	// URL is the base URL of the remote write endpoint (e.g., "http://localhost:8428").
	URL string
	// Prefix is the metric name prefix. All metric names will be prefixed with this value
	// followed by an underscore.
	Prefix string
	// Job is the job label for all metrics.
	Job string
	// Instance is the instance label for all metrics.
	Instance string
	// Timeout is the HTTP client timeout. Defaults to DefaultTimeout.
	Timeout time.Duration
}

// pushSeries is the latest value of one name+labels combination.
type pushSeries struct {
	name   string
	labels map[string]string
	value  float64
}

// NewPushRegistry creates a new PushRegistry that pushes metrics to the given URL.
func NewPushRegistry(cfg PushConfig) *PushRegistry {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &PushRegistry{
		url:        strings.TrimSuffix(cfg.URL, "/") + "/api/v1/write",
		httpClient: &http.Client{Timeout: timeout},
		prefix:     cfg.Prefix,
		job:        cfg.Job,
		instance:   cfg.Instance,
		series:     make(map[string]*pushSeries),
	}
}

// NewGauge creates a new push-based Gauge.
func (r *PushRegistry) NewGauge(opts prometheus.GaugeOpts) (Gauge, error) {
	return &pushGauge{registry: r, name: opts.Name}, nil
}

// NewGaugeVec creates a new push-based GaugeVec.
func (r *PushRegistry) NewGaugeVec(opts prometheus.GaugeOpts, labels []string) (GaugeVec, error) {
	return &pushGaugeVec{registry: r, name: opts.Name, labels: labels}, nil
}

// NewCounter creates a new push-based Counter.
func (r *PushRegistry) NewCounter(opts prometheus.CounterOpts) (Counter, error) {
	return &pushCounter{registry: r, name: opts.Name}, nil
}

// NewCounterVec creates a new push-based CounterVec.
func (r *PushRegistry) NewCounterVec(opts prometheus.CounterOpts, labels []string) (CounterVec, error) {
	return &pushCounterVec{registry: r, name: opts.Name, labels: labels}, nil
}

// update applies fn to the stored value of the series, creating it if needed.
func (r *PushRegistry) update(name string, labels map[string]string, fn func(float64) float64) {
	key := seriesKey(name, labels)

	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[key]
	if !ok {
		s = &pushSeries{name: name, labels: labels}
		r.series[key] = s
		r.order = append(r.order, key)
	}
	s.value = fn(s.value)
}

// Push sends the current value of every series to the remote write endpoint.
// It is a no-op when nothing has been recorded.
func (r *PushRegistry) Push(ctx context.Context) error {
	r.mu.Lock()
	now := time.Now().UnixMilli()
	timeseries := make([]prompb.TimeSeries, 0, len(r.order))
	for _, key := range r.order {
		s := r.series[key]
		timeseries = append(timeseries, r.toTimeSeries(s, now))
	}
	r.mu.Unlock()

	if len(timeseries) == 0 {
		return nil
	}

	data, err := proto.Marshal(&prompb.WriteRequest{Timeseries: timeseries})
	if err != nil {
		return fmt.Errorf("marshaling write request: %w", err)
	}
	compressed := snappy.Encode(nil, data)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// toTimeSeries converts a series to Prometheus TimeSeries format.
// Labels are sorted by name as remote write receivers require.
func (r *PushRegistry) toTimeSeries(s *pushSeries, timestamp int64) prompb.TimeSeries {
	metricName := s.name
	if r.prefix != "" {
		metricName = r.prefix + "_" + s.name
	}

	labels := make([]prompb.Label, 0, len(s.labels)+3)
	labels = append(labels, prompb.Label{Name: "__name__", Value: metricName})
	if r.job != "" {
		labels = append(labels, prompb.Label{Name: "job", Value: r.job})
	}
	if r.instance != "" {
		labels = append(labels, prompb.Label{Name: "instance", Value: r.instance})
	}
	for k, v := range s.labels {
		labels = append(labels, prompb.Label{Name: k, Value: v})
	}
	sort.Slice(labels, func(i, j int) bool {
		return labels[i].Name < labels[j].Name
	})

	return prompb.TimeSeries{
		Labels:  labels,
		Samples: []prompb.Sample{{Value: s.value, Timestamp: timestamp}},
	}
}

// seriesKey builds a stable map key from a metric name and its labels.
func seriesKey(name string, labels map[string]string) string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(name)
	for _, k := range keys {
		b.WriteString(",")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(labels[k])
	}
	return b.String()
}

type pushGauge struct {
	registry *PushRegistry
	name     string
	labels   map[string]string
}

func (g *pushGauge) Set(v float64) {
	g.registry.update(g.name, g.labels, func(float64) float64 { return v })
}

type pushGaugeVec struct {
	registry *PushRegistry
	name     string
	labels   []string
}

func (g *pushGaugeVec) With(labels prometheus.Labels) Gauge {
	return &pushGauge{registry: g.registry, name: g.name, labels: labels}
}

type pushCounter struct {
	registry *PushRegistry
	name     string
	labels   map[string]string
}

func (c *pushCounter) Inc() {
	c.Add(1)
}

func (c *pushCounter) Add(v float64) {
	if v < 0 {
		panic("counter cannot decrease in value")
	}
	c.registry.update(c.name, c.labels, func(old float64) float64 { return old + v })
}

type pushCounterVec struct {
	registry *PushRegistry
	name     string
	labels   []string
}

func (c *pushCounterVec) With(labels prometheus.Labels) Counter {
	return &pushCounter{registry: c.registry, name: c.name, labels: labels}
}
