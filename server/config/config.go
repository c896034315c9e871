package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nomis52/mergington/logging"
)

const (
	defaultListenAddr    = ":8080"
	defaultMetricsPrefix = "mergington"
	defaultReportJob     = "signup"
	redactedValue        = "REDACTED"
)

// ServerConfig represents the server runtime configuration.
type ServerConfig struct {
	Listener ListenerConfig `yaml:"listener"`
	Logging  logging.Config `yaml:"logging"`
	// Path to a YAML file seeding the activity catalog. The built-in roster
	// is used when empty.
	CatalogFile string `yaml:"catalog_file"`
	// Prefix for metrics exposed on /metrics and pushed by the report.
	MetricsPrefix string       `yaml:"metrics_prefix"`
	Report        ReportConfig `yaml:"report"`
}

// ListenerConfig holds HTTP server listener settings.
type ListenerConfig struct {
	// The listen address, defaults to :8080
	Addr string `yaml:"addr"`
	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

// ReportConfig schedules a periodic push of enrollment figures to a remote
// write endpoint. The report is disabled when Schedule is empty.
type ReportConfig struct {
	// Standard 5 field cron spec.
	Schedule       string `yaml:"schedule"`
	RemoteWriteURL string `yaml:"remote_write_url"`
	Job            string `yaml:"job"`
}

// Enabled reports whether a report schedule is configured.
func (r ReportConfig) Enabled() bool {
	return r.Schedule != ""
}

// TLSEnabled reports whether the listener should serve HTTPS.
func (l ListenerConfig) TLSEnabled() bool {
	return l.TLSCert != "" && l.TLSKey != ""
}

// LoadConfig reads the YAML config file at the given path and returns a ServerConfig struct.
func LoadConfig(path string) (*ServerConfig, error) {
	var cfg ServerConfig
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open server config file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode YAML server config: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config %s: %w", path, err)
	}
	return &cfg, nil
}

// SetDefaults sets reasonable default values for optional fields.
func (c *ServerConfig) SetDefaults() {
	if c.Listener.Addr == "" {
		c.Listener.Addr = defaultListenAddr
	}
	if c.MetricsPrefix == "" {
		c.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Report.Enabled() && c.Report.Job == "" {
		c.Report.Job = defaultReportJob
	}
}

// Validate performs basic validation on the configuration.
func (c *ServerConfig) Validate() error {
	if (c.Listener.TLSCert == "") != (c.Listener.TLSKey == "") {
		return fmt.Errorf("listener tls_cert and tls_key must be set together")
	}
	if c.Report.Enabled() && c.Report.RemoteWriteURL == "" {
		return fmt.Errorf("report remote_write_url is required when a schedule is set")
	}
	if !c.Report.Enabled() && c.Report.RemoteWriteURL != "" {
		return fmt.Errorf("report schedule is required when remote_write_url is set")
	}
	return nil
}

// Redacted returns a copy of the config that is safe to show to clients.
func (c *ServerConfig) Redacted() ServerConfig {
	out := *c
	if out.Listener.TLSKey != "" {
		out.Listener.TLSKey = redactedValue
	}
	return out
}
