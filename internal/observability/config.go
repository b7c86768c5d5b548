package observability

import (
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
)

// ObservabilityConfig holds the resolved settings the manager needs.
type ObservabilityConfig struct {
	ServiceName        string
	ServiceVersion     string
	ServiceInstance    string
	Enabled            bool
	TracingEnabled     bool
	MetricsEnabled     bool
	ConsoleOutput      bool
	PrettyPrint        bool
	SampleRate         float64
	CollectionInterval time.Duration
	Prometheus         PrometheusConfig
	OTLP               config.OTLPConfig
}

// GetObservabilityConfig creates observability config from provided config
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:        "spotghost",
			ServiceVersion:     version,
			ServiceInstance:    "spotghost-1",
			Enabled:            true,
			TracingEnabled:     true,
			MetricsEnabled:     true,
			SampleRate:         1.0,
			CollectionInterval: 15 * time.Second,
			Prometheus:         GetPrometheusConfig(nil),
		}
	}

	obs := cfg.Observability

	// Use app version if service version not specified
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}

	sampleRate := obs.SampleRate
	if obs.Tracing.SampleRate > 0 {
		sampleRate = obs.Tracing.SampleRate
	}

	interval := obs.Metrics.CollectionInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	return ObservabilityConfig{
		ServiceName:        obs.ServiceName,
		ServiceVersion:     serviceVersion,
		ServiceInstance:    obs.ServiceInstance,
		Enabled:            obs.Enabled,
		TracingEnabled:     obs.Tracing.Enabled,
		MetricsEnabled:     obs.Metrics.Enabled,
		ConsoleOutput:      obs.Console.Enabled,
		PrettyPrint:        obs.Console.PrettyPrint,
		SampleRate:         sampleRate,
		CollectionInterval: interval,
		Prometheus:         GetPrometheusConfig(cfg),
		OTLP:               obs.OTLP,
	}
}
