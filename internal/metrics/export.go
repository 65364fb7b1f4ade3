package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// DefaultJob is the Pushgateway job label when none is configured.
const DefaultJob = "svcwatch"

// ExportConfig selects where a pass snapshot is written. Empty fields disable
// the corresponding output.
type ExportConfig struct {
	// Textfile is a path for the node/windows exporter textfile collector.
	// The file is replaced atomically.
	Textfile string
	// PushgatewayURL is the base URL of a Prometheus Pushgateway.
	PushgatewayURL string
	Job            string
	// Grouping adds grouping labels to the pushed metrics, e.g. instance.
	Grouping map[string]string
}

// Enabled reports whether any output is configured.
func (c ExportConfig) Enabled() bool {
	return c.Textfile != "" || c.PushgatewayURL != ""
}

// Export writes the gathered metrics to every configured output. All outputs
// are attempted; their errors are joined.
func Export(ctx context.Context, g prometheus.Gatherer, cfg ExportConfig) error {
	var errs []error
	if cfg.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Textfile, g); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile %s: %w", cfg.Textfile, err))
		}
	}
	if cfg.PushgatewayURL != "" {
		job := cfg.Job
		if job == "" {
			job = DefaultJob
		}
		p := push.New(cfg.PushgatewayURL, job).Gatherer(g)
		for k, v := range cfg.Grouping {
			p = p.Grouping(k, v)
		}
		if err := p.PushContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("push metrics to %s: %w", cfg.PushgatewayURL, err))
		}
	}
	return errors.Join(errs...)
}
