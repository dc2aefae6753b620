package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/go-drift/fiber/pkg/config"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/logging"
	"github.com/go-drift/fiber/pkg/metrics"
	"github.com/go-drift/fiber/pkg/platform"
)

const tracerName = "github.com/go-drift/fiber/cmd/fiber"

// runtime is the ambient stack of one command invocation, built from
// fiber.yaml and the persistent flags.
type runtime struct {
	cfg      *config.Config
	log      zerolog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	provider *sdktrace.TracerProvider
	show     bool
}

func newRuntime(cmd *cobra.Command, opts *globalOptions) (*runtime, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if opts.trace {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = "stdout"
	}
	if opts.showMetrics {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	errors.SetHandler(errors.NewLogHandlerFromLogger(log))

	rt := &runtime{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
		metrics:  metrics.Unregistered(),
		show:     opts.showMetrics,
	}
	if cfg.Metrics.Enabled {
		if rt.metrics, err = metrics.New(cfg.Metrics.Namespace, rt.registry); err != nil {
			return nil, err
		}
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "stdout" {
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(cmd.ErrOrStderr()),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		rt.provider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	}

	rt.log.Debug().
		Str("level", cfg.Log.Level).
		Bool("metrics", cfg.Metrics.Enabled).
		Bool("tracing", rt.provider != nil).
		Msg("runtime ready")
	return rt, nil
}

// reconcilerOptions maps the configuration to core options.
func (rt *runtime) reconcilerOptions() core.Options {
	opts := core.Options{
		Logger:            &rt.log,
		Metrics:           rt.metrics,
		NestedUpdateLimit: rt.cfg.Reconciler.NestedUpdateLimit,
	}
	if rt.provider != nil {
		opts.Tracer = rt.provider.Tracer(tracerName)
	}
	return opts
}

// newQueue returns a microtask queue honoring the configured flush limit.
func (rt *runtime) newQueue() *platform.Queue {
	q := platform.NewQueue(rt.cfg.Scheduler.FlushLimit)
	q.Log = rt.log
	return q
}

// close flushes spans, prints metrics when requested and restores the
// default error handler.
func (rt *runtime) close(ctx context.Context, w io.Writer) error {
	defer errors.SetHandler(nil)
	var errs []error
	if rt.show {
		errs = append(errs, rt.writeMetrics(w))
	}
	if rt.provider != nil {
		errs = append(errs, rt.provider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// closeInto closes rt and stores the error in *errp unless it already holds
// one. It is meant to be deferred from a RunE with a named error result.
func (rt *runtime) closeInto(ctx context.Context, w io.Writer, errp *error) {
	if err := rt.close(ctx, w); err != nil && *errp == nil {
		*errp = err
	}
}

// writeMetrics prints every counter and histogram count, one per line,
// sorted by name.
func (rt *runtime) writeMetrics(w io.Writer) error {
	families, err := rt.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue()))
			}
			name := mf.GetName()
			if len(labels) > 0 {
				name += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				lines = append(lines, fmt.Sprintf("%s count=%d", name, m.GetHistogram().GetSampleCount()))
			}
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
