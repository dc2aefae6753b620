package core

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/go-drift/fiber/pkg/element"
	"github.com/go-drift/fiber/pkg/metrics"
)

func TestTracing_RenderAndCommitSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	h := newHarness(t, func(o *Options) { o.Tracer = tp.Tracer("test") })

	h.render(list("a"))

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "fiber.render", spans[0].Name())
	assert.Equal(t, "fiber.commit", spans[1].Name())
	want := attribute.String("fiber.root", h.root.ID().String())
	for _, s := range spans {
		assert.Contains(t, s.Attributes(), want)
	}
}

func TestLogging_FlushDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	h := newHarness(t, func(o *Options) { o.Logger = &log })

	h.render(list("a"))

	out := buf.String()
	assert.Contains(t, out, `"message":"root created"`)
	assert.Contains(t, out, `"message":"commit"`)
	assert.Contains(t, out, `"message":"root flushed"`)
	assert.Contains(t, out, h.root.ID().String())
	assert.Contains(t, out, `"component":"reconciler"`)
}

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New("fibertest", reg)
	require.NoError(t, err)
	h := newHarness(t, func(o *Options) { o.Metrics = m })

	c := newCounter()
	withEffect := element.NewComponent("WithEffect", func(hk element.Hooks, p element.Props) element.Node {
		element.UseEffect(hk, func() func() { return func() {} }, nil)
		return nil
	})
	h.render(element.H("div", nil, element.H(c.comp, nil), element.H(withEffect, nil)))
	c.set.Set(1)
	h.flush()

	assert.Equal(t, 2.0, counterValue(m.Renders))
	assert.Equal(t, 2.0, counterValue(m.Commits))
	assert.Equal(t, 2.0, counterValue(m.ComponentRenders.WithLabelValues("Counter")))
	assert.Equal(t, 1.0, counterValue(m.ComponentRenders.WithLabelValues("WithEffect")))
	assert.Equal(t, 1.0, counterValue(m.HostMutations.WithLabelValues(opPlacement)))
	assert.Equal(t, 1.0, counterValue(m.Effects.WithLabelValues("effect.create")))

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		assert.False(t, strings.HasPrefix(mf.GetName(), "fibertest_"), "metrics must not leak into the default registry")
	}
}

func TestDump(t *testing.T) {
	h := newHarness(t)
	h.render(element.H(item, element.Props{"id": "a"}))

	want := strings.Join([]string{
		"HostRoot",
		`  FunctionComponent(Item)`,
		`    HostComponent(li)`,
		"",
	}, "\n")
	assert.Equal(t, want, DumpString(h.root.Current()))
}
