// Package telemetry provides OpenTelemetry tracing for settlement runs.
package telemetry

import (
	"context"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vovakirdan/tetris2048/internal/core"
)

const (
	// DefaultServiceName is used when Options.ServiceName is empty.
	DefaultServiceName = "tetris2048"
	serviceVersion     = "0.1.0"
	tracerPrefix       = "tetris2048/"
)

// Options configures the tracer provider installed by Setup.
type Options struct {
	ServiceName string
	// SampleRatio is the fraction of sessions traced. Values outside (0, 1)
	// trace everything.
	SampleRatio float64
	// Board is recorded on the resource so traces from differently sized
	// boards can be told apart.
	Board core.RuntimeConfig
}

// Setup installs an OTLP/HTTP tracer provider as the global provider.
// The exporter reads OTEL_EXPORTER_OTLP_ENDPOINT and OTEL_EXPORTER_OTLP_HEADERS.
// The returned function flushes pending spans.
func Setup(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	// Not merged with resource.Default(): its schema URL conflicts with ours.
	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(opts)...))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(opts.SampleRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func resourceAttributes(opts Options) []attribute.KeyValue {
	name := opts.ServiceName
	if name == "" {
		name = DefaultServiceName
	}
	board := opts.Board
	if board.Width <= 0 || board.Height <= 0 {
		board = core.DefaultConfig()
	}

	return []attribute.KeyValue{
		attribute.String("service.name", name),
		attribute.String("service.version", serviceVersion),
		attribute.String("host.name", hostname()),
		attribute.String("process.runtime.version", runtime.Version()),
		attribute.Int("tetris2048.board.width", board.Width),
		attribute.Int("tetris2048.board.height", board.Height),
		attribute.Int("tetris2048.board.win_score", board.WinScore),
	}
}

// sampler keeps whole sessions together: child spans follow the session span.
func sampler(ratio float64) sdktrace.Sampler {
	if ratio <= 0 || ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// Tracer returns a named tracer from the global provider. Before Setup runs
// the global provider is a no-op.
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerPrefix + name)
}

// NoopTracer returns a tracer that records nothing, for runs with telemetry off.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(tracerPrefix + "noop")
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
