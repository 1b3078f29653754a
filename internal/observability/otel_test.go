package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/miradorstack/workload-simulator/internal/config"
)

func TestInitTracerDisabled(t *testing.T) {
	var buf bytes.Buffer
	tracer, shutdown, err := initTracer(config.TracingConfig{Enabled: false}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := tracer.Start(context.Background(), "noop")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no exported spans, got %q", buf.String())
	}
}

func TestInitTracerExportsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer, shutdown, err := initTracer(config.TracingConfig{Enabled: true, ServiceName: "sim-test"}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, span := tracer.Start(context.Background(), "workload.simulate")
	span.End()
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "workload.simulate") || !strings.Contains(out, "sim-test") {
		t.Fatalf("expected span and service name in export, got %q", out)
	}
}
