// Copyright 2024 Chainguard, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing wires an OpenTelemetry TracerProvider the way
// eslerm-melange2's build command does inline (a --trace flag creating
// a stdouttrace exporter around the command's own span), generalized
// into a reusable Setup. Its caller is pkg/cli's root command, which
// passes the --trace file; no caller sets OTLPEndpoint.
package tracing

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config selects where trace output goes. At most one of TraceFile or
// OTLPEndpoint should be set; OTLPEndpoint wins if both are.
type Config struct {
	// TraceFile writes spans as JSON to a local file, the teacher's
	// --trace flag behavior.
	TraceFile string
	// OTLPEndpoint ships spans to a collector via gRPC, the
	// out-of-process counterpart SPEC_FULL.md's ambient stack adds for
	// server-mode renders.
	OTLPEndpoint string
	ServiceName  string
}

// Shutdown flushes and releases the tracer provider Setup installed.
// It is a no-op if tracing was never enabled.
type Shutdown func(context.Context) error

// Setup installs a global TracerProvider per cfg and returns its
// Shutdown. If cfg names neither a trace file nor an OTLP endpoint,
// Setup is a no-op and the returned Shutdown does nothing — archetect
// runs perfectly well with no tracer configured, matching melange's
// "only pay for it if --trace is passed" behavior.
func Setup(ctx context.Context, cfg Config) (Shutdown, error) {
	var exporter sdktrace.SpanExporter
	var err error

	switch {
	case cfg.OTLPEndpoint != "":
		exporter, err = otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint), otlptracegrpc.WithInsecure())
		if err != nil {
			return nil, fmt.Errorf("creating otlp exporter: %w", err)
		}
	case cfg.TraceFile != "":
		w, err := os.Create(cfg.TraceFile)
		if err != nil {
			return nil, fmt.Errorf("creating trace file: %w", err)
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("creating stdout exporter: %w", err)
		}
	default:
		return func(context.Context) error { return nil }, nil
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// Tracer is a thin alias so callers don't need their own
// go.opentelemetry.io/otel import just to start a span.
func Tracer(name string) func(ctx context.Context, spanName string) (context.Context, func()) {
	t := otel.Tracer(name)
	return func(ctx context.Context, spanName string) (context.Context, func()) {
		ctx, span := t.Start(ctx, spanName)
		return ctx, span.End
	}
}
