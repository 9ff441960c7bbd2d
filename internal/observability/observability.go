// Copyright 2025 Kadir Pekel
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

// Package observability wires OpenTelemetry tracing and metrics around
// the Iteration Controller, adapted from the teacher's
// pkg/observability: one span per iteration, one span per Driver Client
// call made by the Iteration Controller (the Event Demultiplexer's
// approval-gate calls are not traced), and three counters (iterations, tool calls, tokens) exported
// through the OTel Prometheus bridge so a single /metrics endpoint
// serves both.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kadirpekel/hector-driverloop/driverloop"

// Metrics are the three counters SPEC_FULL.md's domain stack section
// names: iterations, tool calls (by tool name), and tokens counted (the
// prompt plus the response text of each Driver Client call, with no
// attributes).
type Metrics struct {
	Iterations metric.Int64Counter
	ToolCalls  metric.Int64Counter
	Tokens     metric.Int64Counter
}

// NewMetrics builds an OTel MeterProvider backed by the Prometheus
// bridge registered against reg, and the three counters read from it.
// Use prometheus.NewRegistry() in tests to avoid global-registry
// collisions across runs.
func NewMetrics(reg *prometheus.Registry) (*Metrics, error) {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(instrumentationName)

	iterations, err := meter.Int64Counter("driverloop_iterations_total", metric.WithDescription("Total number of Iteration Controller turns executed."))
	if err != nil {
		return nil, err
	}
	toolCalls, err := meter.Int64Counter("driverloop_tool_calls_total", metric.WithDescription("Total Supervisor tool invocations, by tool name."))
	if err != nil {
		return nil, err
	}
	tokens, err := meter.Int64Counter("driverloop_tokens_total", metric.WithDescription("Total tokens counted across Driver Client prompts and responses."))
	if err != nil {
		return nil, err
	}

	return &Metrics{Iterations: iterations, ToolCalls: toolCalls, Tokens: tokens}, nil
}

// NewTracer builds a trace.Tracer writing spans to stdout, matching the
// teacher's default exporter choice for a standalone CLI process (no
// external collector assumed).
func NewTracer(ctx context.Context) (trace.Tracer, func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, err
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	return provider.Tracer(instrumentationName), provider.Shutdown, nil
}

// StartIteration opens the one-span-per-iteration span.
func StartIteration(ctx context.Context, tracer trace.Tracer, iteration int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "driverloop.iteration", trace.WithAttributes(attribute.Int("iteration", iteration)))
}

// StartDriverCall opens the one-span-per-Driver-Client-call span.
func StartDriverCall(ctx context.Context, tracer trace.Tracer, template string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "driverloop.driver_call", trace.WithAttributes(attribute.String("template", template)))
}
