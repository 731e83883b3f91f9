// Package telemetry wires an OpenTelemetry tracer provider with a
// stdout exporter. There is no collector in this deployment; the
// exporter keeps the tracing path real without one.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/grand-thief-cash/focusboard/internal/config"
	"github.com/grand-thief-cash/focusboard/internal/consts"
	"github.com/grand-thief-cash/focusboard/internal/core"
)

type Component struct {
	*core.BaseComponent
	cfg *config.TelemetryConfig
	tp  *sdktrace.TracerProvider
}

func NewComponent(cfg *config.TelemetryConfig) *Component {
	return &Component{
		BaseComponent: core.NewBaseComponent(consts.COMP_TELEMETRY, consts.COMP_LOGGING),
		cfg:           cfg,
	}
}

func (c *Component) Start(ctx context.Context) error {
	if err := c.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if !c.cfg.Enabled {
		return nil
	}
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("create stdout trace exporter: %w", err)
	}
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(c.cfg.ServiceName),
	))
	if err != nil {
		return fmt.Errorf("build otel resource: %w", err)
	}
	c.tp = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(c.tp)
	return nil
}

func (c *Component) Stop(ctx context.Context) error {
	if c.tp != nil {
		_ = c.tp.Shutdown(ctx)
	}
	return c.BaseComponent.Stop(ctx)
}

// Enabled reports whether tracing middleware should be installed.
func (c *Component) Enabled() bool { return c.cfg.Enabled }
