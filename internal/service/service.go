// Package service holds the application use cases. Services validate input,
// enforce role-based access, persist through the domain repositories and
// publish domain events for the workflow handlers.
package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/events"
)

var tracer = otel.Tracer("github.com/dmehra2102/prod-golang-projects/zentherapy/internal/service")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Publisher is the part of events.Bus the services use.
type Publisher interface {
	Publish(ctx context.Context, evts ...events.Event) error
}

// publish runs the workflow for evts. The originating write is already
// persisted, so failures are logged and not returned.
func publish(ctx context.Context, bus Publisher, log *zap.Logger, evts ...events.Event) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, evts...); err != nil {
		log.Error("event workflow failed", zap.Error(err))
	}
}

func requireString(errs []string, name, v string) []string {
	if strings.TrimSpace(v) == "" {
		return append(errs, name+" is required")
	}
	return errs
}

func checkDate(errs []string, name, v string) []string {
	if _, err := domain.ParseDate(v); err != nil {
		return append(errs, name+" must be YYYY-MM-DD")
	}
	return errs
}

func checkClock(errs []string, name, v string) []string {
	if _, err := domain.ParseClock(v); err != nil {
		return append(errs, name+" must be HH:mm")
	}
	return errs
}
