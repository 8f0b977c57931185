package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type APIMetrics struct {
	requestDuration     metric.Float64Histogram
	requirementsCreated metric.Int64Counter
	requirementsDeleted metric.Int64Counter
	requirementsToggled metric.Int64Counter
}

func NewAPIMetrics(meter metric.Meter) (*APIMetrics, error) {
	am := &APIMetrics{}

	var err error

	am.requestDuration, err = meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0,
		),
	)
	if err != nil {
		return nil, err
	}

	am.requirementsCreated, err = meter.Int64Counter(
		"tracker.requirements.created",
		metric.WithDescription("Requirements created"),
		metric.WithUnit("{requirement}"),
	)
	if err != nil {
		return nil, err
	}

	am.requirementsDeleted, err = meter.Int64Counter(
		"tracker.requirements.deleted",
		metric.WithDescription("Requirements deleted"),
		metric.WithUnit("{requirement}"),
	)
	if err != nil {
		return nil, err
	}

	am.requirementsToggled, err = meter.Int64Counter(
		"tracker.requirements.toggled",
		metric.WithDescription("Requirement status toggles"),
		metric.WithUnit("{toggle}"),
	)
	if err != nil {
		return nil, err
	}

	return am, nil
}

func (am *APIMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if am == nil {
		return
	}
	am.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.String("http.response.status_code", strconv.Itoa(status)),
	))
}

func (am *APIMetrics) RecordRequirementCreated(ctx context.Context) {
	if am == nil {
		return
	}
	am.requirementsCreated.Add(ctx, 1)
}

func (am *APIMetrics) RecordRequirementDeleted(ctx context.Context) {
	if am == nil {
		return
	}
	am.requirementsDeleted.Add(ctx, 1)
}

func (am *APIMetrics) RecordRequirementToggled(ctx context.Context, active bool) {
	if am == nil {
		return
	}
	am.requirementsToggled.Add(ctx, 1, metric.WithAttributes(attribute.Bool("active", active)))
}
