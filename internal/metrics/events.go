package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EventMetrics covers change events published to NATS.
type EventMetrics struct {
	published       metric.Int64Counter
	publishErrors   metric.Int64Counter
	publishDuration metric.Float64Histogram
}

func NewEventMetrics(meter metric.Meter) (*EventMetrics, error) {
	em := &EventMetrics{}

	var err error

	em.published, err = meter.Int64Counter(
		"messaging.events.published",
		metric.WithDescription("Total number of change events published"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	em.publishErrors, err = meter.Int64Counter(
		"messaging.events.errors",
		metric.WithDescription("Total number of events that could not be published"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	// Buckets: 100µs to 1s
	em.publishDuration, err = meter.Float64Histogram(
		"messaging.events.publish_duration",
		metric.WithDescription("Time spent handing an event to the NATS client"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0),
	)
	if err != nil {
		return nil, err
	}

	return em, nil
}

// RecordPublish counts one publish attempt of eventType.
func (em *EventMetrics) RecordPublish(ctx context.Context, eventType string, duration time.Duration, err error) {
	if em == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("event.type", eventType))
	em.publishDuration.Record(ctx, duration.Seconds(), attrs)

	if err != nil {
		em.publishErrors.Add(ctx, 1, attrs)
		return
	}
	em.published.Add(ctx, 1, attrs)
}
