package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database     *DatabaseMetrics
	API          *APIMetrics
	Events       *EventMetrics
	Dependencies *DependencyMetrics
}

// New builds the instrument set on the global meter provider.
func New(serviceName string) (*Metrics, error) {
	return NewWithMeter(otel.Meter(serviceName))
}

func NewWithMeter(meter metric.Meter) (*Metrics, error) {
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	api, err := NewAPIMetrics(meter)
	if err != nil {
		return nil, err
	}

	events, err := NewEventMetrics(meter)
	if err != nil {
		return nil, err
	}

	dependencies, err := NewDependencyMetrics(meter)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Database:     database,
		API:          api,
		Events:       events,
		Dependencies: dependencies,
	}, nil
}

// DB returns the database instruments, tolerating a nil *Metrics.
func (m *Metrics) DB() *DatabaseMetrics {
	if m == nil {
		return nil
	}
	return m.Database
}

// HTTP returns the API instruments, tolerating a nil *Metrics.
func (m *Metrics) HTTP() *APIMetrics {
	if m == nil {
		return nil
	}
	return m.API
}

// Messaging returns the event instruments, tolerating a nil *Metrics.
func (m *Metrics) Messaging() *EventMetrics {
	if m == nil {
		return nil
	}
	return m.Events
}

// Health returns the dependency instruments, tolerating a nil *Metrics.
func (m *Metrics) Health() *DependencyMetrics {
	if m == nil {
		return nil
	}
	return m.Dependencies
}
