package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	Refreshes       metric.Int64Counter
	Retries         metric.Int64Counter
	SessionsExpired metric.Int64Counter
	Logins          metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	refreshes, err := meter.Int64Counter("api_refresh_total",
		metric.WithDescription("Access token refresh calls by outcome"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	retries, err := meter.Int64Counter("api_retries_total",
		metric.WithDescription("Requests replayed after a token refresh"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	expired, err := meter.Int64Counter("sessions_expired_total",
		metric.WithDescription("Sessions cleared after a failed refresh"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	logins, err := meter.Int64Counter("logins_total",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Refreshes:       refreshes,
		Retries:         retries,
		SessionsExpired: expired,
		Logins:          logins,
	}, nil
}

func outcome(ok bool) metric.AddOption {
	v := "failure"
	if ok {
		v = "success"
	}
	return metric.WithAttributes(attribute.String("outcome", v))
}

func (m *Metrics) Refresh(ctx context.Context, ok bool) {
	if m == nil {
		return
	}
	m.Refreshes.Add(ctx, 1, outcome(ok))
}

func (m *Metrics) Retry(ctx context.Context) {
	if m == nil {
		return
	}
	m.Retries.Add(ctx, 1)
}

func (m *Metrics) Expired(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionsExpired.Add(ctx, 1)
}

func (m *Metrics) Login(ctx context.Context, ok bool) {
	if m == nil {
		return
	}
	m.Logins.Add(ctx, 1, outcome(ok))
}
