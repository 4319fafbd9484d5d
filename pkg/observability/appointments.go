package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	apptOnce    sync.Once
	apptEvents  metric.Int64Counter
	apptHandled metric.Int64Counter
)

func appointmentCounters() (metric.Int64Counter, metric.Int64Counter) {
	apptOnce.Do(func() {
		meter := otel.Meter(tracerName)
		apptEvents, _ = meter.Int64Counter(
			"officehours_appointment_events_total",
			metric.WithDescription("Appointment state changes received by the notification worker"),
		)
		apptHandled, _ = meter.Int64Counter(
			"officehours_notifications_delivered_total",
			metric.WithDescription("Appointment notifications stored, by outcome"),
		)
	})
	return apptEvents, apptHandled
}

// RecordAppointmentEvent counts one handled appointment event. ok is false
// when the notification could not be stored.
func RecordAppointmentEvent(ctx context.Context, kind string, ok bool) {
	events, handled := appointmentCounters()
	if events == nil || handled == nil {
		return
	}
	events.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))

	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	handled.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	))
}
