package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/fx"

	"github.com/Alijeyrad/officehours_backend/config"
	"github.com/Alijeyrad/officehours_backend/internal/events"
	"github.com/Alijeyrad/officehours_backend/internal/service/notification"
	"github.com/Alijeyrad/officehours_backend/pkg/observability"
)

const (
	defaultNotificationWorkers = 4
	eventHandleTimeout         = 30 * time.Second
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc       fx.Lifecycle
	Cfg      *config.Config
	NC       *nats.Conn `optional:"true"`
	NotifSvc notification.Service
}

// AppointmentHandler is the part of notification.Service the worker needs.
type AppointmentHandler interface {
	HandleAppointmentEvent(ctx context.Context, kind events.Kind, ev events.AppointmentEvent) error
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		return
	}

	w := newNotificationWorker(p.NC, p.NotifSvc, p.Cfg.Notifications.Workers)

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return w.start()
		},
		OnStop: func(ctx context.Context) error {
			w.stop()
			return nil
		},
	})
}

// ---------------------------------------------------------------------------
// notification_worker
// ---------------------------------------------------------------------------

type notificationWorker struct {
	nc      *nats.Conn
	handler AppointmentHandler
	pool    *pool.Pool
	subs    []*nats.Subscription

	// mu guards stopped. Submissions hold the read lock across pool.Go so
	// stop cannot close the pool under a callback that is still running.
	mu      sync.RWMutex
	stopped bool
}

func newNotificationWorker(nc *nats.Conn, h AppointmentHandler, workers int) *notificationWorker {
	if workers <= 0 {
		workers = defaultNotificationWorkers
	}
	return &notificationWorker{
		nc:      nc,
		handler: h,
		pool:    pool.New().WithMaxGoroutines(workers),
	}
}

func (w *notificationWorker) start() error {
	for _, kind := range []events.Kind{events.KindBooked, events.KindCancelled, events.KindCompleted} {
		sub, err := w.nc.Subscribe(events.Wildcard(kind), func(msg *nats.Msg) {
			w.submit(msg.Subject, msg.Data)
		})
		if err != nil {
			w.stop()
			return fmt.Errorf("notification_worker: subscribe %s: %w", kind, err)
		}
		w.subs = append(w.subs, sub)
	}
	slog.Info("notification_worker: started", "subjects", len(w.subs))
	return nil
}

// submit queues one message. It reports false once the worker is stopped;
// late NATS deliveries are dropped.
func (w *notificationWorker) submit(subject string, data []byte) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		slog.Debug("notification_worker: dropping message after stop", "subject", subject)
		return false
	}
	w.pool.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventHandleTimeout)
		defer cancel()
		dispatchAppointmentEvent(ctx, w.handler, subject, data)
	})
	return true
}

// stop unsubscribes, refuses further submissions, then waits for in-flight
// handlers. Callbacks already running when Unsubscribe returns are either
// queued before stopped is set or dropped by submit. Calling stop twice is
// a no-op.
func (w *notificationWorker) stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	for _, sub := range w.subs {
		if err := sub.Unsubscribe(); err != nil {
			slog.Warn("notification_worker: unsubscribe failed", "subject", sub.Subject, "err", err)
		}
	}
	w.subs = nil
	w.stopped = true
	w.mu.Unlock()

	w.pool.Wait()
}

// dispatchAppointmentEvent handles one message and reports whether the
// handler succeeded. Malformed messages are dropped.
func dispatchAppointmentEvent(ctx context.Context, h AppointmentHandler, subject string, data []byte) bool {
	kind, apptID, err := events.ParseSubject(subject)
	if err != nil {
		slog.Warn("notification_worker: bad subject", "subject", subject, "err", err)
		return false
	}

	ev, err := events.Decode(data)
	if err != nil {
		slog.Warn("notification_worker: bad payload", "subject", subject, "err", err)
		observability.RecordAppointmentEvent(ctx, string(kind), false)
		return false
	}
	if ev.AppointmentID != apptID {
		slog.Warn("notification_worker: subject and payload disagree",
			"subject", subject, "payload_id", ev.AppointmentID)
		observability.RecordAppointmentEvent(ctx, string(kind), false)
		return false
	}

	err = h.HandleAppointmentEvent(ctx, kind, ev)
	observability.RecordAppointmentEvent(ctx, string(kind), err == nil)
	if err != nil {
		slog.Warn("notification_worker: handle failed", "kind", kind, "appointment_id", apptID, "err", err)
		return false
	}
	return true
}
