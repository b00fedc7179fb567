// Package tracker mirrors the authoritative order status from the
// collaborator. It never mutates status itself; it fetches snapshots on a
// fixed interval and replaces the held one wholesale.
package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableside/internal/app/core"
	"tableside/internal/domain/models"
)

// Phase is the coarse classification deciding whether polling continues.
type Phase int

const (
	PhaseActive Phase = iota
	PhaseTerminal
)

// Classify maps a raw status to its phase.
func Classify(status models.OrderStatus) Phase {
	if status.Terminal() {
		return PhaseTerminal
	}
	return PhaseActive
}

type StepState int

const (
	StepFuture StepState = iota
	StepActive
	StepCompleted
)

type ProgressStep struct {
	Status models.OrderStatus
	State  StepState
}

// ProgressSteps derives the ordered checklist from the current status. A step
// is completed when the status has advanced strictly past it and active when
// it equals the current status. For a rejected order every step is future;
// callers render the rejection indicator instead.
func ProgressSteps(status models.OrderStatus) []ProgressStep {
	rank := status.Rank()
	steps := make([]ProgressStep, 0, len(models.StatusSequence))
	for i, st := range models.StatusSequence {
		state := StepFuture
		if rank >= 0 {
			if i < rank {
				state = StepCompleted
			} else if i == rank {
				state = StepActive
			}
		}
		steps = append(steps, ProgressStep{Status: st, State: state})
	}
	return steps
}

// DefaultPollInterval matches the reference cadence of one refresh every five
// seconds.
const DefaultPollInterval = 5 * time.Second

type Tracker struct {
	orders   core.IOrderAPI
	interval time.Duration
	mylog    *zap.Logger

	mu       sync.Mutex
	orderID  string
	snapshot *models.Order
	stale    bool
	seq      uint64 // last refresh issued
	applied  uint64 // last refresh whose snapshot was applied
	inflight bool

	cancel context.CancelFunc
	done   chan struct{}
}

func New(orders core.IOrderAPI, interval time.Duration, mylog *zap.Logger) *Tracker {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Tracker{
		orders:   orders,
		interval: interval,
		mylog:    mylog,
	}
}

// Bind attaches the tracker to an order and performs the initial fetch.
// Not-found surfaces to the caller untouched.
func (t *Tracker) Bind(ctx context.Context, orderID string) (models.Order, error) {
	order, err := t.orders.FetchOrder(ctx, orderID)
	if err != nil {
		t.mylog.Error("failed to bind order", zap.String("action", "bind"), zap.String("order_id", orderID), zap.Error(err))
		return models.Order{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.orderID = orderID
	t.snapshot = &order
	t.stale = false
	t.seq = 0
	t.applied = 0
	return order, nil
}

// Refresh fetches the current snapshot and applies it only if no logically
// later refresh has been applied already, so a slow early response never
// overwrites a faster later one. A transport failure keeps the last-known-good
// snapshot and raises the stale flag.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	if t.orderID == "" {
		t.mu.Unlock()
		return core.Statef("tracker is not bound to an order")
	}
	id := t.orderID
	t.seq++
	seq := t.seq
	t.mu.Unlock()

	order, err := t.orders.FetchOrder(ctx, id)

	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.stale = true
		return err
	}
	if seq <= t.applied {
		// an out-of-order arrival; the applied snapshot is logically newer
		return nil
	}
	t.applied = seq
	t.snapshot = &order
	t.stale = false
	return nil
}

// Snapshot returns the last-known-good order.
func (t *Tracker) Snapshot() (models.Order, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return models.Order{}, false
	}
	return *t.snapshot, true
}

// Stale reports whether the last refresh attempt failed.
func (t *Tracker) Stale() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stale
}

// Phase classifies the held snapshot. An unbound tracker is active so that a
// caller never stops waiting on a missing snapshot by accident.
func (t *Tracker) Phase() Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return PhaseActive
	}
	return Classify(t.snapshot.Status)
}

// Steps derives the progress checklist from the held snapshot, and reports
// whether the order was rejected.
func (t *Tracker) Steps() ([]ProgressStep, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.snapshot == nil {
		return ProgressSteps(""), false
	}
	return ProgressSteps(t.snapshot.Status), t.snapshot.Status == models.StatusRejected
}

// Start launches the poll loop. Ticks are skipped while a refresh is in
// flight; the loop exits when the snapshot turns terminal, the context is
// canceled, or Detach is called. Transient refresh failures are swallowed
// into the stale flag and polling continues on the next tick.
func (t *Tracker) Start(ctx context.Context) {
	t.mu.Lock()
	if t.done != nil || t.orderID == "" {
		t.mu.Unlock()
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	go t.poll(pollCtx, done)
}

func (t *Tracker) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	if t.Phase() == PhaseTerminal {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !t.acquire() {
				continue
			}
			err := t.Refresh(ctx)
			t.release()
			if err != nil {
				t.mylog.Warn("refresh failed, keeping last snapshot",
					zap.String("action", "poll_refresh"), zap.Error(err))
				continue
			}
			if t.Phase() == PhaseTerminal {
				t.mylog.Info("order reached terminal status, polling stopped",
					zap.String("action", "poll_stopped"))
				return
			}
		}
	}
}

func (t *Tracker) acquire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.inflight {
		return false
	}
	t.inflight = true
	return true
}

func (t *Tracker) release() {
	t.mu.Lock()
	t.inflight = false
	t.mu.Unlock()
}

// Detach stops polling and waits for the loop to exit; no refresh fires after
// it returns. The held snapshot stays readable.
func (t *Tracker) Detach() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.done = nil
	t.orderID = ""
	t.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
