package tracker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"tableside/internal/app/core"
	"tableside/internal/domain/dto"
	"tableside/internal/domain/models"
)

// scriptedAPI returns one queued response (or error) per FetchOrder call and
// counts calls.
type scriptedAPI struct {
	mu        sync.Mutex
	responses []func() (models.Order, error)
	fallback  models.Order
	calls     atomic.Int64
}

func (f *scriptedAPI) CreateOrder(context.Context, dto.CreateOrderRequest) (models.Order, error) {
	return models.Order{}, core.Statef("not used")
}

func (f *scriptedAPI) FetchOrder(context.Context, string) (models.Order, error) {
	f.calls.Add(1)
	f.mu.Lock()
	var next func() (models.Order, error)
	if len(f.responses) > 0 {
		next = f.responses[0]
		f.responses = f.responses[1:]
	}
	f.mu.Unlock()
	if next == nil {
		return f.fallback, nil
	}
	return next()
}

func ok(o models.Order) func() (models.Order, error) {
	return func() (models.Order, error) { return o, nil }
}

func fail(err error) func() (models.Order, error) {
	return func() (models.Order, error) { return models.Order{}, err }
}

func TestClassify(t *testing.T) {
	active := []models.OrderStatus{models.StatusPending, models.StatusAccepted, models.StatusPreparing}
	for _, st := range active {
		if Classify(st) != PhaseActive {
			t.Errorf("expected %s active", st)
		}
	}
	terminal := []models.OrderStatus{models.StatusReady, models.StatusCompleted, models.StatusRejected}
	for _, st := range terminal {
		if Classify(st) != PhaseTerminal {
			t.Errorf("expected %s terminal", st)
		}
	}
}

func TestProgressSteps_ExactlyOneActive(t *testing.T) {
	for _, status := range models.StatusSequence {
		steps := ProgressSteps(status)
		if len(steps) != len(models.StatusSequence) {
			t.Fatalf("expected %d steps, got %d", len(models.StatusSequence), len(steps))
		}

		activeCount := 0
		rank := status.Rank()
		for i, step := range steps {
			switch step.State {
			case StepActive:
				activeCount++
				if step.Status != status {
					t.Errorf("status %s: active step is %s", status, step.Status)
				}
			case StepCompleted:
				if i >= rank {
					t.Errorf("status %s: step %s marked completed but not strictly earlier", status, step.Status)
				}
			case StepFuture:
				if i <= rank {
					t.Errorf("status %s: step %s marked future but not strictly later", status, step.Status)
				}
			}
		}
		if activeCount != 1 {
			t.Errorf("status %s: expected exactly one active step, got %d", status, activeCount)
		}
	}
}

func TestProgressSteps_RejectedSuppressesAll(t *testing.T) {
	for _, step := range ProgressSteps(models.StatusRejected) {
		if step.State != StepFuture {
			t.Errorf("rejected order: step %s should be neither completed nor active", step.Status)
		}
	}
}

func TestBind_NotFoundSurfaces(t *testing.T) {
	api := &scriptedAPI{responses: []func() (models.Order, error){
		fail(core.NotFoundf("order %q does not exist", "missing")),
	}}
	tr := New(api, time.Minute, zap.NewNop())

	if _, err := tr.Bind(context.Background(), "missing"); !core.IsNotFound(err) {
		t.Errorf("expected not-found error, got %v", err)
	}
	if _, bound := tr.Snapshot(); bound {
		t.Error("expected no snapshot after failed bind")
	}
}

func TestRefresh_FailureKeepsSnapshotAndFlagsStale(t *testing.T) {
	api := &scriptedAPI{responses: []func() (models.Order, error){
		ok(models.Order{ID: "o1", Status: models.StatusAccepted, TotalAmount: 2700}),
		fail(core.Transientf("connection reset")),
		ok(models.Order{ID: "o1", Status: models.StatusPreparing, TotalAmount: 2700}),
	}}
	tr := New(api, time.Minute, zap.NewNop())

	if _, err := tr.Bind(context.Background(), "o1"); err != nil {
		t.Fatal(err)
	}

	if err := tr.Refresh(context.Background()); !core.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
	snap, okSnap := tr.Snapshot()
	if !okSnap || snap.Status != models.StatusAccepted {
		t.Errorf("expected last-known-good snapshot retained, got %+v", snap)
	}
	if !tr.Stale() {
		t.Error("expected stale flag after failed refresh")
	}

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Stale() {
		t.Error("expected stale flag cleared after successful refresh")
	}
	snap, _ = tr.Snapshot()
	if snap.Status != models.StatusPreparing {
		t.Errorf("expected preparing, got %s", snap.Status)
	}
}

func TestRefresh_Unbound(t *testing.T) {
	tr := New(&scriptedAPI{}, time.Minute, zap.NewNop())
	if err := tr.Refresh(context.Background()); !core.IsState(err) {
		t.Errorf("expected state error, got %v", err)
	}
}

// A slow earlier response must never overwrite the snapshot applied by a
// logically later refresh.
func TestRefresh_ReorderedResponses(t *testing.T) {
	release := make(chan struct{})
	slow := func() (models.Order, error) {
		<-release
		return models.Order{ID: "o1", Status: models.StatusPending}, nil
	}
	api := &scriptedAPI{responses: []func() (models.Order, error){
		ok(models.Order{ID: "o1", Status: models.StatusPending}), // bind
		slow, // first refresh, stalls with an old status
		ok(models.Order{ID: "o1", Status: models.StatusPreparing}), // second refresh
	}}
	tr := New(api, time.Minute, zap.NewNop())

	if _, err := tr.Bind(context.Background(), "o1"); err != nil {
		t.Fatal(err)
	}

	firstDone := make(chan struct{})
	go func() {
		tr.Refresh(context.Background())
		close(firstDone)
	}()

	// ensure the slow refresh has been issued before the fast one
	deadline := time.After(time.Second)
	for api.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("slow refresh was never issued")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if err := tr.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	close(release)
	<-firstDone

	snap, _ := tr.Snapshot()
	if snap.Status != models.StatusPreparing {
		t.Errorf("older response overwrote newer snapshot: got %s", snap.Status)
	}
}

func TestPolling_StopsAtTerminalStatus(t *testing.T) {
	api := &scriptedAPI{
		responses: []func() (models.Order, error){
			ok(models.Order{ID: "o1", Status: models.StatusPreparing}), // bind
		},
		fallback: models.Order{ID: "o1", Status: models.StatusReady},
	}
	tr := New(api, 5*time.Millisecond, zap.NewNop())

	if _, err := tr.Bind(context.Background(), "o1"); err != nil {
		t.Fatal(err)
	}
	tr.Start(context.Background())

	deadline := time.After(time.Second)
	for tr.Phase() != PhaseTerminal {
		select {
		case <-deadline:
			t.Fatal("tracker never reached terminal phase")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	// the loop must have exited on its own; no further fetches happen
	time.Sleep(30 * time.Millisecond)
	settled := api.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := api.calls.Load(); got != settled {
		t.Errorf("polling continued after terminal status: %d -> %d calls", settled, got)
	}
}

func TestDetach_NoRefreshAfterwards(t *testing.T) {
	api := &scriptedAPI{fallback: models.Order{ID: "o1", Status: models.StatusPending}}
	tr := New(api, 5*time.Millisecond, zap.NewNop())

	if _, err := tr.Bind(context.Background(), "o1"); err != nil {
		t.Fatal(err)
	}
	tr.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	tr.Detach()

	settled := api.calls.Load()
	time.Sleep(40 * time.Millisecond)
	if got := api.calls.Load(); got != settled {
		t.Errorf("refresh observed after detach: %d -> %d calls", settled, got)
	}

	// snapshot stays readable after detach
	if _, okSnap := tr.Snapshot(); !okSnap {
		t.Error("expected snapshot to remain readable after detach")
	}
}
