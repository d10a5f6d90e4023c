package pan

import (
	"errors"
	"math"
	"sync"
	"testing"

	derrors "github.com/matzehuels/driftgrid/pkg/errors"
	"github.com/matzehuels/driftgrid/pkg/motion"
)

// recorder captures samples and proxy resyncs in arrival order.
type recorder struct {
	samples []motion.Sample
	log     []string
	resyncs []motion.Offset
	err     error
}

func (r *recorder) Apply(s motion.Sample) error {
	r.samples = append(r.samples, s)
	r.log = append(r.log, "sample")
	return r.err
}

func (r *recorder) Resync(x, y float64) {
	r.resyncs = append(r.resyncs, motion.Offset{X: x, Y: y})
	r.log = append(r.log, "resync")
}

func (r *recorder) last() motion.Sample {
	return r.samples[len(r.samples)-1]
}

func TestDragSetsAbsoluteOffset(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec)

	if err := tr.Drag(DragMove{X: 100, Y: 50, DeltaX: 4, DeltaY: -2}); err != nil {
		t.Fatalf("Drag() error = %v", err)
	}
	want := motion.Sample{Offset: motion.Offset{X: 100, Y: 50}, Velocity: motion.Velocity{X: 4, Y: -2}}
	if got := rec.last(); got != want {
		t.Errorf("sample = %+v, want %+v", got, want)
	}
	if got := tr.Offset(); got != want.Offset {
		t.Errorf("Offset() = %+v, want %+v", got, want.Offset)
	}
}

func TestThrowSetsAbsoluteOffset(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec)

	if err := tr.Throw(ThrowUpdate{X: -3000, Y: 12, DeltaX: -30, DeltaY: 0}); err != nil {
		t.Fatalf("Throw() error = %v", err)
	}
	want := motion.Sample{Offset: motion.Offset{X: -3000, Y: 12}, Velocity: motion.Velocity{X: -30}}
	if got := rec.last(); got != want {
		t.Errorf("sample = %+v, want %+v", got, want)
	}
}

func TestScrollInversion(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, WithProxy(rec))

	if err := tr.Drag(DragMove{X: 100, Y: 50}); err != nil {
		t.Fatalf("Drag() error = %v", err)
	}
	rec.log = nil

	if err := tr.Scroll(ScrollDelta{DeltaX: 10, DeltaY: 0}); err != nil {
		t.Fatalf("Scroll() error = %v", err)
	}

	got := rec.last()
	if got.Offset != (motion.Offset{X: 90, Y: 50}) {
		t.Errorf("Offset = %+v, want {X:90 Y:50}", got.Offset)
	}
	if got.Velocity != (motion.Velocity{X: -10, Y: 0}) {
		t.Errorf("Velocity = %+v, want {X:-10 Y:0}", got.Velocity)
	}
	if len(rec.resyncs) != 1 || rec.resyncs[0] != (motion.Offset{X: 90, Y: 50}) {
		t.Errorf("resyncs = %+v, want [{X:90 Y:50}]", rec.resyncs)
	}
	if len(rec.log) != 2 || rec.log[0] != "resync" || rec.log[1] != "sample" {
		t.Errorf("call order = %v, want [resync sample]", rec.log)
	}
}

func TestDragDoesNotResync(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec, WithProxy(rec))
	if err := tr.Drag(DragMove{X: 1, Y: 1, DeltaX: 1, DeltaY: 1}); err != nil {
		t.Fatalf("Drag() error = %v", err)
	}
	if len(rec.resyncs) != 0 {
		t.Errorf("Drag triggered %d resyncs, want 0", len(rec.resyncs))
	}
}

func TestZeroDeltaEventsAreForwarded(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec)

	events := []Event{
		{Kind: KindDrag},
		{Kind: KindThrow},
		{Kind: KindScroll},
	}
	for _, e := range events {
		if err := tr.Dispatch(e); err != nil {
			t.Fatalf("Dispatch(%v) error = %v", e.Kind, err)
		}
	}
	if len(rec.samples) != len(events) {
		t.Fatalf("got %d samples, want %d", len(rec.samples), len(events))
	}
	for i, s := range rec.samples {
		if s != motion.Zero() {
			t.Errorf("sample %d = %+v, want zero", i, s)
		}
	}
}

func TestRejectsNonFinite(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name  string
		event Event
	}{
		{"drag NaN x", Event{Kind: KindDrag, X: nan}},
		{"drag Inf delta", Event{Kind: KindDrag, DeltaY: inf}},
		{"throw NaN y", Event{Kind: KindThrow, Y: nan}},
		{"scroll NaN delta", Event{Kind: KindScroll, DeltaX: nan}},
		{"scroll -Inf delta", Event{Kind: KindScroll, DeltaY: math.Inf(-1)}},
		{"scroll overflow", Event{Kind: KindScroll, DeltaX: -math.MaxFloat64}},
		{"unknown kind", Event{Kind: Kind(42)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			tr := NewTracker(rec, WithProxy(rec))
			if err := tr.Drag(DragMove{X: math.MaxFloat64, Y: 7}); err != nil {
				t.Fatalf("Drag() error = %v", err)
			}
			before := tr.Offset()
			samples := len(rec.samples)

			err := tr.Dispatch(tt.event)
			if !derrors.Is(err, derrors.ErrCodeInvalidEvent) {
				t.Errorf("Dispatch() error = %v, want INVALID_EVENT", err)
			}
			if got := tr.Offset(); got != before {
				t.Errorf("Offset() = %+v, want unchanged %+v", got, before)
			}
			if len(rec.samples) != samples {
				t.Errorf("rejected event forwarded a sample")
			}
			if len(rec.resyncs) != 0 {
				t.Errorf("rejected event resynced the proxy")
			}
		})
	}
}

func TestListenerErrorIsWrapped(t *testing.T) {
	sinkErr := errors.New("sink closed")
	rec := &recorder{err: sinkErr}
	tr := NewTracker(rec)

	err := tr.Drag(DragMove{X: 5})
	if !errors.Is(err, sinkErr) {
		t.Errorf("Drag() error = %v, want wrapping %v", err, sinkErr)
	}
	if !derrors.Is(err, derrors.ErrCodeInternal) {
		t.Errorf("Drag() code = %v, want %v", derrors.GetCode(err), derrors.ErrCodeInternal)
	}
	if tr.Offset().X != 5 {
		t.Errorf("Offset().X = %v, want 5 (event was accepted)", tr.Offset().X)
	}
}

func TestReset(t *testing.T) {
	rec := &recorder{}
	tr := NewTracker(rec)
	tr.SetProxy(rec)

	if err := tr.Drag(DragMove{X: 10, Y: 20, DeltaX: 1}); err != nil {
		t.Fatalf("Drag() error = %v", err)
	}
	if err := tr.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if got := rec.last(); got != motion.Zero() {
		t.Errorf("Reset sample = %+v, want zero", got)
	}
	if got := tr.Offset(); got != (motion.Offset{}) {
		t.Errorf("Offset() = %+v, want zero", got)
	}
	if len(rec.resyncs) != 1 || rec.resyncs[0] != (motion.Offset{}) {
		t.Errorf("resyncs = %+v, want [{0 0}]", rec.resyncs)
	}
}

func TestNilListener(t *testing.T) {
	tr := NewTracker(nil)
	if err := tr.Scroll(ScrollDelta{DeltaX: 3, DeltaY: 4}); err != nil {
		t.Fatalf("Scroll() error = %v", err)
	}
	if got := tr.Offset(); got != (motion.Offset{X: -3, Y: -4}) {
		t.Errorf("Offset() = %+v, want {X:-3 Y:-4}", got)
	}
}

func TestConcurrentScrolls(t *testing.T) {
	var mu sync.Mutex
	count := 0
	tr := NewTracker(ListenerFunc(func(motion.Sample) error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	}))

	const workers, perWorker = 8, 250
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				_ = tr.Scroll(ScrollDelta{DeltaX: 1, DeltaY: -1})
			}
		}()
	}
	wg.Wait()

	want := motion.Offset{X: -workers * perWorker, Y: workers * perWorker}
	if got := tr.Offset(); got != want {
		t.Errorf("Offset() = %+v, want %+v", got, want)
	}
	if count != workers*perWorker {
		t.Errorf("listener called %d times, want %d", count, workers*perWorker)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"drag", KindDrag, false},
		{"THROW", KindThrow, false},
		{" scroll ", KindScroll, false},
		{"wheel", KindScroll, false},
		{"pinch", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if !tt.wantErr && got.String() != tt.want.String() {
			t.Errorf("String() round trip mismatch for %q", tt.in)
		}
	}
}
