package debounce

import (
	"testing"
	"time"
)

func newTestDebouncer(window time.Duration) (*Debouncer, *time.Time) {
	d := New(window)
	current := time.Unix(1000, 0)
	d.now = func() time.Time { return current }
	return d, &current
}

func TestFirstSampleNeverFires(t *testing.T) {
	d, _ := newTestDebouncer(200 * time.Millisecond)

	if d.Sample(3, true) {
		t.Fatal("first sample fired an event")
	}
	if d.Sample(3, true) {
		t.Fatal("held button fired an event")
	}
}

func TestRisingEdgeFires(t *testing.T) {
	d, _ := newTestDebouncer(200 * time.Millisecond)

	d.Sample(1, false)
	if !d.Sample(1, true) {
		t.Fatal("rising edge did not fire")
	}
	if d.Sample(1, true) {
		t.Fatal("level did not reset between samples")
	}
}

func TestChatterWithinWindowSuppressed(t *testing.T) {
	d, clock := newTestDebouncer(200 * time.Millisecond)

	// Raw sequence F,T,T,F,T inside one window: exactly one event.
	events := 0
	for _, raw := range []bool{false, true, true, false, true} {
		if d.Sample(3, raw) {
			events++
		}
		*clock = clock.Add(10 * time.Millisecond)
	}
	if events != 1 {
		t.Fatalf("expected 1 event, got %d", events)
	}
}

func TestEventAfterWindowElapsed(t *testing.T) {
	d, clock := newTestDebouncer(200 * time.Millisecond)

	d.Sample(5, false)
	if !d.Sample(5, true) {
		t.Fatal("first press did not fire")
	}
	d.Sample(5, false)

	*clock = clock.Add(250 * time.Millisecond)
	if !d.Sample(5, true) {
		t.Fatal("press after window did not fire")
	}
}

func TestPositionsAreIndependent(t *testing.T) {
	d, _ := newTestDebouncer(200 * time.Millisecond)

	d.Sample(1, false)
	d.Sample(2, false)
	if !d.Sample(1, true) {
		t.Fatal("position 1 press did not fire")
	}
	if !d.Sample(2, true) {
		t.Fatal("position 2 press suppressed by position 1 state")
	}
}

func TestResetClearsBaselines(t *testing.T) {
	d, _ := newTestDebouncer(200 * time.Millisecond)

	d.Sample(1, false)
	d.Reset()
	if d.Sample(1, true) {
		t.Fatal("sample after reset fired; baseline should be re-established first")
	}
}
