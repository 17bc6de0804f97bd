package debounce

import (
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu     sync.Mutex
	values []string
}

func (r *recorder) emit(value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.values...)
}

func TestDebounceCollapsesBurst(t *testing.T) {
	r := &recorder{}
	d := New(50*time.Millisecond, r.emit)
	defer d.Stop()

	for _, v := range []string{"w", "we", "wel", "well"} {
		d.Set(v)
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)

	got := r.snapshot()
	if len(got) != 1 || got[0] != "well" {
		t.Errorf("Expected exactly one emission well, got %v", got)
	}
}

func TestDebounceSplitsOnPause(t *testing.T) {
	r := &recorder{}
	d := New(50*time.Millisecond, r.emit)
	defer d.Stop()

	d.Set("w")
	d.Set("we")
	time.Sleep(200 * time.Millisecond)
	d.Set("wel")
	d.Set("well")
	time.Sleep(200 * time.Millisecond)

	got := r.snapshot()
	if len(got) != 2 || got[0] != "we" || got[1] != "well" {
		t.Errorf("Expected emissions [we well], got %v", got)
	}
}

func TestDebouncePropagatesClear(t *testing.T) {
	r := &recorder{}
	d := New(50*time.Millisecond, r.emit)
	defer d.Stop()

	d.Set("well")
	d.Set("")
	time.Sleep(200 * time.Millisecond)

	got := r.snapshot()
	if len(got) != 1 || got[0] != "" {
		t.Errorf("Expected the empty value to settle, got %v", got)
	}
}

func TestFlushEmitsImmediately(t *testing.T) {
	r := &recorder{}
	d := New(time.Hour, r.emit)
	defer d.Stop()

	d.Set("pending")
	d.Flush("submitted")

	got := r.snapshot()
	if len(got) != 1 || got[0] != "submitted" {
		t.Errorf("Expected immediate emission submitted, got %v", got)
	}
	time.Sleep(50 * time.Millisecond)
	if len(r.snapshot()) != 1 {
		t.Errorf("Expected superseded value never emitted, got %v", r.snapshot())
	}
}

func TestStopCancelsPending(t *testing.T) {
	r := &recorder{}
	d := New(50*time.Millisecond, r.emit)

	d.Set("doomed")
	d.Stop()
	time.Sleep(200 * time.Millisecond)

	if got := r.snapshot(); len(got) != 0 {
		t.Errorf("Expected no emission after stop, got %v", got)
	}
}
