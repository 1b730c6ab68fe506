package fs

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesPerKey(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)

	var mu sync.Mutex
	got := map[string]int{}
	record := func(key string, n int) func() {
		return func() {
			mu.Lock()
			got[key] = n
			mu.Unlock()
		}
	}

	for i := 1; i <= 5; i++ {
		d.add("a.md", record("a.md", i))
	}
	d.add("b.md", record("b.md", 1))

	time.Sleep(100 * time.Millisecond)
	d.stopAndWait(time.Second)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 2 || got["a.md"] != 5 || got["b.md"] != 1 {
		t.Errorf("Expected last call per key, got %v", got)
	}
}

func TestDebouncer_ReplacedCallDoesNotRun(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var calls atomic.Int32
	d.add("a.md", func() { calls.Add(1) })
	d.add("a.md", func() { calls.Add(1) })

	if d.pending() != 1 {
		t.Errorf("Expected 1 pending call, got %d", d.pending())
	}

	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("Expected 1 call, got %d", calls.Load())
	}
	if d.pending() != 0 {
		t.Errorf("Expected no pending calls, got %d", d.pending())
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.add("a.md", func() { calls.Add(1) })
	d.stopAndWait(time.Second)
	d.add("b.md", func() { calls.Add(1) })

	time.Sleep(100 * time.Millisecond)
	if calls.Load() != 0 {
		t.Errorf("Expected no calls after stop, got %d", calls.Load())
	}
}
