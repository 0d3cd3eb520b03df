package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTriggerFiresOncePerBurst(t *testing.T) {
	var fired atomic.Int32
	tr := New(30*time.Millisecond, func() { fired.Add(1) })
	defer tr.Stop()

	// a burst of pokes coalesces into one fire
	for i := 0; i < 5; i++ {
		tr.Poke()
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %d times, want 1", got)
	}
}

func TestTriggerFiresAgainAfterQuiet(t *testing.T) {
	var fired atomic.Int32
	tr := New(20*time.Millisecond, func() { fired.Add(1) })
	defer tr.Stop()

	tr.Poke()
	time.Sleep(60 * time.Millisecond)
	tr.Poke()
	time.Sleep(60 * time.Millisecond)

	if got := fired.Load(); got != 2 {
		t.Errorf("fired %d times, want 2", got)
	}
}

func TestTriggerStopCancelsPending(t *testing.T) {
	var fired atomic.Int32
	tr := New(30*time.Millisecond, func() { fired.Add(1) })

	tr.Poke()
	tr.Stop()
	tr.Poke() // ignored after Stop
	time.Sleep(80 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("fired %d times, want 0", got)
	}
}
