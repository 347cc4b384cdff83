package clock

import (
	"testing"
	"time"
)

func TestFake_FiresInDeadlineOrder(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	var got []int
	f.AfterFunc(300*time.Millisecond, func() { got = append(got, 3) })
	f.AfterFunc(100*time.Millisecond, func() { got = append(got, 1) })
	f.AfterFunc(200*time.Millisecond, func() { got = append(got, 2) })
	f.Advance(250 * time.Millisecond)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected order %v", got)
	}
	f.Advance(50 * time.Millisecond)
	if len(got) != 3 || got[2] != 3 {
		t.Fatalf("third timer missing: %v", got)
	}
}

func TestFake_StopPreventsCallback(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	fired := false
	tm := f.AfterFunc(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatal("expected Stop to report an active timer")
	}
	if tm.Stop() {
		t.Fatal("second Stop must report false")
	}
	f.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
	if f.Pending() != 0 {
		t.Fatalf("pending = %d", f.Pending())
	}
}

func TestFake_RearmInsideWindow(t *testing.T) {
	f := NewFake(time.Unix(0, 0))
	ticks := 0
	var tick func()
	tick = func() {
		ticks++
		f.AfterFunc(time.Second, tick)
	}
	f.AfterFunc(time.Second, tick)
	f.Advance(3500 * time.Millisecond)
	if ticks != 3 {
		t.Fatalf("ticks = %d, want 3", ticks)
	}
	if got := f.Now().Sub(time.Unix(0, 0)); got != 3500*time.Millisecond {
		t.Fatalf("now = %v", got)
	}
}
