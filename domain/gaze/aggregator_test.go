package gaze

import (
	"testing"
	"time"

	"github.com/soocke/gaze-go/domain/clock"
)

type longBlinkCall struct {
	seconds int
	final   bool
}

type aggregatorRecorder struct {
	groups []int
	long   []longBlinkCall
}

func (r *aggregatorRecorder) hooks() AggregatorHooks {
	return AggregatorHooks{
		LongBlink:  func(s int, final bool) { r.long = append(r.long, longBlinkCall{s, final}) },
		BlinkGroup: func(n int) { r.groups = append(r.groups, n) },
	}
}

func newTestAggregator() (*BlinkAggregator, *clock.Fake, *aggregatorRecorder) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &aggregatorRecorder{}
	a := NewBlinkAggregator(fake, 750*time.Millisecond, time.Second, rec.hooks(), discardLogger)
	return a, fake, rec
}

func blink(a *BlinkAggregator, fake *clock.Fake, closed time.Duration) {
	a.BlinkStarted()
	fake.Advance(closed)
	a.BlinkEnded()
}

func TestAggregator_TwoQuickBlinksFormOneGroup(t *testing.T) {
	a, fake, rec := newTestAggregator()
	blink(a, fake, 100*time.Millisecond)
	fake.Advance(200 * time.Millisecond)
	blink(a, fake, 100*time.Millisecond)
	fake.Advance(time.Second)

	if len(rec.groups) != 1 || rec.groups[0] != 2 {
		t.Fatalf("expected one group of 2, got %v", rec.groups)
	}
	if a.State() != AggregatorIdle || a.Count() != 0 {
		t.Fatalf("expected idle after group, got %v count=%d", a.State(), a.Count())
	}
}

func TestAggregator_GapSeparatedGroups(t *testing.T) {
	a, fake, rec := newTestAggregator()
	sizes := []int{1, 3, 2, 4}
	for _, n := range sizes {
		for i := 0; i < n; i++ {
			blink(a, fake, 80*time.Millisecond)
			if i < n-1 {
				fake.Advance(300 * time.Millisecond)
			}
		}
		fake.Advance(750 * time.Millisecond)
	}
	if len(rec.groups) != len(sizes) {
		t.Fatalf("got groups %v want %v", rec.groups, sizes)
	}
	for i := range sizes {
		if rec.groups[i] != sizes[i] {
			t.Fatalf("got groups %v want %v", rec.groups, sizes)
		}
	}
}

func TestAggregator_LongBlinkTicksAndFinal(t *testing.T) {
	a, fake, rec := newTestAggregator()
	blink(a, fake, 4300*time.Millisecond)

	want := []longBlinkCall{{1, false}, {2, false}, {3, false}, {4, false}, {4, true}}
	if len(rec.long) != len(want) {
		t.Fatalf("got %v want %v", rec.long, want)
	}
	for i := range want {
		if rec.long[i] != want[i] {
			t.Fatalf("got %v want %v", rec.long, want)
		}
	}
	if len(rec.groups) != 0 {
		t.Fatalf("group must not be emitted before the gap, got %v", rec.groups)
	}
	fake.Advance(750 * time.Millisecond)
	if len(rec.groups) != 1 || rec.groups[0] != 1 {
		t.Fatalf("expected trailing group of 1, got %v", rec.groups)
	}
}

func TestAggregator_NewBlinkCancelsGroupTimer(t *testing.T) {
	a, fake, rec := newTestAggregator()
	blink(a, fake, 50*time.Millisecond)
	fake.Advance(749 * time.Millisecond)
	a.BlinkStarted()
	fake.Advance(10 * time.Millisecond)
	if len(rec.groups) != 0 {
		t.Fatalf("group fired despite a new blink: %v", rec.groups)
	}
	if a.State() != AggregatorClosed || a.Count() != 1 {
		t.Fatalf("expected closed with count 1, got %v %d", a.State(), a.Count())
	}
}

func TestAggregator_DurationRestartsPerSubBlink(t *testing.T) {
	a, fake, rec := newTestAggregator()
	blink(a, fake, 1500*time.Millisecond)
	fake.Advance(100 * time.Millisecond)
	blink(a, fake, 1200*time.Millisecond)
	var ticks []int
	for _, c := range rec.long {
		if !c.final {
			ticks = append(ticks, c.seconds)
		}
	}
	if len(ticks) != 2 || ticks[0] != 1 || ticks[1] != 1 {
		t.Fatalf("expected one 1s tick per sub-blink, got %v", ticks)
	}
}

func TestAggregator_ResetCancelsEverything(t *testing.T) {
	a, fake, rec := newTestAggregator()
	blink(a, fake, 100*time.Millisecond)
	a.BlinkStarted()
	a.Reset()
	fake.Advance(5 * time.Second)
	if len(rec.groups) != 0 {
		t.Fatalf("reset must drop the group, got %v", rec.groups)
	}
	for _, c := range rec.long {
		if !c.final {
			t.Fatalf("reset must stop duration ticks, got %v", rec.long)
		}
	}
	if fake.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", fake.Pending())
	}
}

func TestAggregator_RepeatedTransitionsIgnored(t *testing.T) {
	a, fake, rec := newTestAggregator()
	a.BlinkEnded()
	a.BlinkStarted()
	a.BlinkStarted()
	fake.Advance(100 * time.Millisecond)
	a.BlinkEnded()
	a.BlinkEnded()
	fake.Advance(time.Second)
	if len(rec.groups) != 1 || rec.groups[0] != 1 {
		t.Fatalf("expected a single group of 1, got %v", rec.groups)
	}
}
