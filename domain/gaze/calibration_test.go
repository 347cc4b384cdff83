package gaze

import (
	"testing"
	"time"

	"github.com/soocke/gaze-go/domain/clock"
)

type calibrationRecorder struct {
	progress  []int
	completed []float64
}

func (r *calibrationRecorder) hooks() CalibrationHooks {
	return CalibrationHooks{
		Progress: func(n, _ int) { r.progress = append(r.progress, n) },
		Complete: func(th float64) { r.completed = append(r.completed, th) },
	}
}

var testCalibration = CalibrationOptions{
	Settle:   2 * time.Second,
	Interval: 10 * time.Millisecond,
	Samples:  20,
	Margin:   0.2,
}

func constantSampler(h float64) EyeSampler {
	return func() (float64, float64, bool) { return h, h, true }
}

func TestCalibrator_ConstantHeightYieldsExactThreshold(t *testing.T) {
	for _, h := range []float64{0.0625, 0.5, 0.03125} {
		fake := clock.NewFake(time.Unix(0, 0))
		rec := &calibrationRecorder{}
		c := NewCalibrator(fake, testCalibration, constantSampler(h), rec.hooks(), discardLogger)
		c.Begin()
		fake.Advance(2*time.Second + 20*10*time.Millisecond)

		if len(rec.completed) != 1 {
			t.Fatalf("h=%v: expected one completion, got %v", h, rec.completed)
		}
		if want := h + 0.2*h; rec.completed[0] != want {
			t.Fatalf("h=%v: threshold %v want %v", h, rec.completed[0], want)
		}
		if len(rec.progress) != 20 || rec.progress[19] != 20 {
			t.Fatalf("h=%v: unexpected progress %v", h, rec.progress)
		}
		if c.Running() {
			t.Fatalf("calibrator still running")
		}
	}
}

func TestCalibrator_SettleDelayBeforeSampling(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &calibrationRecorder{}
	c := NewCalibrator(fake, testCalibration, constantSampler(0.5), rec.hooks(), discardLogger)
	c.Begin()
	fake.Advance(1999 * time.Millisecond)
	if len(rec.progress) != 0 {
		t.Fatalf("sampled before settle delay: %v", rec.progress)
	}
	fake.Advance(time.Millisecond)
	if len(rec.progress) != 1 {
		t.Fatalf("expected first sample at settle deadline, got %v", rec.progress)
	}
}

func TestCalibrator_InterruptedCommitsNothing(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &calibrationRecorder{}
	c := NewCalibrator(fake, testCalibration, constantSampler(0.5), rec.hooks(), discardLogger)
	c.Begin()
	fake.Advance(2*time.Second + 50*time.Millisecond)
	c.Cancel()
	fake.Advance(10 * time.Second)
	if len(rec.completed) != 0 {
		t.Fatalf("cancelled calibration committed %v", rec.completed)
	}
	if fake.Pending() != 0 {
		t.Fatalf("expected no pending timers")
	}

	c.Begin()
	fake.Advance(3 * time.Second)
	if len(rec.completed) != 1 || rec.completed[0] != 0.6 {
		t.Fatalf("restart should complete once, got %v", rec.completed)
	}
}

func TestCalibrator_BeginRestartsFromScratch(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &calibrationRecorder{}
	c := NewCalibrator(fake, testCalibration, constantSampler(0.5), rec.hooks(), discardLogger)
	c.Begin()
	fake.Advance(2*time.Second + 50*time.Millisecond)
	c.Begin()
	if c.Collected() != 0 {
		t.Fatalf("restart kept %d samples", c.Collected())
	}
	fake.Advance(3 * time.Second)
	if len(rec.completed) != 1 {
		t.Fatalf("expected exactly one completion, got %v", rec.completed)
	}
}

func TestCalibrator_SkipsUnusableSamples(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	rec := &calibrationRecorder{}
	calls := 0
	sampler := func() (float64, float64, bool) {
		calls++
		if calls <= 5 {
			return 0, 0, false
		}
		return 0.5, 0.5, true
	}
	c := NewCalibrator(fake, testCalibration, sampler, rec.hooks(), discardLogger)
	c.Begin()
	fake.Advance(2*time.Second + 20*10*time.Millisecond)
	if len(rec.completed) != 0 {
		t.Fatalf("completed before enough usable samples")
	}
	fake.Advance(5 * 10 * time.Millisecond)
	if len(rec.completed) != 1 || rec.completed[0] != 0.6 {
		t.Fatalf("expected completion after skipped samples, got %v", rec.completed)
	}
	if calls != 25 {
		t.Fatalf("expected 25 sampler calls, got %d", calls)
	}
}

func TestThreshold(t *testing.T) {
	if got := Threshold(0.25, 0.75, 0.2); got != 0.6 {
		t.Fatalf("got %v", got)
	}
}
