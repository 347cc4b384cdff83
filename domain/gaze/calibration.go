package gaze

import (
	"log/slog"
	"time"

	"github.com/soocke/gaze-go/domain/clock"
)

// EyeSampler returns the current signed heights of both eyes. ok is false
// when no usable measurement is available.
type EyeSampler func() (left, right float64, ok bool)

// CalibrationHooks receive calibration progress.
type CalibrationHooks struct {
	Progress func(samples, total int)
	Complete func(threshold float64)
}

// CalibrationOptions configure the timed sampling procedure.
type CalibrationOptions struct {
	Settle   time.Duration // delay before the first sample
	Interval time.Duration // delay between samples
	Samples  int           // usable samples required
	Margin   float64       // fraction added above the closed-eye mean
}

// Calibrator measures the closed-eye lid height and derives a blink
// threshold from it. Not safe for concurrent use; calls and scheduler
// callbacks must be serialized by the caller.
type Calibrator struct {
	logger  *slog.Logger
	sched   clock.Scheduler
	opts    CalibrationOptions
	sampler EyeSampler
	hooks   CalibrationHooks

	running bool
	timer   clock.Timer
	left    []float64
	right   []float64
}

// NewCalibrator returns an idle calibrator.
func NewCalibrator(sched clock.Scheduler, opts CalibrationOptions, sampler EyeSampler, hooks CalibrationHooks, logger *slog.Logger) *Calibrator {
	if opts.Samples < 1 {
		opts.Samples = 1
	}
	return &Calibrator{logger: logger, sched: sched, opts: opts, sampler: sampler, hooks: hooks}
}

// Begin starts a fresh procedure, discarding any one in progress.
func (c *Calibrator) Begin() {
	c.Cancel()
	c.running = true
	c.left = c.left[:0]
	c.right = c.right[:0]
	c.timer = c.sched.AfterFunc(c.opts.Settle, c.sample)
	if c.logger != nil {
		c.logger.Info("calibration started", "samples", c.opts.Samples, "settle", c.opts.Settle)
	}
}

// Cancel stops the procedure without committing anything.
func (c *Calibrator) Cancel() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.running && c.logger != nil {
		c.logger.Info("calibration cancelled", "collected", len(c.left))
	}
	c.running = false
}

// Running reports whether a procedure is in progress.
func (c *Calibrator) Running() bool { return c.running }

// Collected returns the number of usable samples gathered so far.
func (c *Calibrator) Collected() int { return len(c.left) }

func (c *Calibrator) sample() {
	if !c.running {
		return
	}
	c.timer = nil
	if l, r, ok := c.sampler(); ok {
		c.left = append(c.left, l)
		c.right = append(c.right, r)
		if c.hooks.Progress != nil {
			c.hooks.Progress(len(c.left), c.opts.Samples)
		}
	}
	if len(c.left) < c.opts.Samples {
		c.timer = c.sched.AfterFunc(c.opts.Interval, c.sample)
		return
	}
	c.running = false
	threshold := Threshold(mean(c.left), mean(c.right), c.opts.Margin)
	if c.logger != nil {
		c.logger.Info("calibration complete", "threshold", threshold)
	}
	if c.hooks.Complete != nil {
		c.hooks.Complete(threshold)
	}
}

// Threshold combines the per-eye closed heights into a blink threshold:
// the mean of both eyes plus margin times that mean.
func Threshold(leftAvg, rightAvg, margin float64) float64 {
	both := (leftAvg + rightAvg) / 2
	return both + both*margin
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
