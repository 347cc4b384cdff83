package gaze

import (
	"log/slog"
	"math"
)

// EyeHeight returns the average vertical lid separation of one eye. With
// abs false the signed separation (upper minus lower) is returned, which
// is what calibration samples. ok is false when the measurement is not
// usable: poor capture quality or a point count other than EyePointCount.
func EyeHeight(points EyePoints, quality Quality, abs bool) (height float64, ok bool) {
	if quality != FaceDetected || len(points) != EyePointCount {
		return 0, false
	}
	p2, p3, p5, p6 := points[1], points[2], points[4], points[5]
	inner := p2.Y - p6.Y
	outer := p3.Y - p5.Y
	if abs {
		inner, outer = math.Abs(inner), math.Abs(outer)
	}
	return (inner + outer) / 2, true
}

// BlinkDetector turns per-frame eye landmarks into blink state transitions.
// Not safe for concurrent use; the engine calls it from its event loop.
type BlinkDetector struct {
	logger     *slog.Logger
	threshold  float64
	calibrated bool
	blinking   bool
	raw        bool
}

// NewBlinkDetector returns an uncalibrated detector using threshold until
// calibration replaces it.
func NewBlinkDetector(threshold float64, logger *slog.Logger) *BlinkDetector {
	return &BlinkDetector{threshold: threshold, logger: logger}
}

// Observe evaluates one frame. It returns the current blinking state and
// whether this frame changed it. Changes are only surfaced once the
// detector is calibrated; before that the raw result is tracked but the
// reported state stays open.
func (d *BlinkDetector) Observe(left, right EyePoints, quality Quality) (blinking, changed bool) {
	raw := d.eyeClosed(left, quality) && d.eyeClosed(right, quality)
	d.raw = raw
	if raw == d.blinking || !d.calibrated {
		return d.blinking, false
	}
	d.blinking = raw
	if d.logger != nil {
		d.logger.Debug("blink state changed", "blinking", raw)
	}
	return d.blinking, true
}

func (d *BlinkDetector) eyeClosed(points EyePoints, quality Quality) bool {
	h, ok := EyeHeight(points, quality, true)
	if !ok || h <= 0 {
		return false
	}
	return h < d.threshold
}

// ForceOpen drops an active blink, e.g. when the face is lost. It reports
// whether the state changed.
func (d *BlinkDetector) ForceOpen() bool {
	d.raw = false
	if !d.blinking {
		return false
	}
	d.blinking = false
	return true
}

// SetThreshold installs a calibrated threshold.
func (d *BlinkDetector) SetThreshold(threshold float64) {
	d.threshold = threshold
	d.calibrated = true
}

// ResetCalibration marks the detector uncalibrated. The previous threshold
// stays in place for raw evaluation.
func (d *BlinkDetector) ResetCalibration() { d.calibrated = false }

// Threshold returns the active threshold.
func (d *BlinkDetector) Threshold() float64 { return d.threshold }

// Calibrated reports whether SetThreshold has been called since the last reset.
func (d *BlinkDetector) Calibrated() bool { return d.calibrated }

// Blinking returns the last surfaced state.
func (d *BlinkDetector) Blinking() bool { return d.blinking }

// Raw returns the last computed state regardless of calibration.
func (d *BlinkDetector) Raw() bool { return d.raw }
