package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/soocke/gaze-go/config"
)

// Tunable is one editable config field of the tunables form.
type Tunable struct {
	ID    string
	Label string

	get func(*config.Config) string
	set func(*config.Config, string) error
}

// Value formats the field's current value in c.
func (t Tunable) Value(c *config.Config) string {
	if c == nil {
		return ""
	}
	return t.get(c)
}

func floatTunable(id, label string, prec int, field func(*config.Config) *float64) Tunable {
	return Tunable{
		ID:    id,
		Label: label,
		get:   func(c *config.Config) string { return strconv.FormatFloat(*field(c), 'f', prec, 64) },
		set: func(c *config.Config, s string) error {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return err
			}
			*field(c) = f
			return nil
		},
	}
}

func intTunable(id, label string, field func(*config.Config) *int) Tunable {
	return Tunable{
		ID:    id,
		Label: label,
		get:   func(c *config.Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *config.Config, s string) error {
			i, err := strconv.Atoi(s)
			if err != nil {
				return err
			}
			*field(c) = i
			return nil
		},
	}
}

func boolTunable(id, label string, field func(*config.Config) *bool) Tunable {
	return Tunable{
		ID:    id,
		Label: label,
		get:   func(c *config.Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *config.Config, s string) error {
			b, err := parseSwitch(s)
			if err != nil {
				return err
			}
			*field(c) = b
			return nil
		},
	}
}

// parseSwitch accepts strconv.ParseBool forms plus yes/no and on/off.
func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Tunables lists the fields shown in the form, in display order.
func Tunables() []Tunable {
	return []Tunable{
		floatTunable("blink_threshold", "Blink Threshold (uncalibrated)", 4, func(c *config.Config) *float64 { return &c.BlinkThreshold }),
		floatTunable("threshold_margin", "Threshold Margin (0-1)", 2, func(c *config.Config) *float64 { return &c.ThresholdMargin }),
		floatTunable("minimum_capture_quality", "Minimum Capture Quality (0-1)", 2, func(c *config.Config) *float64 { return &c.MinimumCaptureQuality }),
		intTunable("default_blink_count", "Click Blink Count", func(c *config.Config) *int { return &c.DefaultBlinkCount }),
		intTunable("quick_action_blink_count", "Quick Action Blink Count", func(c *config.Config) *int { return &c.QuickActionBlinkCount }),
		intTunable("blink_group_gap_millis", "Blink Group Gap (ms)", func(c *config.Config) *int { return &c.BlinkGroupGapMillis }),
		intTunable("drag_drop_blink_duration", "Long Press Seconds", func(c *config.Config) *int { return &c.DragDropBlinkDuration }),
		boolTunable("toggle_tracking_on_long_blink", "Toggle On Long Blink", func(c *config.Config) *bool { return &c.ToggleTrackingOnLongBlink }),
		intTunable("toggle_tracking_blink_duration", "Toggle Long Blink Seconds", func(c *config.Config) *int { return &c.ToggleTrackingBlinkDuration }),
		floatTunable("movement_multiplier_x", "Movement Multiplier X", 1, func(c *config.Config) *float64 { return &c.MovementMultiplierX }),
		floatTunable("movement_multiplier_y", "Movement Multiplier Y", 1, func(c *config.Config) *float64 { return &c.MovementMultiplierY }),
		floatTunable("cursor_padding", "Cursor Padding", 0, func(c *config.Config) *float64 { return &c.CursorPadding }),
		intTunable("calibration_samples", "Calibration Samples", func(c *config.Config) *int { return &c.CalibrationSamples }),
	}
}

// ApplyTunables parses form values keyed by Tunable.ID into a copy of cfg
// and validates the result. Blank or missing values keep the current field.
// Fields that fail to parse keep their value and are reported together.
func ApplyTunables(cfg config.Config, values map[string]string) (config.Config, error) {
	var errs []error
	for _, t := range Tunables() {
		s := strings.TrimSpace(values[t.ID])
		if s == "" {
			continue
		}
		if err := t.set(&cfg, s); err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid value %q", t.Label, s))
		}
	}
	_ = cfg.Validate()
	return cfg, errors.Join(errs...)
}
