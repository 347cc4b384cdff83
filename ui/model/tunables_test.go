package model

import (
	"strings"
	"testing"

	"github.com/soocke/gaze-go/config"
)

func tunable(t *testing.T, id string) Tunable {
	t.Helper()
	for _, f := range Tunables() {
		if f.ID == id {
			return f
		}
	}
	t.Fatalf("no tunable %q", id)
	return Tunable{}
}

func TestTunables_FormatCurrentValues(t *testing.T) {
	c := config.DefaultConfig()
	cases := map[string]string{
		"blink_threshold":               "0.0250",
		"default_blink_count":           "2",
		"toggle_tracking_on_long_blink": "false",
	}
	for id, want := range cases {
		if got := tunable(t, id).Value(c); got != want {
			t.Fatalf("%s: got %q want %q", id, got, want)
		}
	}
	if tunable(t, "blink_threshold").Value(nil) != "" {
		t.Fatalf("nil config must format empty")
	}
}

func TestApplyTunables_ParsesAndReportsInvalid(t *testing.T) {
	base := *config.DefaultConfig()
	got, err := ApplyTunables(base, map[string]string{
		"movement_multiplier_x":         " 20 ",
		"toggle_tracking_on_long_blink": "on",
		"calibration_samples":           "lots",
		"cursor_padding":                "  ",
		"unknown":                       "1",
	})
	if err == nil || !strings.Contains(err.Error(), "Calibration Samples") {
		t.Fatalf("expected calibration samples error, got %v", err)
	}
	if got.MovementMultiplierX != 20 || !got.ToggleTrackingOnLongBlink {
		t.Fatalf("valid fields not applied: %+v", got)
	}
	if got.CalibrationSamples != base.CalibrationSamples || got.CursorPadding != base.CursorPadding {
		t.Fatalf("invalid or blank fields must keep their value: %+v", got)
	}
	if base.MovementMultiplierX == 20 {
		t.Fatalf("input config mutated")
	}
}

func TestApplyTunables_Validates(t *testing.T) {
	base := *config.DefaultConfig()
	got, err := ApplyTunables(base, map[string]string{
		"default_blink_count": "3", // collides with the quick-action count
		"threshold_margin":    "5",
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got.DefaultBlinkCount == got.QuickActionBlinkCount {
		t.Fatalf("reserved count accepted: %d", got.DefaultBlinkCount)
	}
	if got.ThresholdMargin != base.ThresholdMargin {
		t.Fatalf("out of range margin kept: %v", got.ThresholdMargin)
	}
}
