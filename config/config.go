package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the gaze engine and its adapters.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug     bool   `json:"debug" yaml:"debug"`
	LogLevel  string `json:"log_level" yaml:"log_level"`
	LogFormat string `json:"log_format" yaml:"log_format"`

	// Blink detection
	BlinkThreshold        float64 `json:"blink_threshold" yaml:"blink_threshold"` // eye height below which an eye counts as closed (uncalibrated default)
	ThresholdMargin       float64 `json:"threshold_margin" yaml:"threshold_margin"`
	MinimumCaptureQuality float64 `json:"minimum_capture_quality" yaml:"minimum_capture_quality"`

	// Blink grouping
	DefaultBlinkCount     int `json:"default_blink_count" yaml:"default_blink_count"`
	QuickActionBlinkCount int `json:"quick_action_blink_count" yaml:"quick_action_blink_count"`
	BlinkGroupGapMillis   int `json:"blink_group_gap_millis" yaml:"blink_group_gap_millis"`
	LongBlinkTickMillis   int `json:"long_blink_tick_millis" yaml:"long_blink_tick_millis"`

	// Long blinks
	DragDropBlinkDuration       int  `json:"drag_drop_blink_duration" yaml:"drag_drop_blink_duration"`
	ToggleTrackingBlinkDuration int  `json:"toggle_tracking_blink_duration" yaml:"toggle_tracking_blink_duration"`
	ToggleTrackingOnLongBlink   bool `json:"toggle_tracking_on_long_blink" yaml:"toggle_tracking_on_long_blink"`

	// Calibration
	CalibrationSamples        int `json:"calibration_samples" yaml:"calibration_samples"`
	CalibrationIntervalMillis int `json:"calibration_interval_millis" yaml:"calibration_interval_millis"`
	CalibrationSettleMillis   int `json:"calibration_settle_millis" yaml:"calibration_settle_millis"`

	// Cursor
	CursorSize          float64 `json:"cursor_size" yaml:"cursor_size"`
	CursorPadding       float64 `json:"cursor_padding" yaml:"cursor_padding"`
	MovementMultiplierX float64 `json:"movement_multiplier_x" yaml:"movement_multiplier_x"`
	MovementMultiplierY float64 `json:"movement_multiplier_y" yaml:"movement_multiplier_y"`

	// Sensor bridge / adapters
	ListenAddr   string  `json:"listen_addr" yaml:"listen_addr"`
	EnableCORS   bool    `json:"enable_cors" yaml:"enable_cors"`
	OSCursor     bool    `json:"os_cursor" yaml:"os_cursor"`
	MaxFrameRate float64 `json:"max_frame_rate" yaml:"max_frame_rate"` // per-client sensor frames per second, 0 disables the limit

	// Demo UI target grid
	TargetRows    int `json:"target_rows" yaml:"target_rows"`
	TargetColumns int `json:"target_columns" yaml:"target_columns"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:                       false,
		LogLevel:                    "info",
		LogFormat:                   "json",
		BlinkThreshold:              0.025,
		ThresholdMargin:             0.2,
		MinimumCaptureQuality:       0.2,
		DefaultBlinkCount:           2,
		QuickActionBlinkCount:       3,
		BlinkGroupGapMillis:         750,
		LongBlinkTickMillis:         1000,
		DragDropBlinkDuration:       2,
		ToggleTrackingBlinkDuration: 4,
		ToggleTrackingOnLongBlink:   false,
		CalibrationSamples:          20,
		CalibrationIntervalMillis:   10,
		CalibrationSettleMillis:     2000,
		CursorSize:                  25,
		CursorPadding:               12,
		MovementMultiplierX:         12,
		MovementMultiplierY:         15,
		ListenAddr:                  "127.0.0.1:8765",
		EnableCORS:                  false,
		OSCursor:                    false,
		MaxFrameRate:                120,
		TargetRows:                  2,
		TargetColumns:               3,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
	if c.BlinkThreshold <= 0 {
		c.BlinkThreshold = d.BlinkThreshold
	}
	if c.ThresholdMargin < 0 || c.ThresholdMargin > 1 {
		c.ThresholdMargin = d.ThresholdMargin
	}
	if c.MinimumCaptureQuality < 0 || c.MinimumCaptureQuality > 1 {
		c.MinimumCaptureQuality = d.MinimumCaptureQuality
	}
	if c.QuickActionBlinkCount < 1 {
		c.QuickActionBlinkCount = d.QuickActionBlinkCount
	}
	if c.DefaultBlinkCount < 1 || c.DefaultBlinkCount == c.QuickActionBlinkCount {
		c.DefaultBlinkCount = d.DefaultBlinkCount
		if c.DefaultBlinkCount == c.QuickActionBlinkCount {
			c.DefaultBlinkCount = c.QuickActionBlinkCount - 1
		}
		if c.DefaultBlinkCount < 1 {
			c.DefaultBlinkCount = c.QuickActionBlinkCount + 1
		}
	}
	if c.BlinkGroupGapMillis <= 0 {
		c.BlinkGroupGapMillis = d.BlinkGroupGapMillis
	}
	if c.LongBlinkTickMillis <= 0 {
		c.LongBlinkTickMillis = d.LongBlinkTickMillis
	}
	if c.DragDropBlinkDuration < 1 {
		c.DragDropBlinkDuration = d.DragDropBlinkDuration
	}
	if c.ToggleTrackingBlinkDuration < 1 {
		c.ToggleTrackingBlinkDuration = d.ToggleTrackingBlinkDuration
	}
	if c.CalibrationSamples < 1 {
		c.CalibrationSamples = d.CalibrationSamples
	}
	if c.CalibrationIntervalMillis <= 0 {
		c.CalibrationIntervalMillis = d.CalibrationIntervalMillis
	}
	if c.CalibrationSettleMillis < 0 {
		c.CalibrationSettleMillis = d.CalibrationSettleMillis
	}
	if c.CursorSize <= 0 {
		c.CursorSize = d.CursorSize
	}
	if c.CursorPadding < 0 {
		c.CursorPadding = d.CursorPadding
	}
	if c.MovementMultiplierX == 0 {
		c.MovementMultiplierX = d.MovementMultiplierX
	}
	if c.MovementMultiplierY == 0 {
		c.MovementMultiplierY = d.MovementMultiplierY
	}
	if c.ListenAddr == "" {
		c.ListenAddr = d.ListenAddr
	}
	if c.MaxFrameRate < 0 {
		c.MaxFrameRate = d.MaxFrameRate
	}
	if c.TargetRows < 1 {
		c.TargetRows = d.TargetRows
	}
	if c.TargetColumns < 1 {
		c.TargetColumns = d.TargetColumns
	}
	return nil
}

// BlinkGroupGap is the maximum pause between blinks of one group.
func (c *Config) BlinkGroupGap() time.Duration {
	return time.Duration(c.BlinkGroupGapMillis) * time.Millisecond
}

// LongBlinkTick is the period of the long-blink duration counter.
func (c *Config) LongBlinkTick() time.Duration {
	return time.Duration(c.LongBlinkTickMillis) * time.Millisecond
}

// CalibrationInterval is the delay between two calibration samples.
func (c *Config) CalibrationInterval() time.Duration {
	return time.Duration(c.CalibrationIntervalMillis) * time.Millisecond
}

// CalibrationSettle is the delay before the first calibration sample.
func (c *Config) CalibrationSettle() time.Duration {
	return time.Duration(c.CalibrationSettleMillis) * time.Millisecond
}

// Load reads configuration from path. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON. A missing file yields
// DefaultConfig(). On a decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(cfg)
		if errors.Is(err, io.EOF) {
			err = nil
		}
	} else {
		err = json.NewDecoder(f).Decode(cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("decode %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to path, as YAML for .yaml/.yml files and
// indented JSON otherwise.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
