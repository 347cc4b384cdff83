package server

import (
	"errors"
	"fmt"

	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/domain/geometry"
)

// Inbound frame types.
const (
	FrameLandmarks = "landmarks"
	FramePose      = "pose"
	FrameQuality   = "quality"
	FrameViewport  = "viewport"
	FrameKeyboard  = "keyboard"
	FrameCommand   = "command"
	FrameError     = "error"
)

// Commands accepted in a command frame.
const (
	CommandStartTracking      = "start_tracking"
	CommandEndTracking        = "end_tracking"
	CommandToggleTracking     = "toggle_tracking"
	CommandStartCalibration   = "start_calibration"
	CommandResetCalibration   = "reset_calibration"
	CommandDismissCalibration = "dismiss_calibration"
)

var (
	ErrUnknownFrame   = errors.New("unknown frame type")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingQuality = errors.New("quality or score is required")
	ErrEmptyViewport  = errors.New("viewport width and height must be positive")
)

// Frame is one message from the sensor collaborator. Only the fields of
// the given Type are read. Eye points use normalized coordinates with y
// growing upwards, so an open eye has a positive lid separation.
type Frame struct {
	Type string `json:"type"`

	// landmarks
	Left  []geometry.Point `json:"left,omitempty"`
	Right []geometry.Point `json:"right,omitempty"`

	// landmarks, quality: either a quality name or a 0..1 score
	Quality string   `json:"quality,omitempty"`
	Score   *float64 `json:"score,omitempty"`

	// pose
	Roll  float64        `json:"roll,omitempty"`
	Pitch float64        `json:"pitch,omitempty"`
	Yaw   float64        `json:"yaw,omitempty"`
	Box   *geometry.Rect `json:"box,omitempty"`

	// viewport
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// keyboard
	Visible bool `json:"visible,omitempty"`

	// command
	Command string `json:"command,omitempty"`
}

// ErrorFrame is sent back when a frame cannot be applied.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func newErrorFrame(err error) ErrorFrame {
	return ErrorFrame{Type: FrameError, Message: err.Error()}
}

// isSensor reports whether the frame is a high-rate sensor sample.
func (f Frame) isSensor() bool {
	return f.Type == FrameLandmarks || f.Type == FramePose
}

// quality resolves the frame's quality, classifying a score against minimum.
func (f Frame) quality(minimum float64) (gaze.Quality, error) {
	if f.Quality != "" {
		var q gaze.Quality
		if err := q.UnmarshalText([]byte(f.Quality)); err != nil {
			return gaze.NoFaceDetected, err
		}
		return q, nil
	}
	if f.Score != nil {
		return gaze.ClassifyQuality(*f.Score, minimum), nil
	}
	return gaze.NoFaceDetected, ErrMissingQuality
}

func (f Frame) pose() geometry.Pose {
	p := geometry.Pose{Roll: f.Roll, Pitch: f.Pitch, Yaw: f.Yaw}
	if f.Box != nil {
		p.Box = *f.Box
	}
	return p
}

// Apply routes the frame to the engine.
func (f Frame) Apply(e Engine, minQuality float64) error {
	switch f.Type {
	case FrameLandmarks:
		q, err := f.quality(minQuality)
		if err != nil {
			return err
		}
		e.OnLandmarks(gaze.EyePoints(f.Left), gaze.EyePoints(f.Right), q)
	case FramePose:
		e.OnPose(f.pose())
	case FrameQuality:
		q, err := f.quality(minQuality)
		if err != nil {
			return err
		}
		e.OnQualityChanged(q)
	case FrameViewport:
		if f.Width <= 0 || f.Height <= 0 {
			return ErrEmptyViewport
		}
		e.SetViewport(geometry.Size{Width: f.Width, Height: f.Height})
	case FrameKeyboard:
		e.SetKeyboardVisible(f.Visible)
	case FrameCommand:
		return applyCommand(e, f.Command)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFrame, f.Type)
	}
	return nil
}

func applyCommand(e Engine, cmd string) error {
	switch cmd {
	case CommandStartTracking:
		e.StartTracking()
	case CommandEndTracking:
		e.EndTracking()
	case CommandToggleTracking:
		e.ToggleTracking()
	case CommandStartCalibration:
		e.StartCalibration()
	case CommandResetCalibration:
		e.ResetCalibration()
	case CommandDismissCalibration:
		e.DismissCalibration()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	return nil
}
