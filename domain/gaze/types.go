package gaze

import (
	"fmt"

	"github.com/soocke/gaze-go/domain/geometry"
	"github.com/soocke/gaze-go/domain/interaction"
)

// Quality classifies the face capture reported by the vision collaborator.
type Quality int

const (
	NoFaceDetected Quality = iota
	FaceDetectedLowQuality
	FaceDetected
)

func (q Quality) String() string {
	switch q {
	case FaceDetected:
		return "face_detected"
	case FaceDetectedLowQuality:
		return "face_detected_low_quality"
	case NoFaceDetected:
		return "no_face_detected"
	default:
		return "unknown"
	}
}

// MarshalText encodes the quality as its snake_case name.
func (q Quality) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

// UnmarshalText parses the names produced by MarshalText.
func (q *Quality) UnmarshalText(b []byte) error {
	switch string(b) {
	case "face_detected":
		*q = FaceDetected
	case "face_detected_low_quality":
		*q = FaceDetectedLowQuality
	case "no_face_detected", "":
		*q = NoFaceDetected
	default:
		return fmt.Errorf("unknown quality %q", string(b))
	}
	return nil
}

// ClassifyQuality maps a capture-quality score (0..1) onto a Quality.
// Scores strictly above minimum are usable.
func ClassifyQuality(score, minimum float64) Quality {
	switch {
	case score < 0:
		return NoFaceDetected
	case score > minimum:
		return FaceDetected
	default:
		return FaceDetectedLowQuality
	}
}

// EyePointCount is the number of eyelid contour points per eye.
const EyePointCount = 6

// EyePoints is the eyelid contour of one eye in normalized coordinates:
//
//	/-1-2-\
//	0  •  3
//	\-5-4-/
//
// Indices 1,2 are the upper lid, 5,4 the lower lid directly beneath them.
type EyePoints []geometry.Point

// AggregatorState enumerates the blink grouping states.
type AggregatorState int

const (
	AggregatorIdle AggregatorState = iota
	AggregatorClosed
	AggregatorWaiting
)

func (s AggregatorState) String() string {
	switch s {
	case AggregatorIdle:
		return "idle"
	case AggregatorClosed:
		return "closed"
	case AggregatorWaiting:
		return "waiting"
	default:
		return "unknown"
	}
}

// Cue identifies a feedback moment. Playback belongs to the collaborator.
type Cue int

const (
	CueBlink Cue = iota
	CueAction
	CueHover
	CueComplete
)

func (c Cue) String() string {
	switch c {
	case CueBlink:
		return "blink"
	case CueAction:
		return "action"
	case CueHover:
		return "hover"
	case CueComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Feedback receives cues, typically to play a short sound.
type Feedback interface {
	Play(Cue)
}

// FeedbackFunc adapts a function to Feedback.
type FeedbackFunc func(Cue)

func (f FeedbackFunc) Play(c Cue) { f(c) }

// State is the externally visible engine state. A fresh copy is published
// after every mutation.
type State struct {
	Quality         Quality         `json:"quality"`
	Tracking        bool            `json:"tracking"`
	Paused          bool            `json:"paused"`
	Blinking        bool            `json:"blinking"`
	KeyboardVisible bool            `json:"keyboard_visible"`
	Calibrated      bool            `json:"calibrated"`
	Calibrating     bool            `json:"calibrating"`
	ShowCalibration bool            `json:"show_calibration"`
	Threshold       float64         `json:"threshold"`
	Offset          geometry.Point  `json:"offset"`
	Cursor          geometry.Rect   `json:"cursor"`
	Viewport        geometry.Size   `json:"viewport"`
	Aggregator      AggregatorState `json:"-"`
	BlinkCount      int             `json:"blink_count"`
	BlinkDuration   int             `json:"blink_duration"`
}

// EventKind names an outbound engine event.
type EventKind string

const (
	EventCursor              EventKind = "cursor"
	EventBlinking            EventKind = "blinking"
	EventQuality             EventKind = "quality"
	EventTracking            EventKind = "tracking"
	EventKeyboard            EventKind = "keyboard"
	EventCalibrationStarted  EventKind = "calibration_started"
	EventCalibrationProgress EventKind = "calibration_progress"
	EventCalibrationComplete EventKind = "calibration_complete"
	EventCalibrationReset    EventKind = "calibration_reset"
	EventCalibrationPrompt   EventKind = "calibration_prompt"
	EventBlinkGroup          EventKind = "blink_group"
	EventLongBlink           EventKind = "long_blink"
)

// Event is delivered to subscribers in the order the engine produced it.
type Event struct {
	Kind     EventKind `json:"type"`
	State    State     `json:"state"`
	Count    int       `json:"count,omitempty"`    // blink_group: blinks in the group
	Duration int       `json:"duration,omitempty"` // long_blink: whole seconds closed
	Final    bool      `json:"final,omitempty"`    // long_blink: emitted on eye open
	Samples  int       `json:"samples,omitempty"`  // calibration_progress
	Total    int       `json:"total,omitempty"`    // calibration_progress
	Fired    int       `json:"fired,omitempty"`    // listener actions run for this event
}

// Subscriber receives engine events on the callback queue.
type Subscriber func(Event)

// Inbound is the sensor-facing side of the engine.
type Inbound interface {
	OnLandmarks(left, right EyePoints, quality Quality)
	OnPose(pose geometry.Pose)
	OnQualityChanged(quality Quality)
}

// Commands are the user/UI triggered operations.
type Commands interface {
	StartTracking()
	EndTracking()
	ToggleTracking()
	StartCalibration()
	ResetCalibration()
	DismissCalibration()
	SetViewport(size geometry.Size)
	SetKeyboardVisible(visible bool)
}

// Listeners is the registry-facing side used by UI collaborators.
type Listeners interface {
	Register(l interaction.Listener) error
	Update(l interaction.Listener) error
	Remove(id string) bool
}

// Observable exposes published state.
type Observable interface {
	Snapshot() State
	Subscribe(Subscriber)
}

// Contract aggregates the engine surface for dependency injection.
type Contract interface {
	Inbound
	Commands
	Listeners
	Observable
	Close()
}
