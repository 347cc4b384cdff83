package interaction

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/soocke/gaze-go/domain/geometry"
)

// DefaultQuickActionBlinkCount is the blink count reserved for quick actions.
const DefaultQuickActionBlinkCount = 3

var (
	ErrReservedBlinkCount = errors.New("blink count is reserved for quick actions")
	ErrEmptyID            = errors.New("listener id must not be empty")
	ErrNilAction          = errors.New("listener action must not be nil")
	ErrInvalidBlinkCount  = errors.New("blink count must be at least 1")
	ErrInvalidDuration    = errors.New("long blink duration must be at least 1 second")
	ErrInvalidPriority    = errors.New("quick action priority must be within [0, 1]")
	ErrUnknownListener    = errors.New("unknown listener type")
)

// Listener is one of Blink, LongBlink, Hover or QuickAction.
type Listener interface {
	ListenerID() string
	listener()
}

// Blink fires when Count blinks are grouped while the cursor origin lies
// inside Box.
type Blink struct {
	ID     string
	Count  int
	Box    geometry.Rect
	Action func()
}

// LongBlink fires when the eyes have been closed for Duration whole
// seconds while the cursor origin lies inside Box.
type LongBlink struct {
	ID       string
	Duration int
	Box      geometry.Rect
	Action   func()
}

// Hover reports cursor enter/leave transitions over Box.
type Hover struct {
	ID             string
	Box            geometry.Rect
	OnHoverChanged func(hovering bool)
}

// QuickAction is a context action resolved by priority on the reserved
// blink count. ConditionsMet nil means always eligible.
type QuickAction struct {
	ID                    string
	Priority              float64
	OverrideTrackingPause bool
	ConditionsMet         func() bool
	Action                func()
}

func (l Blink) ListenerID() string       { return l.ID }
func (l LongBlink) ListenerID() string   { return l.ID }
func (l Hover) ListenerID() string       { return l.ID }
func (l QuickAction) ListenerID() string { return l.ID }

func (Blink) listener()       {}
func (LongBlink) listener()   {}
func (Hover) listener()       {}
func (QuickAction) listener() {}

var (
	_ Listener = Blink{}
	_ Listener = LongBlink{}
	_ Listener = Hover{}
	_ Listener = QuickAction{}
)

// NewBlink returns a Blink listener with a generated identity.
func NewBlink(count int, box geometry.Rect, action func()) Blink {
	return Blink{ID: uuid.NewString(), Count: count, Box: box, Action: action}
}

// NewLongBlink returns a LongBlink listener with a generated identity.
func NewLongBlink(seconds int, box geometry.Rect, action func()) LongBlink {
	return LongBlink{ID: uuid.NewString(), Duration: seconds, Box: box, Action: action}
}

// NewHover returns a Hover listener with a generated identity.
func NewHover(box geometry.Rect, onChange func(bool)) Hover {
	return Hover{ID: uuid.NewString(), Box: box, OnHoverChanged: onChange}
}

// NewQuickAction returns a QuickAction listener with a generated identity.
func NewQuickAction(priority float64, override bool, conditions func() bool, action func()) QuickAction {
	return QuickAction{
		ID:                    uuid.NewString(),
		Priority:              priority,
		OverrideTrackingPause: override,
		ConditionsMet:         conditions,
		Action:                action,
	}
}

// Validate checks a listener against the registry rules. quickCount is the
// reserved quick-action blink count.
func Validate(l Listener, quickCount int) error {
	if l == nil {
		return ErrUnknownListener
	}
	if l.ListenerID() == "" {
		return ErrEmptyID
	}
	switch v := l.(type) {
	case Blink:
		if v.Count < 1 {
			return fmt.Errorf("%s: %w", v.ID, ErrInvalidBlinkCount)
		}
		if v.Count == quickCount {
			return fmt.Errorf("%s: count %d: %w", v.ID, v.Count, ErrReservedBlinkCount)
		}
		if v.Action == nil {
			return fmt.Errorf("%s: %w", v.ID, ErrNilAction)
		}
	case LongBlink:
		if v.Duration < 1 {
			return fmt.Errorf("%s: %w", v.ID, ErrInvalidDuration)
		}
		if v.Action == nil {
			return fmt.Errorf("%s: %w", v.ID, ErrNilAction)
		}
	case Hover:
		if v.OnHoverChanged == nil {
			return fmt.Errorf("%s: %w", v.ID, ErrNilAction)
		}
	case QuickAction:
		if v.Priority < 0 || v.Priority > 1 {
			return fmt.Errorf("%s: priority %.2f: %w", v.ID, v.Priority, ErrInvalidPriority)
		}
		if v.Action == nil {
			return fmt.Errorf("%s: %w", v.ID, ErrNilAction)
		}
	default:
		return ErrUnknownListener
	}
	return nil
}

// Kind returns a short name for logging.
func Kind(l Listener) string {
	switch l.(type) {
	case Blink:
		return "blink"
	case LongBlink:
		return "long_blink"
	case Hover:
		return "hover"
	case QuickAction:
		return "quick_action"
	default:
		return "unknown"
	}
}
