package view

import (
	"log/slog"
	"time"

	"github.com/soocke/gaze-go/config"
	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/ui/model"
	"github.com/soocke/gaze-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	Status      StatusPanel
	Targets     TargetGrid
	ConfigPanel ConfigPanel

	// Widgets
	TrackingBtn *TButtonWidget
}

// Handlers are invoked on user actions.
type Handlers struct {
	ToggleTracking   func()
	StartCalibration func()
	ResetCalibration func()
	ToggleDark       func()
	Exit             func()
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetStatus(st gaze.State)
	SetLastEvent(text string)
	SetConfigEditable(enabled bool)
	SetSession(session, total time.Duration)
	SetTargetStatus(i int, s model.TargetStatus)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout: status and buttons on top, the target grid
// below, the tunables panel on the right.
func (rv *RootView) Build(targets []model.Target, cols int, h Handlers) {
	if rv == nil {
		return
	}
	left := Frame()
	Grid(left, Row(0), Column(0), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	right := Frame(Borderwidth(1), Relief("groove"))
	Grid(right, Row(0), Column(1), Sticky("ns"), Padx("0.4m"), Pady("0.4m"))
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, 0, Weight(1))

	// Status and session rows
	statusFrame := Frame()
	Grid(statusFrame, In(left), Row(0), Column(0), Sticky("we"))
	rv.Status = NewStatusPanel(statusFrame)
	sessionFrame := Frame()
	Grid(sessionFrame, In(left), Row(1), Column(0), Sticky("w"))
	rv.Session = NewSessionStats(sessionFrame, 0, 0)

	// Buttons
	btnFrame := Frame()
	Grid(btnFrame, In(left), Row(2), Column(0), Sticky("we"), Pady("0.3m"))
	rv.TrackingBtn = TButton(Txt("Start / Stop Tracking"), Style(theme.StylePrimaryButton), Command(h.ToggleTracking))
	Grid(rv.TrackingBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"))
	Grid(Button(Txt("Calibrate"), Command(h.StartCalibration)), In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"))
	Grid(TButton(Txt("Reset Calibration"), Style(theme.StyleDangerButton), Command(h.ResetCalibration)), In(btnFrame), Row(0), Column(2), Sticky("we"), Padx("0.2m"))
	Grid(Button(Txt("Dark Mode"), Command(h.ToggleDark)), In(btnFrame), Row(0), Column(3), Sticky("we"), Padx("0.2m"))
	Grid(Button(Txt("Exit"), Command(h.Exit)), In(btnFrame), Row(0), Column(4), Sticky("we"), Padx("0.2m"))

	// Target grid
	gridFrame := Frame(Borderwidth(1), Relief("sunken"))
	Grid(gridFrame, In(left), Row(3), Column(0), Sticky("nsew"), Pady("0.3m"))
	rv.Targets = NewTargetGrid(gridFrame, targets, cols)

	// Config panel
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger)
	rv.ConfigPanel.Build(right, 0)
}

// SetStatus renders engine state.
func (rv *RootView) SetStatus(st gaze.State) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetStatus(st)
	}
}

// SetLastEvent shows the last notable engine event.
func (rv *RootView) SetLastEvent(text string) {
	if rv != nil && rv.Status != nil {
		rv.Status.SetLastEvent(text)
	}
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
}

// SetSession updates both session and total tracking durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

// SetTargetStatus redraws one target cell.
func (rv *RootView) SetTargetStatus(i int, s model.TargetStatus) {
	if rv != nil && rv.Targets != nil {
		rv.Targets.SetTargetStatus(i, s)
	}
}
