package ui

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tk "modernc.org/tk9.0"

	"github.com/soocke/gaze-go/app"
	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/ui/model"
	"github.com/soocke/gaze-go/ui/presenter"
	"github.com/soocke/gaze-go/ui/theme"
	"github.com/soocke/gaze-go/ui/view"
)

const (
	tick       = 100 * time.Millisecond
	targetFill = 0.6
)

// Window is the desktop demo window around an app.Container.
type Window struct {
	c       *app.Container
	cfgPath string
	width   int
	height  int
	title   string
	afterID string

	loop    *presenter.Loop
	targets *presenter.TargetPresenter
	quick   []string
}

// NewWindow returns a window for c. cfgPath is where the tunables panel saves.
func NewWindow(title string, width, height int, c *app.Container, cfgPath string) *Window {
	return &Window{c: c, cfgPath: cfgPath, width: width, height: height, title: title}
}

// Start builds the window, serves the sensor bridge in the background and
// blocks in the Tk event loop until the window is closed.
func (a *Window) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tk.App.WmTitle(a.title)
	tk.WmProtocol(tk.App, "WM_DELETE_WINDOW", a.exitHandler)
	tk.WmGeometry(tk.App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))
	theme.InitStyles()

	served := make(chan struct{})
	go func() {
		defer close(served)
		if err := a.c.Serve(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logError("sensor bridge stopped", err)
		}
	}()

	a.build()
	a.scheduleUpdate()
	tk.App.Wait()

	cancel()
	<-served
	a.teardown()
}

func (a *Window) build() {
	cfg, eng := a.c.Config, a.c.Engine
	eng.Sync() // viewport applied
	targets := model.LayoutTargets(eng.Snapshot().Viewport, cfg.TargetRows, cfg.TargetColumns, targetFill)

	rv := view.NewRootView(cfg, a.cfgPath, a.c.Logger)
	rv.Build(targets, cfg.TargetColumns, view.Handlers{
		ToggleTracking:   eng.ToggleTracking,
		StartCalibration: eng.StartCalibration,
		ResetCalibration: eng.ResetCalibration,
		ToggleDark: func() {
			theme.ToggleDark()
			a.targets.Refresh()
		},
		Exit: a.exitHandler,
	})

	state := presenter.NewStatePresenter(rv)
	eng.Subscribe(state.OnEvent)
	state.OnEvent(gaze.Event{State: eng.Snapshot()})
	session := presenter.NewSessionPresenter(model.NewSessionModel(), eng, rv)

	a.targets = presenter.NewTargetPresenter(model.NewTargetsModel(targets), eng, rv, presenter.TargetOptions{
		BlinkCount:       cfg.DefaultBlinkCount,
		LongBlinkSeconds: cfg.DragDropBlinkDuration,
	}, a.c.Logger)
	if err := a.targets.Attach(); err != nil {
		a.logError("demo targets not attached", err)
	}
	quick, err := presenter.RegisterQuickActions(eng, eng)
	if err != nil {
		a.logError("quick actions not registered", err)
	}
	a.quick = quick

	a.loop = presenter.NewLoop(session, state, a.targets, a.scheduleUpdate)
}

func (a *Window) teardown() {
	a.targets.Detach()
	for _, id := range a.quick {
		a.c.Engine.Remove(id)
	}
}

func (a *Window) logError(msg string, err error) {
	if a.c.Logger != nil {
		a.c.Logger.Error(msg, "error", err)
	}
}

func (a *Window) update() {
	a.loop.Tick()
}

func (a *Window) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		tk.TclAfterCancel(a.afterID)
	}
	tk.Destroy(tk.App)
}

func (a *Window) scheduleUpdate() {
	// Schedule the next update using TclAfter to stay on Tk's event loop thread.
	a.afterID = tk.TclAfter(tick, func() { a.update() })
}

// Launch opens the demo window and blocks until it is closed.
func Launch(ctx context.Context, c *app.Container, cfgPath string, width, height int) {
	NewWindow("Gaze", width, height, c, cfgPath).Start(ctx)
}
