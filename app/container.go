package app

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/soocke/gaze-go/capture"
	"github.com/soocke/gaze-go/config"
	"github.com/soocke/gaze-go/debug"
	"github.com/soocke/gaze-go/domain/action"
	"github.com/soocke/gaze-go/domain/clock"
	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/domain/geometry"
	"github.com/soocke/gaze-go/domain/interaction"
	"github.com/soocke/gaze-go/server"
)

// DefaultViewport is used when no display bounds can be determined.
var DefaultViewport = geometry.Size{Width: 1280, Height: 720}

const runtimeLogInterval = 5 * time.Second

// Options override the collaborators BuildContainer would otherwise pick.
// Zero fields select the production implementation.
type Options struct {
	Screen    capture.ScreenSource
	Scheduler clock.Scheduler
	Feedback  gaze.Feedback
	Actions   *action.Callbacks
}

// Container assembles the engine and its adapters.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Engine *gaze.Engine
	Bridge *server.Bridge
	Screen image.Rectangle

	// Cursor is set when OS cursor mirroring is enabled.
	Cursor     *action.CursorDriver
	pointerIDs []string
}

// BuildContainer constructs all components. The engine loop is running
// when it returns; call Close to stop it.
func BuildContainer(cfg *config.Config, logger *slog.Logger, opts Options) (*Container, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	c := &Container{Config: cfg, Logger: logger}

	screen := opts.Screen
	if screen == nil {
		screen = DefaultScreen
	}
	var viewport geometry.Size
	viewport, c.Screen = capture.ResolveViewport(screen, DefaultViewport)

	feedback := opts.Feedback
	if feedback == nil {
		feedback = LogFeedback(logger)
	}
	c.Engine = gaze.NewEngine(cfg, logger, gaze.Options{
		Scheduler: opts.Scheduler,
		Feedback:  feedback,
	})
	c.Engine.SetViewport(viewport)

	c.Bridge = server.NewBridge(c.Engine, server.Options{
		EnableCORS:            cfg.EnableCORS,
		MinimumCaptureQuality: cfg.MinimumCaptureQuality,
		MaxFrameRate:          cfg.MaxFrameRate,
	}, logger)

	if cfg.OSCursor {
		if err := c.enableOSCursor(viewport, opts.Actions); err != nil {
			c.Engine.Close()
			return nil, err
		}
	}
	if logger != nil {
		logger.Info("engine ready", "viewport", fmt.Sprintf("%.0fx%.0f", viewport.Width, viewport.Height), "os_cursor", cfg.OSCursor)
	}
	return c, nil
}

// enableOSCursor mirrors the engine cursor onto the OS pointer. Anywhere in
// the viewport the default blink count clicks and a long blink of the
// drag-and-drop duration performs a secondary click.
func (c *Container) enableOSCursor(viewport geometry.Size, cb *action.Callbacks) error {
	callbacks := action.DefaultCallbacks()
	if cb != nil {
		callbacks = *cb
	} else if !action.Supported() && c.Logger != nil {
		c.Logger.Warn("os cursor control is not supported on this platform")
	}
	c.Cursor = action.NewCursorDriver(c.Screen, callbacks, c.Logger)
	c.Engine.Subscribe(c.Cursor.HandleEvent)

	whole := geometry.Rect{Width: viewport.Width, Height: viewport.Height}
	listeners := []interaction.Listener{
		interaction.NewBlink(c.Config.DefaultBlinkCount, whole, c.Cursor.Click),
		interaction.NewLongBlink(c.Config.DragDropBlinkDuration, whole, c.Cursor.SecondaryClick),
	}
	for _, l := range listeners {
		if err := c.Engine.Register(l); err != nil {
			return fmt.Errorf("register os %s: %w", interaction.Kind(l), err)
		}
		c.pointerIDs = append(c.pointerIDs, l.ListenerID())
	}
	return nil
}

// Serve runs the sensor bridge until ctx is done. Runtime diagnostics are
// logged while serving when debug is enabled.
func (c *Container) Serve(ctx context.Context) error {
	if c.Config.Debug {
		debug.StartRuntimeLogger(ctx, runtimeLogInterval, c.Logger, c.Engine.Stats)
	}
	return c.Bridge.ListenAndServe(ctx, c.Config.ListenAddr)
}

// Close stops the engine.
func (c *Container) Close() {
	if c == nil || c.Engine == nil {
		return
	}
	for _, id := range c.pointerIDs {
		c.Engine.Remove(id)
	}
	c.Engine.Close()
}

// DefaultScreen reports the primary display, falling back to the size the
// OS reports when the screenshot backend has none.
func DefaultScreen() (image.Rectangle, error) {
	r, err := capture.PrimaryScreen()
	if err == nil {
		return r, nil
	}
	if w, h := action.PrimaryScreenSize(); w > 0 && h > 0 {
		return image.Rect(0, 0, w, h), nil
	}
	return image.Rectangle{}, err
}

// LogFeedback returns feedback that logs cues at debug level.
func LogFeedback(logger *slog.Logger) gaze.Feedback {
	return gaze.FeedbackFunc(func(c gaze.Cue) {
		if logger != nil {
			logger.Debug("feedback", "cue", c.String())
		}
	})
}
