package gaze

import (
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/gaze-go/config"
	"github.com/soocke/gaze-go/domain/clock"
	"github.com/soocke/gaze-go/domain/geometry"
	"github.com/soocke/gaze-go/domain/interaction"
)

// Options inject collaborators. Zero values select real time, no feedback
// and a fresh registry.
type Options struct {
	Scheduler clock.Scheduler
	Feedback  Feedback
	Registry  *interaction.Registry
}

// Engine owns the blink detector, aggregator, calibrator and cursor mapper
// and drives them from a single event loop goroutine. Sensor samples,
// commands and timer expirations are queued onto that loop; collaborator
// callbacks run on a separate serial queue.
type Engine struct {
	logger    *slog.Logger
	cfg       config.Config
	base      clock.Scheduler
	feedback  Feedback
	registry  *interaction.Registry
	callbacks *callbackQueue
	stats     counters

	events    chan any
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	subMu       sync.Mutex
	subscribers []Subscriber

	state atomic.Pointer[State]

	// loop-owned
	detector   *BlinkDetector
	aggregator *BlinkAggregator
	calibrator *Calibrator
	cursor     *CursorMapper
	quality    Quality
	tracking   bool
	keyboard   bool
	showCalib  bool
	paused     bool
	left       EyePoints
	right      EyePoints
	eyeQuality Quality
}

// NewEngine constructs the engine and starts its loop. A nil cfg uses
// config.DefaultConfig. The engine keeps a validated copy of cfg.
func NewEngine(cfg *config.Config, logger *slog.Logger, opts Options) *Engine {
	if cfg == nil {
		cfg = config.DefaultConfig()
	} else {
		cp := *cfg
		_ = cp.Validate()
		cfg = &cp
	}
	base := opts.Scheduler
	if base == nil {
		base = clock.Real{}
	}
	registry := opts.Registry
	if registry == nil {
		registry = interaction.NewRegistry(cfg.QuickActionBlinkCount, logger)
	}
	e := &Engine{
		logger:    logger,
		cfg:       *cfg,
		base:      base,
		feedback:  opts.Feedback,
		registry:  registry,
		callbacks: newCallbackQueue(logger),
		events:    make(chan any, 256),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
		paused:    true,
	}
	registry.SetRunner(e.callbacks.Submit)

	sched := loopScheduler{e: e}
	e.detector = NewBlinkDetector(cfg.BlinkThreshold, logger)
	e.aggregator = NewBlinkAggregator(sched, cfg.BlinkGroupGap(), cfg.LongBlinkTick(), AggregatorHooks{
		LongBlink:  e.onLongBlink,
		BlinkGroup: e.onBlinkGroup,
	}, logger)
	e.calibrator = NewCalibrator(sched, CalibrationOptions{
		Settle:   cfg.CalibrationSettle(),
		Interval: cfg.CalibrationInterval(),
		Samples:  cfg.CalibrationSamples,
		Margin:   cfg.ThresholdMargin,
	}, e.sampleEyes, CalibrationHooks{
		Progress: e.onCalibrationProgress,
		Complete: e.onCalibrationComplete,
	}, logger)
	e.cursor = NewCursorMapper(geometry.Point{X: cfg.MovementMultiplierX, Y: cfg.MovementMultiplierY}, cfg.CursorPadding, cfg.CursorSize)

	st := e.buildState()
	e.state.Store(&st)

	go e.loop()
	return e
}

// events
type (
	evtLandmarks struct {
		left, right EyePoints
		quality     Quality
	}
	evtPose     struct{ pose geometry.Pose }
	evtQuality  struct{ quality Quality }
	evtViewport struct{ size geometry.Size }
	evtKeyboard struct{ visible bool }
	evtCommand  struct{ cmd command }
	evtRefresh  struct{}
	evtSync     struct{ ack chan struct{} }
	evtTimer    struct {
		t   *loopTimer
		ack chan struct{}
	}
)

type command int

const (
	cmdStartTracking command = iota
	cmdEndTracking
	cmdToggleTracking
	cmdStartCalibration
	cmdResetCalibration
	cmdDismissCalibration
)

func (e *Engine) loop() {
	defer close(e.done)
	for {
		select {
		case ev := <-e.events:
			e.handle(ev)
		case <-e.quit:
			e.aggregator.Reset()
			e.calibrator.Cancel()
			return
		}
	}
}

func (e *Engine) handle(ev any) {
	defer func() {
		if r := recover(); r != nil && e.logger != nil {
			e.logger.Error("engine event panic", "error", r, "stack", string(debug.Stack()))
		}
	}()
	switch v := ev.(type) {
	case evtLandmarks:
		e.handleLandmarks(v.left, v.right, v.quality)
	case evtPose:
		e.handlePose(v.pose)
	case evtQuality:
		e.handleQuality(v.quality)
	case evtViewport:
		e.cursor.SetViewport(v.size)
		e.refreshCursor(EventCursor)
	case evtKeyboard:
		if e.keyboard != v.visible {
			e.keyboard = v.visible
			e.updatePaused()
			e.publish(Event{Kind: EventKeyboard})
		}
	case evtCommand:
		e.handleCommand(v.cmd)
	case evtRefresh:
		if e.tracking {
			e.registry.UpdateHover(e.cursor.BoundingBox())
		}
	case evtTimer:
		defer close(v.ack)
		if !v.t.stopped && !v.t.fired {
			v.t.fired = true
			v.t.fn()
		}
	case evtSync:
		close(v.ack)
	}
}

func (e *Engine) handleLandmarks(left, right EyePoints, quality Quality) {
	e.stats.landmarks.Add(1)
	e.stats.sampled(e.base.Now())
	e.left, e.right, e.eyeQuality = left, right, quality
	if e.calibrator.Running() {
		return
	}
	blinking, changed := e.detector.Observe(left, right, quality)
	if !changed {
		return
	}
	e.updatePaused()
	if blinking {
		e.cue(CueBlink)
		e.aggregator.BlinkStarted()
	} else {
		e.aggregator.BlinkEnded()
	}
	e.publish(Event{Kind: EventBlinking})
}

func (e *Engine) handlePose(p geometry.Pose) {
	e.stats.poses.Add(1)
	if !e.tracking || e.paused {
		e.stats.droppedPoses.Add(1)
		return
	}
	if e.cursor.Apply(p) {
		e.stats.cursorMoves.Add(1)
		e.refreshCursor(EventCursor)
	}
}

func (e *Engine) handleQuality(q Quality) {
	if q == e.quality {
		return
	}
	e.quality = q
	// A forced open ends the blink normally so a group in progress still
	// reports its count.
	if q != FaceDetected && e.detector.ForceOpen() {
		e.updatePaused()
		e.aggregator.BlinkEnded()
		e.publish(Event{Kind: EventBlinking})
	}
	e.updatePaused()
	if e.logger != nil {
		e.logger.Debug("capture quality changed", "quality", q.String())
	}
	e.publish(Event{Kind: EventQuality})
}

func (e *Engine) handleCommand(cmd command) {
	switch cmd {
	case cmdStartTracking:
		e.startTracking()
	case cmdEndTracking:
		e.endTracking()
	case cmdToggleTracking:
		if e.tracking {
			e.endTracking()
		} else {
			e.startTracking()
		}
	case cmdStartCalibration:
		e.aggregator.Reset()
		if e.detector.ForceOpen() {
			e.updatePaused()
		}
		e.calibrator.Begin()
		e.publish(Event{Kind: EventCalibrationStarted})
	case cmdResetCalibration:
		e.calibrator.Cancel()
		e.detector.ResetCalibration()
		if e.detector.ForceOpen() {
			e.aggregator.Reset()
			e.updatePaused()
		}
		e.showCalib = true
		e.publish(Event{Kind: EventCalibrationReset})
	case cmdDismissCalibration:
		if e.detector.Calibrated() && e.showCalib {
			e.showCalib = false
			e.publish(Event{Kind: EventCalibrationPrompt})
		}
	}
}

func (e *Engine) startTracking() {
	if !e.detector.Calibrated() {
		e.showCalib = true
		e.publish(Event{Kind: EventCalibrationPrompt})
		return
	}
	e.cursor.Reset()
	e.tracking = true
	if e.logger != nil {
		e.logger.Info("tracking started")
	}
	e.publish(Event{Kind: EventTracking})
	e.refreshCursor(EventCursor)
}

func (e *Engine) endTracking() {
	e.tracking = false
	e.aggregator.Reset()
	e.calibrator.Cancel()
	e.registry.ClearHover()
	if e.logger != nil {
		e.logger.Info("tracking ended")
	}
	e.publish(Event{Kind: EventTracking})
}

// refreshCursor recomputes hover state from a single cursor box snapshot
// and publishes the new position.
func (e *Engine) refreshCursor(kind EventKind) {
	if e.tracking {
		if entered := e.registry.UpdateHover(e.cursor.BoundingBox()); entered > 0 {
			e.cue(CueHover)
		}
	}
	e.publish(Event{Kind: kind})
}

func (e *Engine) updatePaused() {
	e.paused = e.quality != FaceDetected || e.detector.Blinking() || e.keyboard
}

func (e *Engine) onLongBlink(seconds int, final bool) {
	if final {
		if seconds == 0 {
			return
		}
		e.publish(Event{Kind: EventLongBlink, Duration: seconds, Final: true})
		if e.cfg.ToggleTrackingOnLongBlink && seconds == e.cfg.ToggleTrackingBlinkDuration {
			e.handleCommand(cmdToggleTracking)
		}
		return
	}
	e.stats.ticks.Add(1)
	e.cue(CueBlink)
	fired := 0
	if e.tracking {
		fired = e.registry.DispatchLongBlink(seconds, e.cursor.BoundingBox())
	}
	e.fired(fired)
	e.publish(Event{Kind: EventLongBlink, Duration: seconds, Fired: fired})
}

func (e *Engine) onBlinkGroup(count int) {
	e.stats.blinkGroups.Add(1)
	fired := e.registry.DispatchBlink(count, e.cursor.BoundingBox(), e.tracking)
	e.fired(fired)
	if e.logger != nil {
		e.logger.Debug("blink group", "count", count, "fired", fired)
	}
	e.publish(Event{Kind: EventBlinkGroup, Count: count, Fired: fired})
}

func (e *Engine) fired(n int) {
	if n <= 0 {
		return
	}
	e.stats.actions.Add(uint64(n))
	e.cue(CueAction)
}

func (e *Engine) sampleEyes() (float64, float64, bool) {
	l, okL := EyeHeight(e.left, e.eyeQuality, false)
	r, okR := EyeHeight(e.right, e.eyeQuality, false)
	return l, r, okL && okR
}

func (e *Engine) onCalibrationProgress(samples, total int) {
	e.publish(Event{Kind: EventCalibrationProgress, Samples: samples, Total: total})
}

func (e *Engine) onCalibrationComplete(threshold float64) {
	e.detector.SetThreshold(threshold)
	e.stats.calibrations.Add(1)
	e.cue(CueComplete)
	e.publish(Event{Kind: EventCalibrationComplete})
}

func (e *Engine) cue(c Cue) {
	if e.feedback == nil {
		return
	}
	fb := e.feedback
	e.callbacks.Submit(func() { fb.Play(c) })
}

func (e *Engine) buildState() State {
	return State{
		Quality:         e.quality,
		Tracking:        e.tracking,
		Paused:          e.paused,
		Blinking:        e.detector.Blinking(),
		KeyboardVisible: e.keyboard,
		Calibrated:      e.detector.Calibrated(),
		Calibrating:     e.calibrator.Running(),
		ShowCalibration: e.showCalib,
		Threshold:       e.detector.Threshold(),
		Offset:          e.cursor.Offset(),
		Cursor:          e.cursor.BoundingBox(),
		Viewport:        e.cursor.Viewport(),
		Aggregator:      e.aggregator.State(),
		BlinkCount:      e.aggregator.Count(),
		BlinkDuration:   e.aggregator.Duration(),
	}
}

// publish stores a fresh snapshot and queues ev for subscribers.
func (e *Engine) publish(ev Event) {
	st := e.buildState()
	e.state.Store(&st)
	ev.State = st
	e.subMu.Lock()
	subs := slices.Clone(e.subscribers)
	e.subMu.Unlock()
	if len(subs) == 0 {
		return
	}
	e.callbacks.Submit(func() {
		for _, s := range subs {
			s(ev)
		}
	})
}

func (e *Engine) post(ev any) bool {
	select {
	case e.events <- ev:
		return true
	case <-e.quit:
		return false
	}
}

// Public API

func (e *Engine) OnLandmarks(left, right EyePoints, quality Quality) {
	e.post(evtLandmarks{left: slices.Clone(left), right: slices.Clone(right), quality: quality})
}

func (e *Engine) OnPose(pose geometry.Pose)        { e.post(evtPose{pose: pose}) }
func (e *Engine) OnQualityChanged(quality Quality) { e.post(evtQuality{quality: quality}) }
func (e *Engine) StartTracking()                   { e.post(evtCommand{cmd: cmdStartTracking}) }
func (e *Engine) EndTracking()                     { e.post(evtCommand{cmd: cmdEndTracking}) }
func (e *Engine) ToggleTracking()                  { e.post(evtCommand{cmd: cmdToggleTracking}) }
func (e *Engine) StartCalibration()                { e.post(evtCommand{cmd: cmdStartCalibration}) }
func (e *Engine) ResetCalibration()                { e.post(evtCommand{cmd: cmdResetCalibration}) }
func (e *Engine) DismissCalibration()              { e.post(evtCommand{cmd: cmdDismissCalibration}) }
func (e *Engine) SetViewport(size geometry.Size)   { e.post(evtViewport{size: size}) }
func (e *Engine) SetKeyboardVisible(visible bool)  { e.post(evtKeyboard{visible: visible}) }

// Register adds a listener. Hover state is recomputed on the loop.
func (e *Engine) Register(l interaction.Listener) error {
	if err := e.registry.Add(l); err != nil {
		return err
	}
	e.post(evtRefresh{})
	return nil
}

// Update replaces a listener by identity, e.g. after a layout change.
func (e *Engine) Update(l interaction.Listener) error {
	if err := e.registry.Update(l); err != nil {
		return err
	}
	e.post(evtRefresh{})
	return nil
}

func (e *Engine) Remove(id string) bool { return e.registry.Remove(id) }

// Registry exposes the listener registry.
func (e *Engine) Registry() *interaction.Registry { return e.registry }

// Subscribe adds a subscriber for events published after the call.
func (e *Engine) Subscribe(s Subscriber) {
	if s == nil {
		return
	}
	e.subMu.Lock()
	e.subscribers = append(e.subscribers, s)
	e.subMu.Unlock()
}

// Snapshot returns the most recently published state.
func (e *Engine) Snapshot() State { return *e.state.Load() }

// Stats returns activity counters.
func (e *Engine) Stats() Stats { return e.stats.snapshot() }

// Sync waits until every event queued before the call has been handled
// and every resulting callback has run. It must not be called from a
// callback.
func (e *Engine) Sync() {
	ack := make(chan struct{})
	if e.post(evtSync{ack: ack}) {
		select {
		case <-ack:
		case <-e.done:
		}
	}
	e.callbacks.Flush()
}

// Close stops the loop, cancels timers and drains pending callbacks.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		close(e.quit)
		<-e.done
		e.callbacks.Close()
	})
}

var _ Contract = (*Engine)(nil)

// loopScheduler hands timer expirations to the engine loop. Timers are
// armed and stopped only from the loop, so a stopped timer never runs.
type loopScheduler struct{ e *Engine }

type loopTimer struct {
	fn      func()
	inner   clock.Timer
	stopped bool
	fired   bool
}

func (s loopScheduler) Now() time.Time { return s.e.base.Now() }

func (s loopScheduler) AfterFunc(d time.Duration, fn func()) clock.Timer {
	t := &loopTimer{fn: fn}
	e := s.e
	t.inner = e.base.AfterFunc(d, func() {
		ack := make(chan struct{})
		if !e.post(evtTimer{t: t, ack: ack}) {
			return
		}
		// Waiting keeps a fake clock's Advance in step with the loop.
		select {
		case <-ack:
		case <-e.done:
		}
	})
	return t
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	if t.inner != nil {
		t.inner.Stop()
	}
	return true
}
