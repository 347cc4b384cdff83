package interaction

import (
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"

	"github.com/soocke/gaze-go/domain/geometry"
)

// Runner executes collaborator callbacks. The engine installs its serial
// callback queue; the default runs inline with panic recovery.
type Runner func(func())

type entry struct {
	seq      uint64
	listener Listener
	hovering bool
}

// Registry stores listeners and dispatches blink, long-blink, hover and
// quick-action triggers against a cursor box. Safe for concurrent use.
// Candidates are captured under the lock and callbacks run after it is
// released, so a callback may add or remove listeners.
type Registry struct {
	logger     *slog.Logger
	quickCount int

	mu      sync.Mutex
	run     Runner
	seq     uint64
	entries map[string]*entry
}

// NewRegistry returns an empty registry. quickCount is the blink count
// reserved for quick actions.
func NewRegistry(quickCount int, logger *slog.Logger) *Registry {
	if quickCount < 1 {
		quickCount = DefaultQuickActionBlinkCount
	}
	r := &Registry{logger: logger, quickCount: quickCount, entries: make(map[string]*entry)}
	r.run = r.runInline
	return r
}

// SetRunner replaces the callback runner. nil restores inline execution.
func (r *Registry) SetRunner(run Runner) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if run == nil {
		run = r.runInline
	}
	r.run = run
}

// QuickActionBlinkCount returns the reserved blink count.
func (r *Registry) QuickActionBlinkCount() int { return r.quickCount }

// Add validates and inserts l. An existing listener with the same ID is
// replaced and moves to the end of the registration order.
func (r *Registry) Add(l Listener) error {
	if err := Validate(l, r.quickCount); err != nil {
		if r.logger != nil {
			r.logger.Warn("listener rejected", "kind", Kind(l), "error", err)
		}
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insertLocked(l, false)
	return nil
}

// Update replaces the listener with the same ID (remove then reinsert).
// A Hover listener keeps its current hovering flag.
func (r *Registry) Update(l Listener) error {
	if err := Validate(l, r.quickCount); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	hovering := false
	if old, ok := r.entries[l.ListenerID()]; ok {
		_, wasHover := old.listener.(Hover)
		_, isHover := l.(Hover)
		hovering = old.hovering && wasHover && isHover
		delete(r.entries, l.ListenerID())
	}
	r.insertLocked(l, hovering)
	return nil
}

func (r *Registry) insertLocked(l Listener, hovering bool) {
	r.seq++
	r.entries[l.ListenerID()] = &entry{seq: r.seq, listener: l, hovering: hovering}
}

// Remove drops the listener with id and reports whether it existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return false
	}
	delete(r.entries, id)
	return true
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Listeners returns the registered listeners in registration order.
func (r *Registry) Listeners() []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Listener, 0, len(r.entries))
	for _, e := range r.orderedLocked() {
		out = append(out, e.listener)
	}
	return out
}

// Hovering reports the current hover flag of a Hover listener.
func (r *Registry) Hovering(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	return ok && e.hovering
}

func (r *Registry) orderedLocked() []*entry {
	out := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b *entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})
	return out
}

// DispatchBlink routes a completed blink group. The reserved count goes to
// quick-action resolution; any other count fires every Blink listener with
// that count whose box contains the cursor origin, only while tracking.
// It returns the number of actions scheduled.
func (r *Registry) DispatchBlink(count int, cursor geometry.Rect, tracking bool) int {
	if count == r.quickCount {
		if r.ResolveQuickAction(tracking) {
			return 1
		}
		return 0
	}
	if !tracking {
		return 0
	}
	origin := cursor.Origin()
	r.mu.Lock()
	var actions []func()
	for _, e := range r.orderedLocked() {
		if b, ok := e.listener.(Blink); ok && b.Count == count && b.Box.Contains(origin) {
			actions = append(actions, b.Action)
		}
	}
	run := r.run
	r.mu.Unlock()
	for _, a := range actions {
		run(a)
	}
	return len(actions)
}

// DispatchLongBlink fires every LongBlink listener whose duration equals
// seconds and whose box contains the cursor origin.
func (r *Registry) DispatchLongBlink(seconds int, cursor geometry.Rect) int {
	origin := cursor.Origin()
	r.mu.Lock()
	var actions []func()
	for _, e := range r.orderedLocked() {
		if lb, ok := e.listener.(LongBlink); ok && lb.Duration == seconds && lb.Box.Contains(origin) {
			actions = append(actions, lb.Action)
		}
	}
	run := r.run
	r.mu.Unlock()
	for _, a := range actions {
		run(a)
	}
	return len(actions)
}

// UpdateHover recomputes containment of the cursor origin for every Hover
// listener and notifies only those whose flag flipped. It returns the
// number of listeners that started hovering.
func (r *Registry) UpdateHover(cursor geometry.Rect) int {
	origin := cursor.Origin()
	return r.setHover(func(h Hover) bool { return h.Box.Contains(origin) })
}

// ClearHover drops every hover flag, notifying the listeners that were
// hovering.
func (r *Registry) ClearHover() {
	r.setHover(func(Hover) bool { return false })
}

func (r *Registry) setHover(inside func(Hover) bool) int {
	type change struct {
		fn       func(bool)
		hovering bool
	}
	r.mu.Lock()
	var changes []change
	entered := 0
	for _, e := range r.orderedLocked() {
		h, ok := e.listener.(Hover)
		if !ok {
			continue
		}
		now := inside(h)
		if now == e.hovering {
			continue
		}
		e.hovering = now
		if now {
			entered++
		}
		changes = append(changes, change{fn: h.OnHoverChanged, hovering: now})
	}
	run := r.run
	r.mu.Unlock()
	for _, c := range changes {
		c := c
		run(func() { c.fn(c.hovering) })
	}
	return entered
}

// ResolveQuickAction runs at most one quick action: the first, by priority
// descending then registration order, whose conditions hold. When tracking
// is off only listeners that override the pause are eligible. Conditions
// are evaluated on the calling goroutine and must not block.
func (r *Registry) ResolveQuickAction(tracking bool) bool {
	r.mu.Lock()
	var candidates []QuickAction
	for _, e := range r.orderedLocked() {
		if q, ok := e.listener.(QuickAction); ok && (tracking || q.OverrideTrackingPause) {
			candidates = append(candidates, q)
		}
	}
	run := r.run
	r.mu.Unlock()

	slices.SortStableFunc(candidates, func(a, b QuickAction) int {
		switch {
		case a.Priority > b.Priority:
			return -1
		case a.Priority < b.Priority:
			return 1
		}
		return 0
	})
	for _, q := range candidates {
		if !r.conditionsMet(q) {
			continue
		}
		if r.logger != nil {
			r.logger.Debug("quick action resolved", "id", q.ID, "priority", q.Priority)
		}
		run(q.Action)
		return true
	}
	return false
}

func (r *Registry) conditionsMet(q QuickAction) (ok bool) {
	if q.ConditionsMet == nil {
		return true
	}
	defer func() {
		if rec := recover(); rec != nil {
			ok = false
			if r.logger != nil {
				r.logger.Error("quick action condition panic", "id", q.ID, "panic", rec)
			}
		}
	}()
	return q.ConditionsMet()
}

func (r *Registry) runInline(fn func()) {
	defer func() {
		if rec := recover(); rec != nil && r.logger != nil {
			r.logger.Error("listener callback panic", "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
