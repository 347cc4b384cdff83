package presenter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soocke/gaze-go/domain/interaction"
	"github.com/soocke/gaze-go/ui/model"
)

// Registrar adds and removes interaction listeners.
type Registrar interface {
	Register(interaction.Listener) error
	Remove(id string) bool
}

// TargetView renders the status of one target.
type TargetView interface {
	SetTargetStatus(i int, s model.TargetStatus)
}

// TargetOptions select the gestures each target reacts to.
type TargetOptions struct {
	BlinkCount       int
	LongBlinkSeconds int
}

// TargetPresenter binds demo targets to engine listeners. Listener
// callbacks only touch the model; Tick copies changes to the view.
type TargetPresenter struct {
	model  *model.TargetsModel
	reg    Registrar
	view   TargetView
	opts   TargetOptions
	logger *slog.Logger

	ids    []string
	shown  uint64
	primed bool
}

func NewTargetPresenter(m *model.TargetsModel, reg Registrar, view TargetView, opts TargetOptions, logger *slog.Logger) *TargetPresenter {
	return &TargetPresenter{model: m, reg: reg, view: view, opts: opts, logger: logger}
}

// Attach registers a Blink, LongBlink and Hover listener for every target.
// On failure the listeners registered so far are removed again.
func (p *TargetPresenter) Attach() error {
	if p == nil || p.model == nil || p.reg == nil {
		return nil
	}
	for i, t := range p.model.Targets() {
		listeners := []interaction.Listener{
			interaction.NewBlink(p.opts.BlinkCount, t.Box, func() { p.model.Click(i) }),
			interaction.NewLongBlink(p.opts.LongBlinkSeconds, t.Box, func() { p.model.LongPress(i) }),
			interaction.NewHover(t.Box, func(h bool) { p.model.SetHovering(i, h) }),
		}
		for _, l := range listeners {
			if err := p.reg.Register(l); err != nil {
				p.Detach()
				return fmt.Errorf("target %s: %w", t.Name, err)
			}
			p.ids = append(p.ids, l.ListenerID())
		}
	}
	if p.logger != nil {
		p.logger.Debug("targets attached", "listeners", len(p.ids))
	}
	return nil
}

// Detach removes every listener registered by Attach.
func (p *TargetPresenter) Detach() {
	if p == nil || p.reg == nil {
		return
	}
	for _, id := range p.ids {
		p.reg.Remove(id)
	}
	p.ids = nil
}

// Refresh forces the next Tick to redraw every target.
func (p *TargetPresenter) Refresh() {
	if p != nil {
		p.primed = false
	}
}

// Tick pushes target statuses to the view when the model changed.
func (p *TargetPresenter) Tick(now time.Time) {
	if p == nil || p.model == nil || p.view == nil {
		return
	}
	status, version := p.model.Snapshot()
	if p.primed && version == p.shown {
		return
	}
	for i, s := range status {
		p.view.SetTargetStatus(i, s)
	}
	p.shown, p.primed = version, true
}
