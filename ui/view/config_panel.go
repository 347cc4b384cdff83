package view

import (
	"log/slog"
	"strings"

	"github.com/soocke/gaze-go/config"
	"github.com/soocke/gaze-go/ui/model"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel is the tunables form. Saved values take effect the next time
// tracking starts; the panel is locked while tracking or calibrating.
type ConfigPanel interface {
	Build(parent *FrameWidget, startRow int) (endRow int)
	SetEditable(enabled bool)
	ApplyChanges()
}

type configPanel struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	fields   []model.Tunable
	entries  map[string]*TextWidget
	applyBtn *ButtonWidget
	errLabel *LabelWidget
}

// NewConfigPanel creates the view bound to cfg.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger) ConfigPanel {
	return &configPanel{
		cfg:     cfg,
		cfgPath: cfgPath,
		logger:  logger,
		fields:  model.Tunables(),
		entries: make(map[string]*TextWidget),
	}
}

func (v *configPanel) Build(parent *FrameWidget, startRow int) int {
	row := startRow
	for _, f := range v.fields {
		Grid(Label(Txt(f.Label), Anchor("w")), In(parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		entry := Text(Height(1), Width(16))
		Grid(entry, In(parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		entry.Insert("1.0", f.Value(v.cfg))
		v.entries[f.ID] = entry
		row++
	}
	v.applyBtn = Button(Txt("Save"), Command(v.ApplyChanges))
	Grid(v.applyBtn, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	v.errLabel = Label(Txt(""), Anchor("w"))
	Grid(v.errLabel, In(parent), Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"))
	return row + 1
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, e := range v.entries {
		e.Configure(State(state))
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	values := make(map[string]string, len(v.entries))
	for id, e := range v.entries {
		values[id] = strings.Join(e.Get("1.0", END), "")
	}
	next, err := model.ApplyTunables(*v.cfg, values)
	v.showError(err)
	if err != nil && v.logger != nil {
		v.logger.Warn("tunables partially rejected", "error", err)
	}
	*v.cfg = next
	v.refresh()
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
		return
	}
	if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
}

// refresh rewrites every entry with the validated value.
func (v *configPanel) refresh() {
	for _, f := range v.fields {
		if e := v.entries[f.ID]; e != nil {
			e.Delete("1.0", END)
			e.Insert("1.0", f.Value(v.cfg))
		}
	}
}

func (v *configPanel) showError(err error) {
	if v.errLabel == nil {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	v.errLabel.Configure(Txt(msg), Foreground("#dc2626"))
}
