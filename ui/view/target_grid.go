package view

import (
	"fmt"

	"github.com/soocke/gaze-go/ui/model"
	"github.com/soocke/gaze-go/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// TargetGrid mirrors the demo targets as a grid of labels. A hovered
// target is highlighted; the label counts clicks and long presses.
type TargetGrid interface {
	SetTargetStatus(i int, s model.TargetStatus)
}

type targetGrid struct {
	targets []model.Target
	cells   []*LabelWidget
}

// NewTargetGrid lays out one cell per target in parent, cols per row.
func NewTargetGrid(parent *FrameWidget, targets []model.Target, cols int) TargetGrid {
	if cols < 1 {
		cols = 1
	}
	g := &targetGrid{targets: targets, cells: make([]*LabelWidget, len(targets))}
	for i, t := range targets {
		cell := Label(Txt(targetText(t, model.TargetStatus{})), Width(14), Height(3), Borderwidth(2), Relief("ridge"))
		Grid(cell, In(parent), Row(i/cols), Column(i%cols), Sticky("nsew"), Padx("0.5m"), Pady("0.5m"))
		g.cells[i] = cell
	}
	return g
}

func (g *targetGrid) SetTargetStatus(i int, s model.TargetStatus) {
	if g == nil || i < 0 || i >= len(g.cells) {
		return
	}
	p := theme.CurrentPalette()
	bg, fg, relief := p.Surface, p.Text, "ridge"
	if s.Hovering {
		bg, fg, relief = p.Accent, "white", "sunken"
	}
	g.cells[i].Configure(Txt(targetText(g.targets[i], s)), Background(bg), Foreground(fg), Relief(relief))
}

func targetText(t model.Target, s model.TargetStatus) string {
	return fmt.Sprintf("%s\nclicks %d  long %d", t.Name, s.Clicks, s.LongPresses)
}
