package presenter

import (
	"github.com/soocke/gaze-go/domain/gaze"
	"github.com/soocke/gaze-go/domain/interaction"
)

// QuickCommands are the engine operations the demo quick actions use.
// Snapshot is read from the engine loop and must not block.
type QuickCommands interface {
	ToggleTracking()
	DismissCalibration()
	Snapshot() gaze.State
}

// RegisterQuickActions registers the demo quick actions and returns their
// ids. Both override the tracking pause so they work with tracking off.
func RegisterQuickActions(reg Registrar, eng QuickCommands) ([]string, error) {
	actions := []interaction.QuickAction{
		interaction.NewQuickAction(1, true, func() bool {
			st := eng.Snapshot()
			return st.Calibrated && !st.ShowCalibration && !st.Calibrating
		}, eng.ToggleTracking),
		interaction.NewQuickAction(0.5, true, func() bool {
			st := eng.Snapshot()
			return st.Calibrated && st.ShowCalibration
		}, eng.DismissCalibration),
	}
	ids := make([]string, 0, len(actions))
	for _, q := range actions {
		if err := reg.Register(q); err != nil {
			for _, id := range ids {
				reg.Remove(id)
			}
			return nil, err
		}
		ids = append(ids, q.ID)
	}
	return ids, nil
}
