package view

import (
	"fmt"

	"github.com/soocke/gaze-go/domain/gaze"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// StatusPanel shows the engine state and the last notable event.
type StatusPanel interface {
	SetStatus(st gaze.State)
	SetLastEvent(text string)
}

type statusPanel struct {
	faceLbl     *LabelWidget
	trackingLbl *LabelWidget
	blinkLbl    *LabelWidget
	calibLbl    *LabelWidget
	cursorLbl   *LabelWidget
	eventLbl    *LabelWidget
}

// NewStatusPanel lays out the status labels in parent, one per row.
func NewStatusPanel(parent *FrameWidget) StatusPanel {
	s := &statusPanel{}
	labels := []**LabelWidget{&s.faceLbl, &s.trackingLbl, &s.blinkLbl, &s.calibLbl, &s.cursorLbl, &s.eventLbl}
	for i, dst := range labels {
		*dst = Label(Anchor("w"), Width(36))
		Grid(*dst, In(parent), Row(i), Column(0), Sticky("we"), Padx("0.3m"), Pady("0.1m"))
	}
	s.eventLbl.Configure(Borderwidth(1), Relief("ridge"))
	s.SetStatus(gaze.State{Paused: true})
	s.SetLastEvent("")
	return s
}

func (s *statusPanel) SetStatus(st gaze.State) {
	if s == nil || s.faceLbl == nil {
		return
	}
	s.faceLbl.Configure(Txt("Face: " + st.Quality.String()))
	s.trackingLbl.Configure(Txt("Tracking: " + trackingText(st)))
	blink := "open"
	if st.Blinking {
		blink = fmt.Sprintf("closed (%d in group, %ds)", st.BlinkCount, st.BlinkDuration)
	} else if st.BlinkCount > 0 {
		blink = fmt.Sprintf("open (%d in group)", st.BlinkCount)
	}
	s.blinkLbl.Configure(Txt("Eyes: " + blink))
	s.calibLbl.Configure(Txt("Calibration: " + calibrationText(st)))
	c := st.Cursor.Center()
	s.cursorLbl.Configure(Txt(fmt.Sprintf("Cursor: %.0f, %.0f in %.0fx%.0f", c.X, c.Y, st.Viewport.Width, st.Viewport.Height)))
}

func (s *statusPanel) SetLastEvent(text string) {
	if s == nil || s.eventLbl == nil {
		return
	}
	if text == "" {
		text = "-"
	}
	s.eventLbl.Configure(Txt(text))
}

func trackingText(st gaze.State) string {
	switch {
	case !st.Tracking:
		return "off"
	case st.KeyboardVisible:
		return "paused (keyboard)"
	case st.Paused:
		return "paused"
	}
	return "on"
}

func calibrationText(st gaze.State) string {
	switch {
	case st.Calibrating:
		return "in progress"
	case st.Calibrated:
		return fmt.Sprintf("done (threshold %.4f)", st.Threshold)
	case st.ShowCalibration:
		return "required"
	}
	return "not calibrated"
}
