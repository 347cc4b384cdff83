// Package theme holds the palettes and ttk button styles of the gaze demo
// window.
package theme

import (
	tk "modernc.org/tk9.0"
)

// PaletteSnapshot is the resolved colour set of one mode.
type PaletteSnapshot struct {
	AppBg     string
	Surface   string // panels, idle targets
	Border    string
	Primary   string
	Danger    string
	Accent    string // hovered targets
	Text      string
	TextMuted string
}

// Mode selects a palette.
type Mode int

const (
	Light Mode = iota
	Dark
)

var palettes = [...]PaletteSnapshot{
	Light: {
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Border:    "#d0d7de",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#10b981",
		Text:      "#1e293b",
		TextMuted: "#64748b",
	},
	Dark: {
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Border:    "#334155",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#34d399",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
	},
}

// Button styles, used with Style(...).
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
)

var buttonStyles = []struct {
	name string
	bg   func(PaletteSnapshot) string
}{
	{StylePrimaryButton, func(p PaletteSnapshot) string { return p.Primary }},
	{StyleDangerButton, func(p PaletteSnapshot) string { return p.Danger }},
}

var mode = Light

// CurrentPalette returns the colours of the active mode.
func CurrentPalette() PaletteSnapshot { return palettes[mode] }

// InitStyles applies the styles of the active mode.
func InitStyles() { apply(CurrentPalette()) }

// ToggleDark switches between light and dark and reports whether dark is now active.
func ToggleDark() bool {
	if mode == Dark {
		mode = Light
	} else {
		mode = Dark
	}
	apply(CurrentPalette())
	return mode == Dark
}

func apply(p PaletteSnapshot) {
	_ = tk.ActivateTheme("azure light")
	tk.App.Configure(tk.Background(p.AppBg))
	for _, s := range buttonStyles {
		tk.StyleConfigure(s.name,
			tk.Background(s.bg(p)),
			tk.Foreground("white"),
			tk.Padding("4p 3p"),
			tk.Borderwidth(1),
			tk.Relief("ridge"),
		)
	}
}
