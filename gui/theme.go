//go:build gui

package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// taleTheme forces the dark variant and overrides the accent colors.
type taleTheme struct {
	fyne.Theme
}

var palette = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground:      color.NRGBA{R: 24, G: 24, B: 24, A: 255},
	theme.ColorNameForeground:      color.NRGBA{R: 220, G: 220, B: 220, A: 255},
	theme.ColorNamePrimary:         color.NRGBA{R: 210, G: 50, B: 50, A: 255},
	theme.ColorNameError:           color.NRGBA{R: 255, G: 110, B: 90, A: 255},
	theme.ColorNameInputBackground: color.NRGBA{R: 32, G: 32, B: 32, A: 255},
}

func newTheme() fyne.Theme { return &taleTheme{Theme: theme.DefaultTheme()} }

func (t *taleTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if c, ok := palette[name]; ok {
		return c
	}
	return t.Theme.Color(name, theme.VariantDark)
}
