package ui

import (
	"image/color"

	"LocalInk/internal/engine"
	"LocalInk/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

type colorSwatch struct {
	widget.BaseWidget
	Alias    state.ColorAlias
	Color    color.Color
	OnTapped func(state.ColorAlias)
}

func newColorSwatch(alias state.ColorAlias, c color.Color, tapped func(state.ColorAlias)) *colorSwatch {
	s := &colorSwatch{Alias: alias, Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Alias)
	}
}

// swatches returns one swatch per alias the resolver knows.
func swatches(resolve state.ColorResolver, tapped func(state.ColorAlias)) []fyne.CanvasObject {
	var out []fyne.CanvasObject
	for _, a := range state.Aliases() {
		c, err := resolve(a, 1)
		if err != nil {
			continue
		}
		out = append(out, newColorSwatch(a, c, tapped))
	}
	return out
}

// Actions are the toolbar commands the host implements.
type Actions struct {
	Save   func()
	Export func()
}

// NewToolbar builds the tool, color and size controls for an engine.
func NewToolbar(e *engine.Engine, resolve state.ColorResolver, penSize int, act Actions) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { e.SetTool(engine.Pen) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { e.SetTool(engine.Eraser) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			if act.Save != nil {
				act.Save()
			}
		}),
		widget.NewToolbarAction(theme.DownloadIcon(), func() {
			if act.Export != nil {
				act.Export()
			}
		}),
	)

	onColor := func(a state.ColorAlias) {
		e.SetColor(a)
		e.SetTool(engine.Pen)
	}
	colorBox := container.NewHBox(swatches(resolve, onColor)...)

	size := widget.NewSlider(1, 20)
	size.Step = 1
	size.SetValue(float64(penSize))
	size.OnChanged = func(v float64) { e.SetPenSize(int(v)) }
	sizeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), size)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sizeBox,
		layout.NewSpacer(),
	)
}
