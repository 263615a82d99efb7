package ui

import (
	"testing"

	"LocalInk/internal/engine"
	"LocalInk/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/stretchr/testify/assert"
)

func TestMouseEvent(t *testing.T) {
	tests := []struct {
		name   string
		btn    desktop.MouseButton
		action engine.Action
		ok     bool
		want   engine.Event
	}{
		{"primary press", desktop.MouseButtonPrimary, engine.Down, true,
			engine.Event{Tool: engine.Mouse, Action: engine.Down, X: 12, Y: 34, Pressure: mousePressure}},
		{"eraser button", desktop.MouseButtonSecondary, engine.ButtonDown, true,
			engine.Event{Tool: engine.Mouse, Action: engine.ButtonDown, X: 12, Y: 34, Pressure: mousePressure}},
		{"release", desktop.MouseButtonPrimary, engine.Up, true,
			engine.Event{Tool: engine.Mouse, Action: engine.Up, X: 12, Y: 34}},
		{"middle ignored", desktop.MouseButtonTertiary, engine.Down, false, engine.Event{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := mouseEvent(tt.btn, tt.action, fyne.NewPos(12, 34))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPressAction(t *testing.T) {
	assert.Equal(t, engine.Down, pressAction(desktop.MouseButtonPrimary))
	assert.Equal(t, engine.ButtonDown, pressAction(desktop.MouseButtonSecondary))
}

func TestWheelFactor(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(1.1, wheelFactor(3))
	assert.InDelta(1/1.1, wheelFactor(-1), 1e-12)
	assert.Equal(1.0, wheelFactor(0))
}

func TestSwatchesSkipUnknownAliases(t *testing.T) {
	th := state.Theme{
		state.White: state.DefaultTheme[state.White],
		state.Red:   state.DefaultTheme[state.Red],
	}
	var picked []state.ColorAlias
	objs := swatches(th.Resolve(state.Light), func(a state.ColorAlias) { picked = append(picked, a) })
	assert.Len(t, objs, 2)

	objs[1].(*colorSwatch).Tapped(nil)
	assert.Equal(t, []state.ColorAlias{state.Red}, picked)
}
