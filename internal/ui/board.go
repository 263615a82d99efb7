package ui

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"LocalInk/internal/engine"
	"LocalInk/internal/render"
	"LocalInk/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/draw"
)

// mousePressure stands in for stylus pressure, which a mouse cannot report.
const mousePressure = 0.5

// frameWait bounds how long the render loop waits for the UI thread to take
// the previous frame.
const frameWait = 100 * time.Millisecond

var errFrameBusy = errors.New("ui: previous frame not yet shown")

// Board shows the engine's frames and feeds it mouse input. It is the
// engine's render surface.
type Board struct {
	widget.BaseWidget
	engine *engine.Engine

	mu       sync.Mutex
	front    *image.RGBA
	back     *image.RGBA
	token    chan struct{}
	img      *canvas.Image
	attached bool
	pressed  desktop.MouseButton
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ fyne.Scrollable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)
var _ render.Surface = (*Board)(nil)

func NewBoard(e *engine.Engine) *Board {
	b := &Board{
		engine: e,
		token:  make(chan struct{}, 1),
		img:    canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
	}
	b.token <- struct{}{}
	b.img.FillMode = canvas.ImageFillStretch
	b.img.ScaleMode = canvas.ImageScalePixels
	b.ExtendBaseWidget(b)
	return b
}

// Lock hands the render loop the back buffer, sized to the widget.
func (b *Board) Lock() (draw.Image, error) {
	select {
	case <-b.token:
	case <-time.After(frameWait):
		return nil, errFrameBusy
	}

	size := b.Size()
	w, h := max(int(size.Width), 1), max(int(size.Height), 1)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.back == nil || b.back.Rect.Dx() != w || b.back.Rect.Dy() != h {
		b.back = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return b.back, nil
}

// UnlockAndPost swaps the buffers and shows the new frame on the UI thread.
func (b *Board) UnlockAndPost(draw.Image) {
	b.mu.Lock()
	b.front, b.back = b.back, b.front
	front := b.front
	b.mu.Unlock()

	fyne.Do(func() {
		b.img.Image = front
		b.img.Refresh()
		b.token <- struct{}{}
	})
}

// Resize attaches the board to the engine on its first real size and
// reports later size changes.
func (b *Board) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	b.mu.Lock()
	first := !b.attached
	b.attached = true
	b.mu.Unlock()

	if first {
		b.engine.SurfaceCreated(b, float64(size.Width), float64(size.Height))
		return
	}
	b.engine.SurfaceChanged(float64(size.Width), float64(size.Height))
}

// Detach stops the render loop feeding this board.
func (b *Board) Detach() {
	b.mu.Lock()
	was := b.attached
	b.attached = false
	b.mu.Unlock()
	if was {
		b.engine.SurfaceDestroyed()
	}
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Black)
	return &boardRenderer{board: b, background: bg}
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.img}
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.img.Resize(size)
}

func (r *boardRenderer) MinSize() fyne.Size { return fyne.NewSize(300, 300) }
func (r *boardRenderer) Refresh()           { r.board.img.Refresh() }
func (r *boardRenderer) Destroy()           { r.board.Detach() }

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	b.mu.Lock()
	b.pressed = e.Button
	b.mu.Unlock()
	if ev, ok := mouseEvent(e.Button, pressAction(e.Button), e.Position); ok {
		b.engine.HandleEvent(ev)
	}
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	b.release(e.Position)
}

func (b *Board) release(pos fyne.Position) {
	b.mu.Lock()
	btn := b.pressed
	b.pressed = 0
	b.mu.Unlock()
	if ev, ok := mouseEvent(btn, engine.Up, pos); ok {
		b.engine.HandleEvent(ev)
	}
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	b.mu.Lock()
	btn := b.pressed
	b.mu.Unlock()
	if btn == 0 {
		btn = desktop.MouseButtonPrimary
	}
	if ev, ok := mouseEvent(btn, engine.Move, e.Position); ok {
		b.engine.HandleEvent(ev)
	}
}

func (b *Board) DragEnd() {}

// MouseMoved carries secondary button drags, which fyne does not report
// through Dragged.
func (b *Board) MouseMoved(e *desktop.MouseEvent) {
	if e.Button&desktop.MouseButtonSecondary == 0 {
		return
	}
	if ev, ok := mouseEvent(desktop.MouseButtonSecondary, engine.Move, e.Position); ok {
		b.engine.HandleEvent(ev)
	}
}

func (b *Board) MouseIn(*desktop.MouseEvent) {}
func (b *Board) MouseOut()                  {}

func (b *Board) Scrolled(e *fyne.ScrollEvent) {
	b.engine.ScaleBy(wheelFactor(e.Scrolled.DY), point(e.Position))
}

// pressAction maps a button press onto the engine action: the secondary
// button acts as the pen's eraser button.
func pressAction(btn desktop.MouseButton) engine.Action {
	if btn == desktop.MouseButtonSecondary {
		return engine.ButtonDown
	}
	return engine.Down
}

// mouseEvent builds an engine event for a button. Buttons other than the
// primary and secondary ones are ignored.
func mouseEvent(btn desktop.MouseButton, a engine.Action, pos fyne.Position) (engine.Event, bool) {
	if btn != desktop.MouseButtonPrimary && btn != desktop.MouseButtonSecondary {
		return engine.Event{}, false
	}
	ev := engine.Event{
		Tool:   engine.Mouse,
		Action: a,
		X:      float64(pos.X),
		Y:      float64(pos.Y),
	}
	if a != engine.Up && a != engine.Cancel {
		ev.Pressure = mousePressure
	}
	return ev, true
}

// wheelFactor turns a scroll delta into a zoom step.
func wheelFactor(dy float32) float64 {
	switch {
	case dy > 0:
		return 1.1
	case dy < 0:
		return 1 / 1.1
	}
	return 1
}

func point(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}
