// Package engine routes pointer input to drawing, erasing and zooming, keeps
// the offscreen raster in step with the stroke model and drives the render
// loop while a surface is attached.
package engine

import (
	"errors"
	"fmt"
	"image/color"
	"sync"

	"LocalInk/internal/eraser"
	"LocalInk/internal/logging"
	"LocalInk/internal/pressure"
	"LocalInk/internal/raster"
	"LocalInk/internal/render"
	"LocalInk/internal/state"
	"LocalInk/internal/viewport"

	"golang.org/x/image/draw"
)

const (
	CanvasWidth  = 2125
	CanvasHeight = 2750
)

var (
	ErrColorResolution = errors.New("engine: color resolution failed")
	ErrNotInitialized  = errors.New("engine: no drawing loaded")
)

// Options configures an Engine. Zero fields take their defaults.
type Options struct {
	CanvasWidth, CanvasHeight int

	PenSizeMultiplier int
	Color             state.ColorAlias
	Alpha             float64

	// Resolve maps stroke colors to pixels. When nil the loaded drawing's
	// theme is used in light mode.
	Resolve state.ColorResolver

	EraserMargin    float64
	EraserMinRadius float64
	MinScale        float64

	Background color.Color
	Canvas     color.Color

	// OnError is called once, outside the engine lock, when drawing has to
	// stop. The host is expected to end the editing session.
	OnError func(error)
	// OnPersist receives the snapshot handed out by RequestPersist.
	OnPersist func(state.Drawing)
}

func (o *Options) setDefaults() {
	if o.CanvasWidth <= 0 {
		o.CanvasWidth = CanvasWidth
	}
	if o.CanvasHeight <= 0 {
		o.CanvasHeight = CanvasHeight
	}
	if o.PenSizeMultiplier <= 0 {
		o.PenSizeMultiplier = pressure.DefaultMultiplier
	}
	if o.Alpha <= 0 || o.Alpha > 1 {
		o.Alpha = 1
	}
	if o.EraserMargin <= 0 {
		o.EraserMargin = eraser.DefaultMargin
	}
	if o.EraserMinRadius <= 0 {
		o.EraserMinRadius = eraser.DefaultMinRadius
	}
	if o.MinScale <= 0 {
		o.MinScale = viewport.DefaultMinScale
	}
	if o.Background == nil {
		o.Background = color.NRGBA{R: 0x2b, G: 0x2b, B: 0x2b, A: 0xff}
	}
	if o.Canvas == nil {
		o.Canvas = color.White
	}
}

// Engine is safe for concurrent use. A single mutex guards the document,
// the raster and the viewport; the render loop takes it for each frame.
type Engine struct {
	opts Options

	mu      sync.Mutex
	doc     *state.Drawing
	bounds  []state.Rect
	ras     *raster.Raster
	vp      *viewport.Transformer
	pen     *pressure.Smoother
	er      *eraser.Eraser
	resolve state.ColorResolver

	mode    Mode
	erasing bool
	tool    ToolKind
	color   state.ColorAlias
	alpha   float64
	ink     color.NRGBA
	last    state.Point
	hasLast bool
	gesture pinch
	halted  bool

	surface render.Surface
	loop    render.Loop
}

var _ render.Scene = (*Engine)(nil)

func New(opts Options) *Engine {
	opts.setDefaults()

	vp := viewport.New(float64(opts.CanvasWidth), float64(opts.CanvasHeight))
	vp.SetMinScale(opts.MinScale)

	er := eraser.New()
	er.Margin = opts.EraserMargin
	er.MinRadius = opts.EraserMinRadius

	return &Engine{
		opts:  opts,
		ras:   raster.New(opts.CanvasWidth, opts.CanvasHeight),
		vp:    vp,
		pen:   pressure.New(opts.PenSizeMultiplier),
		er:    er,
		color: opts.Color,
		alpha: opts.Alpha,
	}
}

// Initialize loads a document, rebuilds the raster from its strokes and
// starts the render loop if a surface is attached. The engine keeps its own
// copy of doc. A color that cannot be resolved is reported through OnError
// and returned.
func (e *Engine) Initialize(doc state.Drawing) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	e.mu.Lock()
	d := doc.Clone()
	e.doc = &d
	e.resolve = e.opts.Resolve
	if e.resolve == nil {
		e.resolve = d.Resolver(state.Light)
	}
	e.bounds = make([]state.Rect, len(d.Strokes))
	for i, s := range d.Strokes {
		e.bounds[i] = s.Bounds()
	}
	e.vp.Load(d.Scale, d.TranslationX, d.TranslationY)
	// Load may clamp the scale
	e.syncViewport()
	e.mode = Idle
	e.erasing = false
	e.hasLast = false
	e.halted = false
	e.gesture.reset()
	e.er.Reset()
	err := e.ras.Replay(d.Strokes, e.colorOf)
	surface := e.surface
	e.mu.Unlock()

	if err != nil {
		e.fail(err)
		return err
	}
	logging.For("engine").Info("drawing loaded", "strokes", len(d.Strokes))
	if surface != nil {
		e.loop.Start(surface, e)
	}
	return nil
}

// Drawing returns a deep copy of the current document, including a stroke
// still being drawn.
func (e *Engine) Drawing() state.Drawing {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil {
		return state.NewDrawing()
	}
	return e.doc.Clone()
}

// RequestPersist hands a snapshot of the document to OnPersist.
func (e *Engine) RequestPersist() error {
	e.mu.Lock()
	if e.doc == nil {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	snap := e.doc.Clone()
	e.mu.Unlock()

	if e.opts.OnPersist != nil {
		e.opts.OnPersist(snap)
	}
	return nil
}

func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// StrokeBounds returns a copy of the cached per-stroke bounding boxes.
func (e *Engine) StrokeBounds() []state.Rect {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]state.Rect(nil), e.bounds...)
}

// PenSize returns the pen size multiplier in use.
func (e *Engine) PenSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pen.Multiplier()
}

func (e *Engine) SetPenSize(multiplier int) {
	e.mu.Lock()
	e.pen.SetMultiplier(multiplier)
	e.mu.Unlock()
}

// SetColor selects the color of the next stroke.
func (e *Engine) SetColor(c state.ColorAlias) {
	e.mu.Lock()
	e.color = c
	e.mu.Unlock()
}

// SetAlpha selects the opacity of the next stroke.
func (e *Engine) SetAlpha(a float64) error {
	if a < 0 || a > 1 {
		return state.ErrInvalidAlpha
	}
	e.mu.Lock()
	e.alpha = a
	e.mu.Unlock()
	return nil
}

// SetTool switches between pen and eraser for stylus and mouse input.
func (e *Engine) SetTool(k ToolKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if k != e.tool {
		e.er.Reset()
		e.hasLast = false
	}
	e.tool = k
}

// HandleEvent processes one pointer event. Events that cannot be mapped to
// the canvas are dropped.
func (e *Engine) HandleEvent(ev Event) {
	e.mu.Lock()
	var err error
	if e.doc != nil && !e.halted {
		switch ev.Tool {
		case Finger:
			e.handleFinger(ev)
		case Stylus, EraserTip, Mouse:
			err = e.handlePen(ev)
		}
	}
	e.mu.Unlock()

	if err != nil {
		e.fail(err)
	}
}

// ScaleBy zooms by factor around a surface point in one step, for hosts
// whose input has no pinch gesture.
func (e *Engine) ScaleBy(factor float64, focus state.Point) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.doc == nil || e.vp.Scaling() {
		return false
	}
	if !e.vp.BeginScale(focus) {
		return false
	}
	ok := e.vp.ScaleBy(factor, focus)
	e.vp.EndScale()
	e.syncViewport()
	return ok
}

func (e *Engine) handleFinger(ev Event) {
	if ev.Action == Up || ev.Action == Cancel {
		e.endScale()
		return
	}
	pts := contacts(ev)
	if len(pts) < 2 {
		e.endScale()
		return
	}

	focus, span := measure(pts)
	if !e.gesture.active {
		if !e.vp.BeginScale(focus) {
			return
		}
		e.gesture = pinch{active: true, span: span}
		e.mode = Scaling
		return
	}
	if k, ok := e.gesture.factor(span); ok && e.vp.ScaleBy(k, focus) {
		e.syncViewport()
	}
}

func (e *Engine) endScale() {
	if !e.gesture.active {
		return
	}
	e.gesture.reset()
	e.vp.EndScale()
	e.mode = Idle
}

func (e *Engine) syncViewport() {
	e.doc.Scale = e.vp.Scale()
	e.doc.TranslationX, e.doc.TranslationY = e.vp.Translation()
}

func (e *Engine) handlePen(ev Event) error {
	p, ok := e.vp.ScreenToModel(state.Point{X: ev.X, Y: ev.Y})
	if !ok {
		return nil
	}

	if ev.Action == ButtonDown {
		e.erasing = true
	} else if e.erasing && ev.Action == Down {
		e.erasing = false
	}

	if e.erasing || ev.Tool == EraserTip || e.tool == Eraser {
		switch ev.Action {
		case Up, Cancel:
			e.mode = Idle
			return nil
		case Down, ButtonDown:
			if !e.er.Empty() {
				e.er.Reset()
			}
		}
		e.mode = Erasing
		return e.eraseAt(p)
	}

	switch ev.Action {
	case Down, ButtonDown:
		return e.moveTo(p, ev.Pressure)
	case Move:
		return e.lineTo(p, ev.Pressure)
	case Up, Cancel:
		e.mode = Idle
		e.hasLast = false
	}
	return nil
}

// moveTo starts a new stroke at p and paints its first dot.
func (e *Engine) moveTo(p state.Point, raw float64) error {
	ink, err := e.colorOf(e.color, e.alpha)
	if err != nil {
		return err
	}
	w := e.pen.Start(raw)
	e.doc.Strokes = append(e.doc.Strokes, state.NewStroke(p.X, p.Y, w, e.color, e.alpha))
	e.bounds = append(e.bounds, state.RectAround(p.X, p.Y, w))
	e.ink = ink
	e.last, e.hasLast = p, true
	e.mode = Drawing
	return e.ras.Dot(p, w, ink)
}

// lineTo extends the current stroke to p and paints only the new segment.
func (e *Engine) lineTo(p state.Point, raw float64) error {
	if !e.hasLast || len(e.doc.Strokes) == 0 {
		return e.moveTo(p, raw)
	}
	w := e.pen.Next(raw)
	i := len(e.doc.Strokes) - 1
	e.bounds[i].Grow(p.X, p.Y, w)
	if err := e.ras.Segment(e.last, p, w, e.ink); err != nil {
		return err
	}
	e.doc.Strokes[i].Append(p.X, p.Y, w)
	e.last = p
	return nil
}

// eraseAt swaps the surviving strokes into the document and repaints the
// raster from them when the eraser hit anything.
func (e *Engine) eraseAt(p state.Point) error {
	e.hasLast = false
	res, ok := e.er.EraseAt(p, e.doc.Strokes, e.bounds)
	if !ok {
		return nil
	}
	e.doc.Strokes, e.bounds = res.Strokes, res.Bounds
	logging.For("engine").Debug("erased strokes", "removed", res.Removed, "left", len(res.Strokes))
	return e.ras.Replay(e.doc.Strokes, e.colorOf)
}

func (e *Engine) colorOf(c state.ColorAlias, alpha float64) (color.NRGBA, error) {
	ink, err := e.resolve(c, alpha)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %v alpha %.2f: %w", ErrColorResolution, c, alpha, err)
	}
	return ink, nil
}

// fail halts input and reports err the first time it is called after a
// load.
func (e *Engine) fail(err error) {
	e.mu.Lock()
	first := !e.halted
	e.halted = true
	e.mode = Idle
	e.mu.Unlock()

	if !first {
		return
	}
	logging.For("engine").Error("drawing halted", "err", err)
	if e.opts.OnError != nil {
		e.opts.OnError(err)
	}
}

// Halted reports whether an error has stopped input processing.
func (e *Engine) Halted() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.halted
}

// PaintFrame renders the current frame into dst. It is called by the render
// loop and holds the engine lock for the duration of one composition.
func (e *Engine) PaintFrame(dst draw.Image) {
	e.mu.Lock()
	defer e.mu.Unlock()
	tx, ty := e.vp.Translation()
	render.Compose(dst, e.ras.Image(), render.Frame{
		Scale:        e.vp.Scale(),
		TranslationX: tx,
		TranslationY: ty,
		CanvasWidth:  e.opts.CanvasWidth,
		CanvasHeight: e.opts.CanvasHeight,
		Background:   e.opts.Background,
		Canvas:       e.opts.Canvas,
	})
}

// SurfaceCreated attaches a surface of the given pixel size and starts the
// render loop when a drawing is loaded. A loop already running on an older
// surface is stopped first.
func (e *Engine) SurfaceCreated(s render.Surface, width, height float64) {
	e.loop.Stop()

	e.mu.Lock()
	e.surface = s
	e.vp.Resize(width, height)
	loaded := e.doc != nil
	e.mu.Unlock()

	if loaded {
		e.loop.Start(s, e)
	}
}

// SurfaceChanged records a new drawable size.
func (e *Engine) SurfaceChanged(width, height float64) {
	e.mu.Lock()
	e.vp.Resize(width, height)
	e.mu.Unlock()
}

// SurfaceDestroyed stops the render loop. No frame touches the surface once
// it returns.
func (e *Engine) SurfaceDestroyed() {
	e.loop.Stop()
	e.mu.Lock()
	e.surface = nil
	e.mu.Unlock()
}

// Rendering reports whether the render loop is running.
func (e *Engine) Rendering() bool { return e.loop.Running() }

// Close stops the render loop.
func (e *Engine) Close() error {
	e.loop.Stop()
	return nil
}
