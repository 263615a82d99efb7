package ui

import (
	"fmt"
	"io"
	"log"

	"LocalInk/internal/engine"
	"LocalInk/internal/export"
	"LocalInk/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Host is what the window needs from the rest of the program.
type Host struct {
	Title   string
	Engine  *engine.Engine
	Resolve state.ColorResolver
	PenSize int
	// ShareURL is shown in the status bar when sharing is on.
	ShareURL string

	// Save persists the current drawing.
	Save func() error
	// Export writes the current drawing in format f.
	Export func(w io.Writer, f export.Format) error
}

// App is the editor window.
type App struct {
	host   Host
	app    fyne.App
	win    fyne.Window
	board  *Board
	status *widget.Label
}

func NewApp(h Host) *App {
	a := &App{host: h, app: app.NewWithID("io.localink")}
	a.win = a.app.NewWindow(h.Title)
	a.win.Resize(fyne.NewSize(1024, 768))
	a.board = NewBoard(h.Engine)
	a.status = widget.NewLabel("Ready")
	if h.ShareURL != "" {
		a.status.SetText("Sharing at " + h.ShareURL)
	}

	toolbar := NewToolbar(h.Engine, h.Resolve, h.PenSize, Actions{Save: a.save, Export: a.export})
	a.win.SetContent(container.NewBorder(toolbar, a.status, nil, nil, a.board))
	a.win.SetOnClosed(func() {
		a.board.Detach()
		if h.Save != nil {
			if err := h.Save(); err != nil {
				log.Printf("[UI] Save on close failed: %v", err)
			}
		}
	})
	return a
}

// Run shows the window and blocks until it is closed.
func (a *App) Run() { a.win.ShowAndRun() }

// SetStatus may be called from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() { a.status.SetText(text) })
}

// Fail tells the user the session cannot continue and closes the window
// once they dismiss the message.
func (a *App) Fail(err error) {
	fyne.Do(func() {
		d := dialog.NewError(fmt.Errorf("the drawing cannot be edited: %w", err), a.win)
		d.SetOnClosed(a.win.Close)
		d.Show()
	})
}

func (a *App) save() {
	if a.host.Save == nil {
		return
	}
	if err := a.host.Save(); err != nil {
		log.Printf("[UI] Save failed: %v", err)
		a.status.SetText("Error saving drawing")
		dialog.ShowError(err, a.win)
		return
	}
	a.status.SetText("Saved")
}

func (a *App) export() {
	if a.host.Export == nil {
		return
	}
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			return
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Printf("[UI] Error closing export: %v", err)
			}
		}()
		f, err := export.ParseFormat(w.URI().Extension())
		if err != nil {
			f = export.PNG
		}
		if err := a.host.Export(w, f); err != nil {
			log.Printf("[UI] Export failed: %v", err)
			a.status.SetText("Error exporting drawing")
			return
		}
		a.status.SetText("Exported " + w.URI().Name())
	}, a.win)
	d.SetFileName("drawing" + export.PNG.Ext())
	d.Show()
}
