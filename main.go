package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"LocalInk/internal/config"
	"LocalInk/internal/engine"
	"LocalInk/internal/export"
	"LocalInk/internal/logging"
	inknet "LocalInk/internal/net"
	"LocalInk/internal/state"
	"LocalInk/internal/store"
	"LocalInk/internal/ui"

	"github.com/google/uuid"
)

const (
	thumbSide     = 256
	autosaveEvery = 30 * time.Second
	publishEvery  = time.Second
	browseFor     = 3 * time.Second
)

func main() {
	var (
		configPath = flag.String("config", defaultConfigPath(), "settings file")
		docID      = flag.String("doc", "", "open the drawing with this id instead of the most recent one")
		newDoc     = flag.Bool("new", false, "start a new drawing")
		share      = flag.Bool("share", false, "share the drawing on the local network")
		follow     = flag.String("follow", "", "save snapshots from a shared drawing at this ws:// url")
		discover   = flag.Bool("discover", false, "list shared drawings on the local network and exit")
		exportPath = flag.String("export", "", "render the drawing to this file and exit")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *share {
		cfg.Share.Enabled = true
	}

	if *discover {
		runDiscover()
		return
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open drawings: %v", err)
	}

	if *follow != "" {
		runFollow(st, *follow)
		return
	}

	id, doc, err := openDrawing(st, *docID, *newDoc)
	if err != nil {
		log.Fatalf("Failed to open drawing: %v", err)
	}

	mode, _ := cfg.ThemeMode()
	resolve := doc.Resolver(mode)

	if *exportPath != "" {
		if err := runExport(doc, resolve, *exportPath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	if size := runEditor(cfg, st, id, doc, mode, resolve); size != cfg.PenSize {
		rememberPenSize(*configPath, size)
	}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "localink.toml"
	}
	return filepath.Join(dir, "localink", "config.toml")
}

func openDrawing(st *store.Store, docID string, fresh bool) (uuid.UUID, state.Drawing, error) {
	if docID != "" {
		id, err := uuid.Parse(docID)
		if err != nil {
			return uuid.Nil, state.Drawing{}, fmt.Errorf("bad drawing id %q: %w", docID, err)
		}
		d, err := st.Get(id)
		return id, d, err
	}
	if !fresh {
		id, err := st.Latest()
		if err == nil {
			d, err := st.Get(id)
			return id, d, err
		}
		if !errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, state.Drawing{}, err
		}
	}
	id, err := st.Create()
	if err != nil {
		return uuid.Nil, state.Drawing{}, err
	}
	log.Printf("Created drawing %s", id)
	return id, state.NewDrawing(), nil
}

// rememberPenSize stores size in the settings file, leaving every other
// setting as the file has it rather than as flags overrode it.
func rememberPenSize(path string, size int) {
	cfg, err := config.Load(path)
	if err != nil {
		log.Printf("Not saving pen size: %v", err)
		return
	}
	cfg.PenSize = size
	if err := cfg.Save(path); err != nil {
		log.Printf("Not saving pen size: %v", err)
	}
}

// runEditor blocks until the window is closed and returns the pen size the
// editor closed with.
func runEditor(cfg config.Config, st *store.Store, id uuid.UUID, doc state.Drawing, mode state.Mode, resolve state.ColorResolver) int {
	var window *ui.App
	var hub *inknet.Hub

	persist := func(d state.Drawing) error {
		if err := st.Save(id, d); err != nil {
			return err
		}
		log.Printf("[STORE] Saved %s (%d strokes)", id, len(d.Strokes))
		thumb, err := export.Thumbnail(d, thumbSide, export.Options{Resolve: resolve})
		if err == nil {
			err = st.SaveThumbnail(id, thumb)
		}
		if err != nil {
			log.Printf("[STORE] No preview for %s: %v", id, err)
		}
		return nil
	}

	bg, canvasColor := surfaceColors(mode)
	eng := engine.New(engine.Options{
		CanvasWidth:       cfg.Canvas.Width,
		CanvasHeight:      cfg.Canvas.Height,
		PenSizeMultiplier: cfg.PenSize,
		Resolve:           resolve,
		EraserMargin:      cfg.Eraser.Margin,
		EraserMinRadius:   cfg.Eraser.MinRadius,
		MinScale:          cfg.MinScale,
		Background:        bg,
		Canvas:            canvasColor,
		OnError: func(err error) {
			log.Printf("[ENGINE] %v", err)
			if window != nil {
				window.Fail(err)
			}
		},
		OnPersist: func(d state.Drawing) {
			if err := persist(d); err != nil {
				log.Printf("[STORE] Autosave failed: %v", err)
			}
		},
	})
	defer eng.Close()

	if err := eng.Initialize(doc); err != nil {
		log.Fatalf("Failed to load drawing %s: %v", id, err)
	}

	var shareURL string
	if cfg.Share.Enabled {
		hub = inknet.NewHub()
		stop, url, err := startSharing(cfg.Share, hub)
		if err != nil {
			log.Printf("[SHARE] Sharing disabled: %v", err)
			hub = nil
		} else {
			defer stop()
			shareURL = url
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go autosave(ctx, eng)
	if hub != nil {
		go publish(ctx, eng, hub)
	}

	window = ui.NewApp(ui.Host{
		Title:    "LocalInk",
		Engine:   eng,
		Resolve:  resolve,
		PenSize:  cfg.PenSize,
		ShareURL: shareURL,
		Save: func() error {
			return persist(eng.Drawing())
		},
		Export: func(w io.Writer, f export.Format) error {
			return export.Encode(w, eng.Drawing(), f, export.Options{Resolve: resolve})
		},
	})
	window.Run()
	return eng.PenSize()
}

func surfaceColors(mode state.Mode) (background, canvas color.Color) {
	if mode == state.Dark {
		return color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff}, color.NRGBA{R: 0x28, G: 0x2a, B: 0x36, A: 0xff}
	}
	return color.NRGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}, color.White
}

func autosave(ctx context.Context, eng *engine.Engine) {
	t := time.NewTicker(autosaveEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := eng.RequestPersist(); err != nil {
				log.Printf("[STORE] Autosave skipped: %v", err)
			}
		}
	}
}

func publish(ctx context.Context, eng *engine.Engine, hub *inknet.Hub) {
	t := time.NewTicker(publishEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if hub.Clients() == 0 {
				continue
			}
			if err := hub.Publish(eng.Drawing()); err != nil {
				log.Printf("[SHARE] Publish failed: %v", err)
			}
		}
	}
}

// startSharing serves the hub and, when enabled, advertises it. The
// returned func shuts both down.
func startSharing(cfg config.Share, hub *inknet.Hub) (func(), string, error) {
	url, port, err := inknet.ShareURL(cfg.Listen)
	if err != nil {
		return nil, "", err
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Addr: cfg.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[SHARE] Server stopped: %v", err)
		}
	}()
	log.Printf("[SHARE] Viewers can connect to %s", url)

	var stopMDNS func() error
	if cfg.MDNS {
		server, err := inknet.Advertise(port)
		if err != nil {
			log.Printf("[SHARE] mDNS disabled: %v", err)
		} else {
			stopMDNS = server.Shutdown
		}
	}

	return func() {
		if stopMDNS != nil {
			stopMDNS()
		}
		hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}, url, nil
}

func runDiscover() {
	n := 0
	err := inknet.Browse(browseFor, func(name, addr string) {
		n++
		fmt.Printf("%s\tws://%s/ws\n", name, addr)
	})
	if err != nil {
		log.Fatalf("Discovery failed: %v", err)
	}
	if n == 0 {
		log.Println("No shared drawings found.")
	}
}

func runFollow(st *store.Store, url string) {
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(url))
	log.Printf("Following %s into drawing %s", url, id)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := inknet.Follow(ctx, url, func(m inknet.Message) {
		if m.Drawing == nil {
			return
		}
		if err := st.Save(id, *m.Drawing); err != nil {
			log.Printf("[SHARE] Dropping snapshot %d: %v", m.Revision, err)
			return
		}
		log.Printf("[SHARE] Saved snapshot %d (%d strokes)", m.Revision, len(m.Drawing.Strokes))
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Follow failed: %v", err)
	}
}

func runExport(doc state.Drawing, resolve state.ColorResolver, path string) error {
	f, err := export.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Encode(out, doc, f, export.Options{Resolve: resolve}); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	w, h := export.Bounds(doc)
	log.Printf("Exported %dx%d %v to %s", w, h, f, path)
	return nil
}
