package render

import (
	"sync"
	"time"

	"LocalInk/internal/logging"

	"golang.org/x/image/draw"
)

// Surface is a display target a frame can be painted on. Lock returns a
// buffer to paint into; UnlockAndPost presents it.
type Surface interface {
	Lock() (draw.Image, error)
	UnlockAndPost(draw.Image)
}

// Scene paints one complete frame into dst.
type Scene interface {
	PaintFrame(dst draw.Image)
}

// lockRetry is how long the loop waits after a failed Lock.
const lockRetry = 10 * time.Millisecond

// Loop repeatedly paints a scene onto a surface from its own goroutine until
// stopped. A stopped loop can be started again.
type Loop struct {
	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// Start launches the loop. It returns false if the loop is already running.
func (l *Loop) Start(s Surface, sc Scene) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return false
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go run(s, sc, l.stop, l.done)
	return true
}

// Stop asks the loop to exit and blocks until it has. Stopping a loop that
// is not running does nothing.
func (l *Loop) Stop() {
	l.mu.Lock()
	stop, done := l.stop, l.done
	l.stop, l.done = nil, nil
	l.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the loop goroutine is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stop != nil
}

func run(s Surface, sc Scene, stop, done chan struct{}) {
	defer close(done)
	log := logging.For("render")
	log.Debug("loop started")
	defer log.Debug("loop stopped")

	for {
		select {
		case <-stop:
			return
		default:
		}

		dst, err := s.Lock()
		if err != nil {
			log.Warn("surface lock failed", "err", err)
			select {
			case <-stop:
				return
			case <-time.After(lockRetry):
			}
			continue
		}
		sc.PaintFrame(dst)
		s.UnlockAndPost(dst)
	}
}
