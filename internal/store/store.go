// Package store keeps drawings as JSON files in a directory, one file per
// document named by its uuid.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"LocalInk/internal/state"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	ext      = ".json"
	thumbExt = ".png"
)

var ErrNotFound = errors.New("store: drawing not found")

// Entry describes a saved drawing.
type Entry struct {
	ID       uuid.UUID
	Modified time.Time
	Size     int64
}

// Store is safe for concurrent use.
type Store struct {
	dir string
	mu  sync.Mutex
}

// Open returns a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) path(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+ext)
}

// ThumbnailPath is where the preview image of id is kept.
func (s *Store) ThumbnailPath(id uuid.UUID) string {
	return filepath.Join(s.dir, id.String()+thumbExt)
}

// Create saves a new empty drawing and returns its id.
func (s *Store) Create() (uuid.UUID, error) {
	id := uuid.New()
	if err := s.Save(id, state.NewDrawing()); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// Save validates d and replaces the stored document atomically.
func (s *Store) Save(id uuid.UUID, d state.Drawing) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, id.String()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("save %s: %w", id, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save %s: %w", id, err)
	}
	return nil
}

// SaveThumbnail replaces the preview image of id.
func (s *Store) SaveThumbnail(id uuid.UUID, img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmp, err := os.CreateTemp(s.dir, id.String()+"-*.tmp")
	if err != nil {
		return fmt.Errorf("thumbnail %s: %w", id, err)
	}
	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("thumbnail %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("thumbnail %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.ThumbnailPath(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("thumbnail %s: %w", id, err)
	}
	return nil
}

// Get loads and validates a drawing.
func (s *Store) Get(id uuid.UUID) (state.Drawing, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path(id))
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return state.Drawing{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return state.Drawing{}, fmt.Errorf("get %s: %w", id, err)
	}

	var d state.Drawing
	if err := json.Unmarshal(data, &d); err != nil {
		return state.Drawing{}, fmt.Errorf("get %s: %w", id, err)
	}
	if err := d.Validate(); err != nil {
		return state.Drawing{}, fmt.Errorf("get %s: %w", id, err)
	}
	return d, nil
}

// Delete removes a drawing and its preview.
func (s *Store) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}
	if err := os.Remove(s.ThumbnailPath(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns every saved drawing, most recently modified first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	des, err := os.ReadDir(s.dir)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	var out []Entry
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(name, ext))
		if err != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{ID: id, Modified: info.ModTime(), Size: info.Size()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Modified.After(out[j].Modified) })
	return out, nil
}

// Latest returns the most recently modified drawing id.
func (s *Store) Latest() (uuid.UUID, error) {
	entries, err := s.List()
	if err != nil {
		return uuid.Nil, err
	}
	if len(entries) == 0 {
		return uuid.Nil, ErrNotFound
	}
	return entries[0].ID, nil
}
