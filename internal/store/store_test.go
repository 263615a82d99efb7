package store

import (
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"LocalInk/internal/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() state.Drawing {
	d := state.NewDrawing()
	s := state.NewStroke(10, 20, 3.5, state.Red, 0.75)
	s.Append(11.25, 22.5, 4.2)
	d.Strokes = append(d.Strokes, s)
	d.Scale = 1.25
	d.TranslationX = -30
	return d
}

func TestSaveGetRoundTrip(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)

	id := uuid.New()
	d := sample()
	require.NoError(t, st.Save(id, d))

	got, err := st.Get(id)
	require.NoError(t, err)
	assert.Equal(t, d, got)
}

func TestCreateListDelete(t *testing.T) {
	assert := assert.New(t)
	st, err := Open(filepath.Join(t.TempDir(), "drawings"))
	require.NoError(t, err)

	a, err := st.Create()
	require.NoError(t, err)
	b, err := st.Create()
	require.NoError(t, err)
	// make b clearly newer
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(st.Dir(), a.String()+".json"), old, old))

	entries, err := st.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(b, entries[0].ID)

	latest, err := st.Latest()
	require.NoError(t, err)
	assert.Equal(b, latest)

	require.NoError(t, st.Delete(b))
	assert.ErrorIs(st.Delete(b), ErrNotFound)
	_, err = st.Get(b)
	assert.ErrorIs(err, ErrNotFound)
}

func TestSaveRejectsMalformed(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)

	d := state.NewDrawing()
	d.Strokes = []state.Stroke{{PointsX: []float64{1, 2}, PointsY: []float64{1}, PointsGirth: []float64{1}}}
	assert.ErrorIs(t, st.Save(uuid.New(), d), state.ErrUnequalPoints)

	entries, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), nil, 0o644))

	entries, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
	_, err = st.Latest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	st, err := Open(dir)
	require.NoError(t, err)
	id := uuid.New()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id.String()+".json"), []byte(`{"scale":0}`), 0o644))

	_, err = st.Get(id)
	assert.ErrorIs(t, err, state.ErrInvalidScale)
}

func TestThumbnailSavedAndDeleted(t *testing.T) {
	st, err := Open(t.TempDir())
	require.NoError(t, err)
	id, err := st.Create()
	require.NoError(t, err)

	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.Black)
	require.NoError(t, st.SaveThumbnail(id, img))

	f, err := os.Open(st.ThumbnailPath(id))
	require.NoError(t, err)
	cfg, format, err := image.DecodeConfig(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 8, cfg.Width)

	entries, err := st.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1, "previews are not listed as drawings")

	require.NoError(t, st.Delete(id))
	_, err = os.Stat(st.ThumbnailPath(id))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
