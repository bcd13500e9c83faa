package gallery

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestGallery(t *testing.T) *Gallery {
	t.Helper()
	g, err := Open(filepath.Join(t.TempDir(), "gallery.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { g.Close() })
	return g
}

func TestGallery_AddGetList(t *testing.T) {
	g := openTestGallery(t)

	id, err := g.Add(Record{
		Label:    "personal",
		Path:     "/images/vacation.png",
		SHA256:   ContentHash([]byte("image bytes")),
		Width:    800,
		Height:   600,
		Capacity: 180000,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	rec, err := g.Get("personal")
	require.NoError(t, err)
	assert.Equal(t, "/images/vacation.png", rec.Path)
	assert.Equal(t, 800, rec.Width)
	assert.Equal(t, 180000, rec.Capacity)
	assert.False(t, rec.CreatedAt.IsZero())

	records, err := g.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestGallery_ListEmpty(t *testing.T) {
	g := openTestGallery(t)
	records, err := g.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGallery_DuplicateLabel(t *testing.T) {
	g := openTestGallery(t)
	_, err := g.Add(Record{Label: "dup", Path: "a.png", SHA256: "x"})
	require.NoError(t, err)
	_, err = g.Add(Record{Label: "dup", Path: "b.png", SHA256: "y"})
	assert.Error(t, err)
}

func TestGallery_Remove(t *testing.T) {
	g := openTestGallery(t)
	_, err := g.Add(Record{Label: "gone", Path: "a.png", SHA256: "x"})
	require.NoError(t, err)

	require.NoError(t, g.Remove("gone"))
	_, err = g.Get("gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, g.Remove("gone"), ErrNotFound)
}

func TestGallery_GetMissing(t *testing.T) {
	g := openTestGallery(t)
	_, err := g.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGallery_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gallery.db")

	g, err := Open(path, "")
	require.NoError(t, err)
	_, err = g.Add(Record{Label: "kept", Path: "a.png", SHA256: "x"})
	require.NoError(t, err)
	require.NoError(t, g.Close())

	g, err = Open(path, "")
	require.NoError(t, err)
	defer g.Close()
	rec, err := g.Get("kept")
	require.NoError(t, err)
	assert.Equal(t, "a.png", rec.Path)
}

func TestContentHash(t *testing.T) {
	a := ContentHash([]byte("data"))
	b := ContentHash([]byte("data"))
	c := ContentHash([]byte("other"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
