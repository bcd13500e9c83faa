package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_AddGetRemove(t *testing.T) {
	v := New()
	assert.Equal(t, CurrentVersion, v.Version)

	require.NoError(t, v.Add(Entry{Name: "github", Username: "octocat", Password: "hunter2"}))
	require.NoError(t, v.Add(Entry{Name: "email", Username: "me@example.com"}))

	e, ok := v.Get("github")
	require.True(t, ok)
	assert.Equal(t, "octocat", e.Username)
	assert.False(t, e.CreatedAt.IsZero())

	_, ok = v.Get("missing")
	assert.False(t, ok)

	require.NoError(t, v.Remove("github"))
	_, ok = v.Get("github")
	assert.False(t, ok)
	assert.ErrorIs(t, v.Remove("github"), ErrEntryNotFound)
}

func TestVault_DuplicateName(t *testing.T) {
	v := New()
	require.NoError(t, v.Add(Entry{Name: "github"}))
	assert.ErrorIs(t, v.Add(Entry{Name: "github"}), ErrDuplicateEntry)
}

func TestVault_EmptyName(t *testing.T) {
	v := New()
	assert.Error(t, v.Add(Entry{}))
}

func TestVault_Update(t *testing.T) {
	v := New()
	require.NoError(t, v.Add(Entry{Name: "site", Password: "old"}))

	require.NoError(t, v.Update("site", Entry{Password: "new"}))
	e, _ := v.Get("site")
	assert.Equal(t, "new", e.Password)
	assert.Equal(t, "site", e.Name)

	assert.ErrorIs(t, v.Update("missing", Entry{}), ErrEntryNotFound)
}

func TestVault_Names_Sorted(t *testing.T) {
	v := New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, v.Add(Entry{Name: name}))
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, v.Names())
}

func TestVault_Search(t *testing.T) {
	v := New()
	require.NoError(t, v.Add(Entry{Name: "GitHub", Username: "octocat"}))
	require.NoError(t, v.Add(Entry{Name: "bank", Tags: []string{"money", "important"}}))
	require.NoError(t, v.Add(Entry{Name: "forum", URL: "https://example.org"}))

	assert.Len(t, v.Search("github"), 1)
	assert.Len(t, v.Search("money"), 1)
	assert.Len(t, v.Search("example"), 1)
	assert.Empty(t, v.Search("nothing"))
}

func TestVault_MarshalUnmarshal(t *testing.T) {
	v := New()
	require.NoError(t, v.Add(Entry{Name: "site", Username: "user", Password: "pass", Tags: []string{"a"}}))

	data, err := v.Marshal()
	require.NoError(t, err)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, v.Version, got.Version)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, v.Entries[0].Name, got.Entries[0].Name)
	assert.Equal(t, v.Entries[0].Password, got.Entries[0].Password)
}

func TestUnmarshal_Errors(t *testing.T) {
	_, err := Unmarshal([]byte("{broken"))
	assert.Error(t, err)

	_, err = Unmarshal([]byte(`{"version":99,"entries":[]}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}
