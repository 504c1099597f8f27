package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wheel/internal/storage/file"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s := file.NewStore(filepath.Join(t.TempDir(), "wheel.yaml"))
	_, ok, err := s.Get(context.Background(), "rouletteEntries")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SetThenGet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "wheel.yaml")
	s := file.NewStore(path)

	require.NoError(t, s.Set(ctx, "rouletteEntries", `["A","B"]`))
	require.NoError(t, s.Set(ctx, "other", "x"))

	fresh := file.NewStore(path)
	v, ok, err := fresh.Get(ctx, "rouletteEntries")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["A","B"]`, v)

	v, ok, err = fresh.Get(ctx, "other")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temporary files must be cleaned up")
}

func TestStore_MalformedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wheel.yaml")
	require.NoError(t, os.WriteFile(path, []byte("values: [this is: not a map"), 0o644))

	s := file.NewStore(path)
	_, _, err := s.Get(ctx, "rouletteEntries")
	assert.Error(t, err)

	require.NoError(t, s.Set(ctx, "rouletteEntries", `["A"]`), "a corrupt file is replaced on write")
	v, ok, err := s.Get(ctx, "rouletteEntries")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["A"]`, v)
}

// Property: any value written is read back verbatim by a fresh store.
func TestStore_RoundTripProperty(t *testing.T) {
	dir := t.TempDir()
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		key := rapid.StringMatching(`[a-zA-Z][a-zA-Z0-9_]{0,15}`).Draw(rt, "key")
		value := rapid.StringMatching(`[ -~äöüé🎉]{0,64}`).Draw(rt, "value")
		path := filepath.Join(dir, rapid.StringMatching(`[a-z]{8}`).Draw(rt, "file")+".yaml")

		if err := file.NewStore(path).Set(ctx, key, value); err != nil {
			rt.Fatalf("Set: %v", err)
		}
		got, ok, err := file.NewStore(path).Get(ctx, key)
		if err != nil || !ok || got != value {
			rt.Fatalf("Get(%q) = %q, %v, %v; want %q", key, got, ok, err, value)
		}
	})
}
