package entry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/wheel/internal/game/entry"
	"github.com/cory-johannsen/wheel/internal/storage"
	"github.com/cory-johannsen/wheel/internal/storage/file"
)

var errBroken = errors.New("disk on fire")

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, errBroken }
func (brokenKV) Set(context.Context, string, string) error         { return errBroken }

func newStore(t *testing.T, kv storage.KV) *entry.Store {
	t.Helper()
	s := entry.NewStore(kv, "", nil, zaptest.NewLogger(t))
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestLoad_DefaultsWhenAbsent(t *testing.T) {
	s := newStore(t, storage.NewMemory())
	assert.Equal(t, []string{"Prize 1", "Prize 2", "Prize 3"}, s.Entries())
}

func TestLoad_DefaultsWhenMalformedOrEmpty(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":      "{oops",
		"wrong shape":   `{"a":1}`,
		"mixed values":  `["a", 2]`,
		"empty array":   `[]`,
		"null":          `null`,
		"blank element": `["A", " "]`,
		"empty element": `["A", "", "   "]`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := storage.NewMemory()
			require.NoError(t, kv.Set(context.Background(), entry.DefaultKey, raw))
			s := newStore(t, kv)
			assert.Equal(t, entry.DefaultEntries, s.Entries())
		})
	}
}

func TestLoad_PersistedList(t *testing.T) {
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(context.Background(), entry.DefaultKey, `["A","B","A"]`))
	s := newStore(t, kv)
	assert.Equal(t, []string{"A", "B", "A"}, s.Entries())
}

func TestLoad_StorageFailureFallsBack(t *testing.T) {
	s := entry.NewStore(brokenKV{}, "", []string{"x"}, zaptest.NewLogger(t))
	err := s.Load(context.Background())
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, []string{"x"}, s.Entries())
}

func TestAdd(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := newStore(t, kv)

	require.NoError(t, s.Add(ctx, "  Dinner  "))
	assert.Equal(t, []string{"Prize 1", "Prize 2", "Prize 3", "Dinner"}, s.Entries())

	raw, ok, err := kv.Get(ctx, entry.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["Prize 1","Prize 2","Prize 3","Dinner"]`, raw)

	assert.ErrorIs(t, s.Add(ctx, "   "), entry.ErrEmptyEntry)
	assert.Equal(t, 4, s.Len())
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	require.NoError(t, s.Update(ctx, 1, "Tea"))
	assert.Equal(t, "Tea", s.At(1))
	assert.ErrorIs(t, s.Update(ctx, 3, "x"), entry.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Update(ctx, -1, "x"), entry.ErrIndexOutOfRange)
	assert.ErrorIs(t, s.Update(ctx, 0, " "), entry.ErrEmptyEntry)
	assert.Equal(t, "Prize 1", s.At(0))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())

	require.NoError(t, s.Remove(ctx, 1))
	assert.Equal(t, []string{"Prize 1", "Prize 3"}, s.Entries())
	require.NoError(t, s.Remove(ctx, 0))
	assert.Equal(t, []string{"Prize 3"}, s.Entries())

	assert.ErrorIs(t, s.Remove(ctx, 0), entry.ErrLastEntry)
	assert.Equal(t, []string{"Prize 3"}, s.Entries())
	assert.ErrorIs(t, s.Remove(ctx, 4), entry.ErrIndexOutOfRange)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemory())
	require.NoError(t, s.Add(ctx, "extra"))
	require.NoError(t, s.Reset(ctx))
	assert.Equal(t, entry.DefaultEntries, s.Entries())
}

func TestEntriesReturnsCopy(t *testing.T) {
	s := newStore(t, storage.NewMemory())
	got := s.Entries()
	got[0] = "mutated"
	assert.Equal(t, "Prize 1", s.At(0))
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	s := entry.NewStore(brokenKV{}, "", nil, zaptest.NewLogger(t))
	err := s.Add(context.Background(), "kept")
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, "kept", s.At(s.Len()-1))
}

func TestRoundTripAcrossSessions(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/wheel.yaml"

	first := newStore(t, file.NewStore(path))
	require.NoError(t, first.Add(ctx, "Pizza"))
	require.NoError(t, first.Remove(ctx, 0))
	require.NoError(t, first.Update(ctx, 0, "Sushi"))

	second := newStore(t, file.NewStore(path))
	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, []string{"Sushi", "Prize 3", "Pizza"}, second.Entries())
}

// Property: any sequence of operations keeps the list non-empty, and a fresh
// store over the same KV sees exactly the in-memory list.
func TestPropertyNonEmptyAndPersisted(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ctx := context.Background()
		kv := storage.NewMemory()
		s := entry.NewStore(kv, "", nil, zaptest.NewLogger(t))
		require.NoError(rt, s.Load(ctx))

		ops := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 40).Draw(rt, "ops")
		for n, op := range ops {
			switch op {
			case 0:
				_ = s.Add(ctx, rapid.StringMatching(`[A-Za-z ]{0,8}`).Draw(rt, "text"))
			case 1:
				_ = s.Remove(ctx, rapid.IntRange(-1, s.Len()).Draw(rt, "remove"))
			case 2:
				_ = s.Update(ctx, rapid.IntRange(-1, s.Len()).Draw(rt, "update"), rapid.StringMatching(`[a-z]{0,5}`).Draw(rt, "text"))
			case 3:
				_ = s.Reset(ctx)
			}
			if s.Len() < 1 {
				rt.Fatalf("op %d left the list empty", n)
			}
			for _, e := range s.Entries() {
				if e == "" {
					rt.Fatalf("op %d stored a blank entry", n)
				}
			}
		}

		fresh := entry.NewStore(kv, "", nil, zaptest.NewLogger(t))
		require.NoError(rt, fresh.Load(ctx))
		if _, ok, _ := kv.Get(ctx, entry.DefaultKey); ok {
			assert.Equal(rt, s.Entries(), fresh.Entries())
		}
	})
}
