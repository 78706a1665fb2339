package mem

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/tally/core/store"
	"golang.org/x/xerrors"
)

func TestStore_Get_Set_Delete(t *testing.T) {
	s := NewStore()

	value, err := s.Get([]byte("ping"))
	require.NoError(t, err)
	require.Nil(t, value)

	require.NoError(t, s.Set([]byte("ping"), []byte("pong")))

	value, err = s.Get([]byte("ping"))
	require.NoError(t, err)
	require.Equal(t, []byte("pong"), value)
	require.Equal(t, 1, s.Len())

	require.NoError(t, s.Delete([]byte("ping")))
	require.Equal(t, 0, s.Len())
}

func TestStore_Scan(t *testing.T) {
	s := NewStore()

	for _, key := range []string{"b/2", "a/1", "b/1", "b/3", "c"} {
		require.NoError(t, s.Set([]byte(key), []byte(key)))
	}

	require.Equal(t, []string{"b/1", "b/2", "b/3"}, scanKeys(t, s, "b/", ""))
	require.Equal(t, []string{"b/2", "b/3"}, scanKeys(t, s, "b/", "b/2"))
	require.Equal(t, []string{"a/1", "b/1", "b/2", "b/3", "c"}, scanKeys(t, s, "", ""))
	require.Empty(t, scanKeys(t, s, "d", ""))

	count := 0
	err := s.Scan(nil, nil, func(k, v []byte) error {
		count++
		return store.ErrStop
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)

	err = s.Scan(nil, nil, func(k, v []byte) error {
		return xerrors.New("oops")
	})
	require.EqualError(t, err, "callback failed: oops")
}

func TestStore_Stage(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set([]byte("a"), []byte("1")))
	require.NoError(t, s.Set([]byte("c"), []byte("3")))

	err := s.Stage(func(snap store.Snapshot) error {
		require.NoError(t, snap.Set([]byte("b"), []byte("2")))
		require.NoError(t, snap.Delete([]byte("a")))

		value, err := snap.Get([]byte("a"))
		require.NoError(t, err)
		require.Nil(t, value)

		value, err = snap.Get([]byte("c"))
		require.NoError(t, err)
		require.Equal(t, []byte("3"), value)

		require.Equal(t, []string{"b", "c"}, scanKeys(t, snap, "", ""))

		return nil
	})
	require.NoError(t, err)

	require.Equal(t, []string{"b", "c"}, scanKeys(t, s, "", ""))
}

func TestStore_StageFailure(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set([]byte("a"), []byte("1")))

	err := s.Stage(func(snap store.Snapshot) error {
		require.NoError(t, snap.Set([]byte("b"), []byte("2")))
		require.NoError(t, snap.Delete([]byte("a")))

		return xerrors.New("oops")
	})
	require.EqualError(t, err, "oops")

	err = s.View(func(r store.Reader) error {
		require.Equal(t, []string{"a"}, scanKeys(t, r, "", ""))
		return nil
	})
	require.NoError(t, err)
}

func TestLayer_ScanShadowing(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set([]byte("k1"), []byte("old")))
	require.NoError(t, s.Set([]byte("k3"), []byte("old")))

	err := s.Stage(func(snap store.Snapshot) error {
		require.NoError(t, snap.Set([]byte("k1"), []byte("new")))
		require.NoError(t, snap.Set([]byte("k2"), []byte("new")))
		require.NoError(t, snap.Delete([]byte("k3")))

		values := map[string]string{}
		err := snap.Scan([]byte("k"), nil, func(k, v []byte) error {
			values[string(k)] = string(v)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, map[string]string{"k1": "new", "k2": "new"}, values)

		return nil
	})
	require.NoError(t, err)
}

// -----------------------------------------------------------------------------
// Utility functions

func scanKeys(t *testing.T, r store.Iterable, prefix, from string) []string {
	keys := []string{}

	var start []byte
	if from != "" {
		start = []byte(from)
	}

	err := r.Scan([]byte(prefix), start, func(k, v []byte) error {
		keys = append(keys, string(k))
		return nil
	})
	require.NoError(t, err)

	return keys
}
