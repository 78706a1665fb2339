package kv

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/tally/core/store"
	"golang.org/x/xerrors"
)

func TestLedger_Stage(t *testing.T) {
	db, clean := makeDB(t)
	defer clean()

	ledger := NewLedger(db, []byte("ledger"))

	err := ledger.Stage(func(snap store.Snapshot) error {
		require.NoError(t, snap.Set([]byte("a"), []byte("1")))
		require.NoError(t, snap.Set([]byte("b"), []byte("2")))

		value, err := snap.Get([]byte("a"))
		require.NoError(t, err)
		require.Equal(t, []byte("1"), value)

		return nil
	})
	require.NoError(t, err)

	err = ledger.Stage(func(snap store.Snapshot) error {
		require.NoError(t, snap.Delete([]byte("a")))
		require.NoError(t, snap.Set([]byte("c"), []byte("3")))

		return xerrors.New("oops")
	})
	require.EqualError(t, err, "oops")

	err = ledger.View(func(r store.Reader) error {
		value, err := r.Get([]byte("a"))
		require.NoError(t, err)
		require.Equal(t, []byte("1"), value)

		value, err = r.Get([]byte("c"))
		require.NoError(t, err)
		require.Nil(t, value)

		return nil
	})
	require.NoError(t, err)
}

func TestLedger_ViewEmpty(t *testing.T) {
	db, clean := makeDB(t)
	defer clean()

	ledger := NewLedger(db, []byte("ledger"))

	err := ledger.View(func(r store.Reader) error {
		value, err := r.Get([]byte("a"))
		require.NoError(t, err)
		require.Nil(t, value)

		return r.Scan(nil, nil, func(k, v []byte) error {
			t.Fatal("unexpected key")
			return nil
		})
	})
	require.NoError(t, err)
}

func TestBucketSnapshot_ReadOnly(t *testing.T) {
	snap := bucketSnapshot{}

	require.EqualError(t, snap.Set([]byte("a"), nil), "read-only snapshot")
	require.EqualError(t, snap.Delete([]byte("a")), "read-only snapshot")
}

func TestBucketSnapshot_Scan(t *testing.T) {
	db, clean := makeDB(t)
	defer clean()

	ledger := NewLedger(db, []byte("ledger"))

	err := ledger.Stage(func(snap store.Snapshot) error {
		for _, key := range []string{"p/a", "p/b", "p/c", "q/a"} {
			require.NoError(t, snap.Set([]byte(key), []byte(key)))
		}

		keys := []string{}
		err := snap.Scan([]byte("p/"), []byte("p/b"), func(k, v []byte) error {
			keys = append(keys, string(k))
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []string{"p/b", "p/c"}, keys)

		keys = keys[:0]
		err = snap.Scan([]byte("p/"), nil, func(k, v []byte) error {
			keys = append(keys, string(k))
			return store.ErrStop
		})
		require.NoError(t, err)
		require.Equal(t, []string{"p/a"}, keys)

		err = snap.Scan(nil, nil, func(k, v []byte) error {
			return xerrors.New("oops")
		})
		require.EqualError(t, err, "callback failed: oops")

		return nil
	})
	require.NoError(t, err)
}

func ExampleLedger_Stage() {
	dir, err := os.MkdirTemp(os.TempDir(), "example")
	if err != nil {
		panic("failed to create folder: " + err.Error())
	}

	defer os.RemoveAll(dir)

	db, err := New(filepath.Join(dir, "example.db"))
	if err != nil {
		panic("failed to open db: " + err.Error())
	}

	defer db.Close()

	ledger := NewLedger(db, []byte("example"))

	err = ledger.Stage(func(snap store.Snapshot) error {
		for _, key := range []string{"polls/b", "polls/a", "config"} {
			err := snap.Set([]byte(key), []byte{})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		panic("stage failed: " + err.Error())
	}

	err = ledger.View(func(r store.Reader) error {
		return r.Scan([]byte("polls/"), nil, func(key, value []byte) error {
			fmt.Println(string(key))
			return nil
		})
	})
	if err != nil {
		panic("view failed: " + err.Error())
	}

	// Output: polls/a
	// polls/b
}
