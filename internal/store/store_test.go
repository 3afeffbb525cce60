package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"prio-field/field"
	"prio-field/share"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "shares.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutLoadRoundTrip(t *testing.T) {
	db := openTemp(t)
	in := []field.Field64{field.New[field.P64](4), field.New[field.P64](8), field.New[field.P64](15)}
	shares, err := share.Split(in, 3)
	require.NoError(t, err)
	// Store out of order; LoadShares returns index order.
	for _, i := range []int{2, 0, 1} {
		require.NoError(t, PutShare(db, "b1", i, shares[i]))
	}

	got, err := LoadShares[field.P64](db, "b1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range shares {
		for j := range in {
			require.True(t, got[i][j].Equal(shares[i][j]), "share %d pos %d", i, j)
		}
	}
	sum, err := share.Reconstruct(got)
	require.NoError(t, err)
	for j := range in {
		require.True(t, sum[j].Equal(in[j]))
	}

	w, err := db.Width("b1")
	require.NoError(t, err)
	require.Equal(t, 8, w)
}

func TestPutRejectsDuplicatesAndWidthChange(t *testing.T) {
	db := openTemp(t)
	v := []field.Field32{field.New[field.P32](1)}
	require.NoError(t, PutShare(db, "b", 0, v))
	require.ErrorIs(t, PutShare(db, "b", 0, v), ErrShareExists)
	require.ErrorIs(t, PutShare(db, "b", 1, []field.Field80{field.One[field.P80]()}), ErrWidthMismatch)
	_, err := LoadShares[field.P126](db, "b")
	require.ErrorIs(t, err, ErrWidthMismatch)
	require.Error(t, PutShare(db, "b", -1, v))
}

func TestLoadDetectsTampering(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, PutShare(db, "b", 0, []field.Field32{field.New[field.P32](7)}))

	require.NoError(t, db.db.Update(func(tx *bolt.Tx) error {
		sb := tx.Bucket([]byte(batchesBucket)).Bucket([]byte("b")).Bucket([]byte(sharesBucket))
		raw := append([]byte(nil), sb.Get(indexKey(0))...)
		raw[len(raw)-1] ^= 1
		return sb.Put(indexKey(0), raw)
	}))
	_, err := LoadShares[field.P32](db, "b")
	require.ErrorIs(t, err, ErrCorrupt)
}

func TestBatchesAndDelete(t *testing.T) {
	db := openTemp(t)
	_, err := LoadShares[field.P32](db, "missing")
	require.ErrorIs(t, err, ErrNoSuchBatch)

	v := []field.Field32{field.Zero[field.P32]()}
	require.NoError(t, PutShare(db, "zeta", 0, v))
	require.NoError(t, PutShare(db, "alpha", 0, v))
	names, err := db.Batches()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "zeta"}, names)

	require.NoError(t, db.DeleteBatch("zeta"))
	require.ErrorIs(t, db.DeleteBatch("zeta"), ErrNoSuchBatch)
	names, err = db.Batches()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha"}, names)
}
