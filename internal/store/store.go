// Package store persists secret-shared vectors in a bbolt database.
//
// Each batch is a bucket holding the element width and one record per share. A
// record is a SHA3-256 digest of its position and payload followed by the
// payload, so silent corruption is detected on load.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/sha3"

	"prio-field/codec"
	"prio-field/field"
)

const (
	batchesBucket = "batches"
	sharesBucket  = "shares"
	widthKey      = "width"
	digestDomain  = "prio-field/store/v1"
	digestLen     = 32
)

var (
	ErrNoSuchBatch   = errors.New("store: no such batch")
	ErrCorrupt       = errors.New("store: record digest mismatch")
	ErrWidthMismatch = errors.New("store: batch holds elements of a different width")
	ErrShareExists   = errors.New("store: share already exists")
)

// DB is a share database.
type DB struct {
	db *bolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(batchesBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func indexKey(i int) []byte {
	var k [8]byte
	binary.BigEndian.PutUint64(k[:], uint64(i))
	return k[:]
}

func recordDigest(batch string, key, payload []byte) [digestLen]byte {
	h := sha3.New256()
	h.Write([]byte(digestDomain))
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(batch)))
	h.Write(n[:])
	h.Write([]byte(batch))
	h.Write(key)
	h.Write(payload)
	var out [digestLen]byte
	h.Sum(out[:0])
	return out
}

// PutShare stores share number index of batch. The first share fixes the batch's
// element width; a share index can only be written once.
func PutShare[D field.Descriptor](d *DB, batch string, index int, share []field.Elem[D]) error {
	if index < 0 {
		return fmt.Errorf("store: negative share index %d", index)
	}
	payload := codec.Serialize(share)
	width := indexKey(field.Bytes[D]())
	return d.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.Bucket([]byte(batchesBucket)).CreateBucketIfNotExists([]byte(batch))
		if err != nil {
			return err
		}
		if w := bkt.Get([]byte(widthKey)); w == nil {
			if err := bkt.Put([]byte(widthKey), width); err != nil {
				return err
			}
		} else if !bytes.Equal(w, width) {
			return ErrWidthMismatch
		}
		sb, err := bkt.CreateBucketIfNotExists([]byte(sharesBucket))
		if err != nil {
			return err
		}
		key := indexKey(index)
		if sb.Get(key) != nil {
			return fmt.Errorf("%w: %s/%d", ErrShareExists, batch, index)
		}
		sum := recordDigest(batch, key, payload)
		return sb.Put(key, append(sum[:], payload...))
	})
}

// LoadShares returns the shares of batch ordered by index.
func LoadShares[D field.Descriptor](d *DB, batch string) ([][]field.Elem[D], error) {
	var out [][]field.Elem[D]
	err := d.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(batchesBucket)).Bucket([]byte(batch))
		if bkt == nil {
			return ErrNoSuchBatch
		}
		if !bytes.Equal(bkt.Get([]byte(widthKey)), indexKey(field.Bytes[D]())) {
			return ErrWidthMismatch
		}
		sb := bkt.Bucket([]byte(sharesBucket))
		if sb == nil {
			return nil
		}
		return sb.ForEach(func(k, v []byte) error {
			if len(v) < digestLen {
				return fmt.Errorf("%w: %s/%x", ErrCorrupt, batch, k)
			}
			want := recordDigest(batch, k, v[digestLen:])
			if !bytes.Equal(v[:digestLen], want[:]) {
				return fmt.Errorf("%w: %s/%x", ErrCorrupt, batch, k)
			}
			// v is only valid for the life of the transaction; Deserialize copies.
			s, err := codec.Deserialize[D](v[digestLen:])
			if err != nil {
				return fmt.Errorf("store: %s/%x: %w", batch, k, err)
			}
			out = append(out, s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Width returns the element width in bytes recorded for batch.
func (d *DB) Width(batch string) (int, error) {
	var w int
	err := d.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(batchesBucket)).Bucket([]byte(batch))
		if bkt == nil {
			return ErrNoSuchBatch
		}
		if raw := bkt.Get([]byte(widthKey)); len(raw) == 8 {
			w = int(binary.BigEndian.Uint64(raw))
		}
		return nil
	})
	return w, err
}

// Batches lists the stored batch names in sorted order.
func (d *DB) Batches() ([]string, error) {
	var names []string
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(batchesBucket)).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

// DeleteBatch removes batch and all its shares.
func (d *DB) DeleteBatch(batch string) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(batchesBucket)).DeleteBucket([]byte(batch))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return ErrNoSuchBatch
		}
		return err
	})
}
