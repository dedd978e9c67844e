package mapstore

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/Garsondee/tilearena/internal/game"
)

var (
	bucketTiles    = []byte("tiles")
	bucketOverlays = []byte("overlays")
)

// Bolt keeps every layer in a single bbolt file. Values are msgpack-encoded
// map documents keyed by "X-Y-kind".
type Bolt struct {
	filename string
	database *bolt.DB
}

// OpenBolt opens or creates the database file and its buckets.
func OpenBolt(filename string) (*Bolt, error) {
	db, err := bolt.Open(filename, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", filename, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTiles, bucketOverlays} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init bolt buckets: %w", err)
	}
	return &Bolt{filename: filename, database: db}, nil
}

// Records returns tile records first, then overlays, each in key order.
func (s *Bolt) Records() ([]game.MapRecord, error) {
	var recs []game.MapRecord
	err := s.database.View(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketTiles, bucketOverlays} {
			err := tx.Bucket(name).ForEach(func(k, v []byte) error {
				key := string(k)
				var doc mapDocument
				if err := msgpack.Unmarshal(v, &doc); err != nil {
					recs = append(recs, game.MapRecord{Key: key, Err: decodeFailed(key, err)})
					return nil
				}
				recs = append(recs, doc.record(key))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return recs, err
}

// SaveTiles stores g under key in the tiles bucket.
func (s *Bolt) SaveTiles(key string, g *game.TileGrid) error {
	return s.put(bucketTiles, key, mapDocument{Tiles: tileCodes(g)})
}

// SaveOverlay stores o under key in the overlays bucket.
func (s *Bolt) SaveOverlay(key string, o *game.OverlayGrid) error {
	return s.put(bucketOverlays, key, mapDocument{Markers: markerCodes(o)})
}

func (s *Bolt) put(bucket []byte, key string, doc mapDocument) error {
	if _, err := kindOf(key); err != nil {
		return err
	}
	data, err := msgpack.Marshal(&doc)
	if err != nil {
		return err
	}
	return s.database.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// Delete removes key from whichever bucket holds it.
func (s *Bolt) Delete(key string) error {
	kind, err := kindOf(key)
	if err != nil {
		return err
	}
	bucket := bucketTiles
	if kind == game.RecordOverlay {
		bucket = bucketOverlays
	}
	return s.database.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get([]byte(key)) == nil {
			return ErrNotFound
		}
		return b.Delete([]byte(key))
	})
}

// Close releases the database file lock.
func (s *Bolt) Close() error {
	return s.database.Close()
}
