package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Adda-Baaj/metrics-harvester/internal/domain"
	bolt "go.etcd.io/bbolt"
)

const manifestBucket = "downloads"

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(manifestBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	return &boltStore{db: db}, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record stores res as the latest download for its endpoint.
func (b *boltStore) Record(res domain.Result) error {
	if b == nil || b.db == nil {
		return nil
	}
	if res.Endpoint == "" {
		return fmt.Errorf("result has no endpoint name")
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(manifestBucket))
		if bucket == nil {
			return fmt.Errorf("manifest bucket missing")
		}
		return bucket.Put([]byte(res.Endpoint), raw)
	})
}

// Last returns the latest recorded download for endpoint.
func (b *boltStore) Last(endpoint string) (domain.Result, bool, error) {
	if b == nil || b.db == nil {
		return domain.Result{}, false, nil
	}

	var (
		res   domain.Result
		found bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(manifestBucket))
		if bucket == nil {
			return fmt.Errorf("manifest bucket missing")
		}
		value := bucket.Get([]byte(endpoint))
		if value == nil {
			return nil
		}
		if err := json.Unmarshal(value, &res); err != nil {
			return fmt.Errorf("decode result for %s: %w", endpoint, err)
		}
		found = true
		return nil
	})
	return res, found, err
}
