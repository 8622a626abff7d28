package boltstore

import (
	"brewratio/internal/cache"
	"brewratio/internal/metrics"

	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

// LocalStorage is one visitor's field values. Errors are logged and
// swallowed: a broken database behaves like an empty cache.
type LocalStorage struct {
	db      *bolt.DB
	visitor []byte
}

// Ensure the store implements the cache interfaces at compile time.
var (
	_ cache.Store    = (*LocalStorage)(nil)
	_ cache.Provider = (*Store)(nil)
)

// LocalStorage returns the store scoped to visitor.
func (s *Store) LocalStorage(visitor string) cache.Store {
	return &LocalStorage{db: s.db, visitor: []byte(visitor)}
}

// VisitorCount returns the number of visitors with stored values, or -1 if
// the database cannot be read.
func (s *Store) VisitorCount() int {
	count := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(BucketLocalStorage)
		if root == nil {
			return nil
		}
		return root.ForEachBucket(func(k []byte) error {
			count++
			return nil
		})
	})
	if err != nil {
		log.Warn().Err(err).Msg("boltstore: failed to count visitors")
		return -1
	}
	return count
}

// DeleteVisitor removes every value stored for visitor.
func (s *Store) DeleteVisitor(visitor string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(BucketLocalStorage)
		if root == nil || root.Bucket([]byte(visitor)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(visitor))
	})
}

func (l *LocalStorage) Get(key string) (string, bool) {
	var (
		value string
		found bool
	)
	err := l.db.View(func(tx *bolt.Tx) error {
		root := tx.Bucket(BucketLocalStorage)
		if root == nil {
			return nil
		}
		bucket := root.Bucket(l.visitor)
		if bucket == nil {
			return nil
		}
		if data := bucket.Get([]byte(key)); data != nil {
			// Copy: data is only valid for the life of the transaction
			value = string(data)
			found = true
		}
		return nil
	})
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("bolt", "get").Inc()
		log.Warn().Err(err).Str("key", key).Msg("boltstore: failed to read cached value")
		return "", false
	}
	return value, found
}

func (l *LocalStorage) Set(key, value string) {
	err := l.db.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(BucketLocalStorage)
		if err != nil {
			return err
		}
		bucket, err := root.CreateBucketIfNotExists(l.visitor)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), []byte(value))
	})
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues("bolt", "set").Inc()
		log.Warn().Err(err).Str("key", key).Msg("boltstore: failed to write cached value")
	}
}
