package cache

import (
	"encoding/binary"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store is a persistent KV backed by a bbolt file.
// It is safe for concurrent use by multiple goroutines.
type Store struct {
	db         *bolt.DB
	bucket     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

type Options struct {
	// Bucket is the name of the Bolt bucket to use.
	Bucket string
	// DefaultTTL is used when Put is called with ttl <= 0.
	DefaultTTL time.Duration
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

var (
	ErrNotFound = errors.New("cache: not found")
	ErrExpired  = errors.New("cache: expired")
)

// Open initializes or opens a Store at the given path.
func Open(path string, opts Options) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	bucket := []byte("motorsport")
	if opts.Bucket != "" {
		bucket = []byte(opts.Bucket)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{db: db, bucket: bucket, defaultTTL: opts.DefaultTTL, now: now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Put stores value with an absolute expiration computed as now+ttl.
// If ttl <= 0, DefaultTTL is used; if DefaultTTL <= 0, the item never expires.
func (s *Store) Put(key string, value []byte, ttl time.Duration) error {
	expiresAt := expiry(s.now(), ttl, s.defaultTTL)
	// Layout: 8 bytes big endian expiresAt (unix nanos) || raw value
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(expiresAt))
	copy(buf[8:], value)

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), buf)
	})
}

// Get returns cached value if present and not expired. Stale bytes are left
// in place; the next Put for the key overwrites them.
func (s *Store) Get(key string) ([]byte, error) {
	var out []byte
	var expired, exists bool
	if err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if len(v) < 8 {
			return nil
		}
		exists = true
		expiresAt := int64(binary.BigEndian.Uint64(v[:8]))
		if isExpired(s.now(), expiresAt) {
			expired = true
			return nil
		}
		out = append([]byte(nil), v[8:]...)
		return nil
	}); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	if expired {
		return nil, ErrExpired
	}
	return out, nil
}

// Delete removes a key.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// expiry returns the absolute expiration in unix nanoseconds, 0 for never.
func expiry(now time.Time, ttl, fallback time.Duration) int64 {
	if ttl <= 0 {
		ttl = fallback
	}
	if ttl <= 0 {
		return 0
	}
	return now.Add(ttl).UnixNano()
}

func isExpired(now time.Time, expiresAt int64) bool {
	return expiresAt > 0 && now.UnixNano() >= expiresAt
}
