// Package boltstore persists dmodel records in a bbolt database, keyed
// by a caller-supplied string such as the record's oid, using the
// package's bit-exact binary codec as the on-disk value format.
package boltstore

import (
	"fmt"

	"github.com/deltapack/dmodel"
	"go.etcd.io/bbolt"
)

// Store is a single bbolt bucket holding one record type's rows, each
// under the string key the caller passed to Put.
type Store struct {
	db     *bbolt.DB
	bucket []byte
}

// Open opens (creating if absent) a bbolt database at path and ensures
// bucket exists.
func Open(path string, bucket string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("boltstore: open %s: %w", path, err)
	}
	s := &Store{db: db, bucket: []byte(bucket)}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("boltstore: create bucket %s: %w", bucket, err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put encodes r in binary form and stores it under key.
func (s *Store) Put(key string, r dmodel.Record) error {
	v, err := dmodel.Pack(r, dmodel.FormatBin)
	if err != nil {
		return fmt.Errorf("boltstore: pack %s: %w", key, err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), v.([]byte))
	})
}

// Get decodes the row stored under key into r. found is false if no row
// exists for that key.
func (s *Store) Get(key string, r dmodel.Record) (found bool, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		// bbolt's Get return is only valid for the transaction's
		// lifetime; copy before decoding outside it.
		cp := append([]byte(nil), v...)
		_, decErr := dmodel.Unpack(r, dmodel.FormatBin, cp, dmodel.WithMode(dmodel.ModeOverride))
		return decErr
	})
	if err != nil {
		return false, fmt.Errorf("boltstore: get %s: %w", key, err)
	}
	return found, nil
}

// Delete removes the row stored under key, if any.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(key))
	})
}

// ForEach calls fn for each stored key in bucket iteration order,
// decoding each row into a freshly built record via newRecord. Stops
// and returns fn's error, if any.
func (s *Store) ForEach(newRecord func() dmodel.Record, fn func(key string, r dmodel.Record) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			r := newRecord()
			if _, err := dmodel.Unpack(r, dmodel.FormatBin, append([]byte(nil), v...)); err != nil {
				return fmt.Errorf("boltstore: decode %s: %w", k, err)
			}
			if err := fn(string(k), r); err != nil {
				return err
			}
		}
		return nil
	})
}
