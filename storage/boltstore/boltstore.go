// Package boltstore is a concrete storage.Backend implementation on top of
// boltdb, patterned directly on channeldb's open/bucket-init conventions:
// lazily create the data directory, open a single bolt file, and ensure the
// buckets the package depends on exist before returning. The core leaves
// the concrete database engine and the log format out of scope (spec §1);
// this package exists to prove the storage.Backend contract is
// satisfiable end to end, exactly the role channeldb plays under lnwallet.
package boltstore

import (
	"encoding/binary"
	"os"
	"path/filepath"

	"github.com/boltdb/bolt"

	"github.com/maaku/libwebcash/storage"
)

const dbFilePermission = 0600

var termsBucket = []byte("terms")

// NewBackend returns a storage.Backend whose database callbacks are backed
// by a single bolt file and whose log callbacks open/close a plain
// append-only file handle. The append-only log's record format is the
// host's concern (spec §1 "out of scope: the log-file format"); only its
// open/close lifecycle is exercised here.
func NewBackend() storage.Backend {
	return storage.Backend{
		LogOpen:  logOpen,
		LogClose: logClose,
		DBOpen:   dbOpen,
		DBClose:  dbClose,

		AnyTerms:      anyTerms,
		AllTerms:      allTerms,
		TermsAccepted: termsAccepted,
		AcceptTerms:   acceptTerms,
	}
}

func logOpen(url string) (interface{}, error) {
	if err := os.MkdirAll(filepath.Dir(url), 0700); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(url, os.O_APPEND|os.O_CREATE|os.O_WRONLY, dbFilePermission)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func logClose(h interface{}) {
	if f, ok := h.(*os.File); ok {
		f.Close()
	}
}

// dbOpen opens (creating if necessary) a bolt database at url and ensures
// the terms bucket exists, mirroring createChannelDB's "create top-level
// buckets on first open" pattern.
func dbOpen(url string) (interface{}, error) {
	if err := os.MkdirAll(filepath.Dir(url), 0700); err != nil {
		return nil, err
	}

	db, err := bolt.Open(url, dbFilePermission, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(termsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func dbClose(h interface{}) {
	if db, ok := h.(*bolt.DB); ok {
		db.Close()
	}
}

func anyTerms(dbh interface{}) (bool, error) {
	db := dbh.(*bolt.DB)
	var any bool
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(termsBucket)
		if b == nil {
			return nil
		}
		k, _ := b.Cursor().First()
		any = k != nil
		return nil
	})
	return any, err
}

func allTerms(dbh interface{}) ([]storage.StoredTerm, error) {
	db := dbh.(*bolt.DB)
	var rows []storage.StoredTerm
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(termsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			rows = append(rows, storage.StoredTerm{
				Text:             string(k),
				SecondsPastEpoch: binary.BigEndian.Uint64(v),
			})
			return nil
		})
	})
	return rows, err
}

func termsAccepted(dbh interface{}, text string) (uint64, error) {
	db := dbh.(*bolt.DB)
	var raw uint64
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(termsBucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(text))
		if v == nil {
			return nil
		}
		raw = binary.BigEndian.Uint64(v)
		return nil
	})
	return raw, err
}

func acceptTerms(dbh interface{}, text string, now uint64) error {
	db := dbh.(*bolt.DB)
	return db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(termsBucket)
		if err != nil {
			return err
		}
		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, now)
		return b.Put([]byte(text), val)
	})
}
