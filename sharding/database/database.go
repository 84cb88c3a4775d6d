// Package database provides the persistent key-value store for the sharding
// system. It wraps an ethdb database, backed by leveldb on disk or by a pure
// in-memory table for tests and development.
package database

import (
	"path/filepath"

	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "database")

// ShardDB defines a service for the sharding system's persistent storage.
type ShardDB struct {
	inmemory bool
	dataDir  string
	name     string
	cache    int
	handles  int
	db       ethdb.Database
}

// NewShardDB initializes a shardDB and opens the underlying store so that
// handles can be handed out before the service lifecycle begins.
func NewShardDB(dataDir string, name string, inmemory bool) (*ShardDB, error) {
	// Uses default cache and handles values.
	s := &ShardDB{
		inmemory: inmemory,
		dataDir:  dataDir,
		name:     name,
		cache:    16,
		handles:  16,
	}
	if inmemory {
		s.db = rawdb.NewMemoryDatabase()
		return s, nil
	}
	db, err := rawdb.NewLevelDBDatabase(filepath.Join(s.dataDir, s.name), s.cache, s.handles, "" /*namespace*/, false /*readonly*/)
	if err != nil {
		return nil, errors.Wrap(err, "could not open shard DB")
	}
	s.db = db
	return s, nil
}

// Start the shard DB service.
func (s *ShardDB) Start() {
	log.Info("Starting shardDB service")
}

// Stop the shard DB service gracefully.
func (s *ShardDB) Stop() error {
	log.Info("Stopping shardDB service")
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Status returns an error if the shard DB is unavailable.
func (s *ShardDB) Status() error {
	if s.db == nil {
		return errors.New("shard DB closed")
	}
	return nil
}

// DB returns the attached ethdb instance.
func (s *ShardDB) DB() ethdb.Database {
	return s.db
}
