// Package smc implements the Sharding Manager Contract as a native Go state
// machine. It owns the notary registry and slot pool, the per-shard collation
// header chains with their fork-choice heads, and the cross-shard receipt log.
//
// All mutating operations are serialized behind a single writer lock and either
// fully commit or reject with no partial writes. Read-only queries are served
// concurrently against a consistent snapshot under the read lock.
package smc

import (
	"encoding/binary"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/event"
	"github.com/sirupsen/logrus"

	"github.com/prysmaticlabs/geth-sharding/sharding/mainchain"
	"github.com/prysmaticlabs/geth-sharding/sharding/params"
)

var log = logrus.WithField("prefix", "smc")

// headerRecordPrefix namespaces packed collation header records in the shard DB.
var headerRecordPrefix = []byte("smc-header-")

// SMC is the Sharding Manager Contract state. A single instance owns the
// entire committee and header-chain state; no component holds references into
// it across calls.
type SMC struct {
	config *params.Config
	reader mainchain.Reader

	mu sync.RWMutex

	// Notary pool: dense slot table of active notaries plus a LIFO stack of
	// vacated slot indices. len(notaryPool) is the allocation high-water mark,
	// notaryPoolLen counts occupied slots only.
	notaryPool    []common.Address
	notaryPoolLen int64
	emptySlots    []int64
	registry      map[common.Address]*NotaryRecord

	// Collation header chains, one per shard. Packed records are persisted in
	// the shard DB; period heads and fork-choice heads are kept in memory.
	headerDB    ethdb.KeyValueStore
	periodHeads map[int64]int64
	shardHeads  map[int64]common.Hash

	// Cross-shard receipt log.
	receipts    map[int64]*Receipt
	numReceipts int64

	scope          event.SubscriptionScope
	registerFeed   event.Feed
	deregisterFeed event.Feed
	releaseFeed    event.Feed
	collationFeed  event.Feed
	txToShardFeed  event.Feed
}

// NewSMC instantiates the contract state with its immutable configuration, a
// mainchain reader for block numbers and hashes, and a backing store for the
// packed header records.
func NewSMC(config *params.Config, reader mainchain.Reader, db ethdb.KeyValueStore) (*SMC, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SMC{
		config:      config,
		reader:      reader,
		registry:    make(map[common.Address]*NotaryRecord),
		headerDB:    db,
		periodHeads: make(map[int64]int64),
		shardHeads:  make(map[int64]common.Hash),
		receipts:    make(map[int64]*Receipt),
	}, nil
}

// Config returns the immutable contract parameters.
func (s *SMC) Config() *params.Config {
	return s.config
}

// CurrentPeriod computes the period of the mainchain's latest block.
func (s *SMC) CurrentPeriod() (int64, error) {
	blockNumber, err := s.reader.BlockNumber()
	if err != nil {
		return 0, err
	}
	return blockNumber / s.config.PeriodLength, nil
}

// Close terminates all event subscriptions handed out by the SMC.
func (s *SMC) Close() {
	s.scope.Close()
}

// headerKey builds the shard DB key of a header record: prefix, shard ID and
// the truncated header digest.
func headerKey(shardID int64, hash common.Hash) []byte {
	key := make([]byte, 0, len(headerRecordPrefix)+8+common.HashLength)
	key = append(key, headerRecordPrefix...)
	var shard [8]byte
	binary.BigEndian.PutUint64(shard[:], uint64(shardID))
	key = append(key, shard[:]...)
	key = append(key, hash.Bytes()...)
	return key
}
