package smc

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/prysmaticlabs/geth-sharding/sharding"
)

// scoreMask confines scores to their 48-bit storage field.
const scoreMask = (int64(1) << 48) - 1

// AddHeader attempts to process a collation header submitted by proposer.
// The full validation sequence runs before any write, so a rejection leaves
// the contract state untouched:
//
//  1. shard ID within the configured shard count, and at least one full
//     period mined;
//  2. the header's expected period equals the current period;
//  3. the period start hash anchors to the canonical mainchain block at the
//     boundary preceding the period;
//  4. the shard has not yet accepted a collation for the period;
//  5. a non-genesis parent must be known with a positive score;
//  6. the proposer must be the selected member for (shard, period);
//  7. the declared collation number must equal parent score + 1.
//
// On success the packed (parent prefix, score) record is persisted under the
// truncated header digest, the shard's period head advances, and the shard
// head moves to the new header iff its score strictly exceeds the current
// head's score. Every read, including the head score for fork choice, happens
// before the record write, so a failure at any step leaves no partial state
// and the period stays open for a retry. Returns whether the header became
// the new head.
func (s *SMC) AddHeader(proposer common.Address, header *sharding.CollationHeader) (bool, error) {
	ev, err := s.addHeaderLocked(proposer, header)
	if err != nil {
		return false, err
	}
	// Delivery to subscribers happens outside the lock so a slow consumer
	// cannot stall the state machine.
	s.collationFeed.Send(ev)
	return ev.IsNewHead, nil
}

func (s *SMC) addHeaderLocked(proposer common.Address, header *sharding.CollationHeader) (CollationAddedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shardID := header.ShardID()
	if shardID < 0 || shardID >= s.config.ShardCount {
		return CollationAddedEvent{}, ErrInvalidShardID
	}
	blockNumber, err := s.reader.BlockNumber()
	if err != nil {
		return CollationAddedEvent{}, err
	}
	if blockNumber < s.config.PeriodLength {
		return CollationAddedEvent{}, ErrPeriodNotStarted
	}

	currentPeriod := blockNumber / s.config.PeriodLength
	if header.ExpectedPeriodNumber() != currentPeriod {
		return CollationAddedEvent{}, ErrWrongPeriod
	}

	anchor, err := s.reader.BlockHash(header.ExpectedPeriodNumber()*s.config.PeriodLength - 1)
	if err != nil {
		return CollationAddedEvent{}, err
	}
	if header.PeriodStartPrevHash() != anchor {
		return CollationAddedEvent{}, ErrStaleAnchor
	}

	// Only one collation per shard per period.
	if s.periodHeads[shardID] >= header.ExpectedPeriodNumber() {
		return CollationAddedEvent{}, ErrPeriodAlreadyFinalized
	}

	parentScore, err := s.headerScoreLocked(shardID, header.ParentHash())
	if err != nil {
		return CollationAddedEvent{}, err
	}
	// The all-zero parent is the synthetic genesis with implicit score 0.
	if header.ParentHash() != (common.Hash{}) && parentScore <= 0 {
		return CollationAddedEvent{}, ErrUnknownParent
	}

	selected, err := s.eligibleProposerLocked(shardID, currentPeriod)
	if err != nil {
		return CollationAddedEvent{}, err
	}
	if proposer != selected {
		return CollationAddedEvent{}, ErrNotAuthorizedProposer
	}

	score := parentScore + 1
	if header.CollationNumber() != score {
		return CollationAddedEvent{}, ErrScoreMismatch
	}

	// The fork-choice read must precede the record write: if it fails the
	// submission is rejected wholesale instead of half applied.
	headScore, err := s.headerScoreLocked(shardID, s.shardHeads[shardID])
	if err != nil {
		return CollationAddedEvent{}, errors.Wrap(err, "could not read shard head score")
	}

	// All checks and reads passed; persist the packed record and advance the
	// shard.
	digest := header.TruncatedHash()
	record := packHeaderRecord(header.ParentHash(), score)
	if err := s.headerDB.Put(headerKey(shardID, digest), record[:]); err != nil {
		return CollationAddedEvent{}, errors.Wrap(err, "could not persist header record")
	}
	s.periodHeads[shardID] = header.ExpectedPeriodNumber()

	isNewHead := false
	if score > headScore {
		s.shardHeads[shardID] = digest
		isNewHead = true
		newShardHeadsTotal.Inc()
	}
	collationHeadersTotal.Inc()

	log.WithFields(logrus.Fields{
		"shardID":   shardID,
		"period":    header.ExpectedPeriodNumber(),
		"digest":    digest.Hex(),
		"score":     score,
		"isNewHead": isNewHead,
	}).Info("Collation header added")
	headerCopy := *header
	return CollationAddedEvent{Header: &headerCopy, IsNewHead: isNewHead, Score: score}, nil
}

// CollationHeaderScore returns the stored score of a collation header, or 0
// if no record exists under the hash.
func (s *SMC) CollationHeaderScore(shardID int64, hash common.Hash) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headerScoreLocked(shardID, hash)
}

// ShardHead returns the digest of the highest-scoring collation header seen
// for the shard, the zero hash if none was accepted yet.
func (s *SMC) ShardHead(shardID int64) common.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shardHeads[shardID]
}

// PeriodHead returns the latest period for which the shard accepted a header.
func (s *SMC) PeriodHead(shardID int64) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.periodHeads[shardID]
}

// CollationGasLimit returns the gas limit that collations can currently have.
func (s *SMC) CollationGasLimit() uint64 {
	return sharding.CollationGasLimit
}

func (s *SMC) headerScoreLocked(shardID int64, hash common.Hash) (int64, error) {
	has, err := s.headerDB.Has(headerKey(shardID, hash))
	if err != nil {
		return 0, errors.Wrap(err, "could not read header record")
	}
	if !has {
		return 0, nil
	}
	data, err := s.headerDB.Get(headerKey(shardID, hash))
	if err != nil {
		return 0, errors.Wrap(err, "could not read header record")
	}
	var record [32]byte
	copy(record[:], data)
	_, score := unpackHeaderRecord(record)
	return score, nil
}

// packHeaderRecord packs the low 208 bits of the parent digest and a 48-bit
// score into one 256-bit storage word:
//
//	word = (parent mod 2^208) << 48 | (score mod 2^48)
//
// In big-endian bytes: word[0:26] holds the parent prefix, word[26:32] the
// score. The layout is part of the storage format and must not change.
func packHeaderRecord(parentHash common.Hash, score int64) [32]byte {
	var record [32]byte
	copy(record[:26], parentHash[6:])
	var s [8]byte
	binary.BigEndian.PutUint64(s[:], uint64(score&scoreMask))
	copy(record[26:], s[2:])
	return record
}

// unpackHeaderRecord splits a storage word back into the parent digest prefix
// (as a 32-byte word with the high 48 bits zero) and the score.
func unpackHeaderRecord(record [32]byte) (common.Hash, int64) {
	var parentPrefix common.Hash
	copy(parentPrefix[6:], record[:26])
	var s [8]byte
	copy(s[2:], record[26:])
	return parentPrefix, int64(binary.BigEndian.Uint64(s[:]))
}
