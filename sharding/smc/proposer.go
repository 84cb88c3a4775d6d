package smc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// GetEligibleProposer uses a mainchain block hash as a seed to pseudorandomly
// select a proposer from the notary pool for (shardID, period). The selection
// is a pure function of its inputs and the pool contents at call time: it can
// be recomputed by any verifier and never mutates state.
//
// The seed block is the one mined LookaheadLength periods before the target
// period, so selection for a period is only computable once that block exists.
// The modulus spans the full slot table width, including slots vacated by
// deregistered-but-unreleased notaries; selection landing on such a gap yields
// ErrNoEligibleProposer. This is a deliberate cheap-seed trade-off, not a
// stake-proportional guarantee.
func (s *SMC) GetEligibleProposer(shardID int64, period int64) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eligibleProposerLocked(shardID, period)
}

func (s *SMC) eligibleProposerLocked(shardID int64, period int64) (common.Address, error) {
	if period < s.config.LookaheadLength {
		return common.Address{}, ErrPeriodTooSoon
	}
	seedBlockNumber := (period - s.config.LookaheadLength) * s.config.PeriodLength
	blockNumber, err := s.reader.BlockNumber()
	if err != nil {
		return common.Address{}, err
	}
	if seedBlockNumber >= blockNumber {
		return common.Address{}, ErrPeriodTooSoon
	}
	if s.notaryPoolLen == 0 {
		return common.Address{}, ErrNoActiveMembers
	}

	seed, err := s.reader.BlockHash(seedBlockNumber)
	if err != nil {
		return common.Address{}, err
	}

	// index = keccak256(seed || shardID) mod the full table width. Width is
	// never zero here: an empty table implies an empty pool.
	b := make([]byte, 0, 2*common.HashLength)
	b = append(b, seed.Bytes()...)
	b = append(b, common.BigToHash(big.NewInt(shardID)).Bytes()...)
	width := big.NewInt(int64(len(s.notaryPool)))
	index := new(big.Int).Mod(new(big.Int).SetBytes(crypto.Keccak256(b)), width)

	proposer := s.notaryPool[index.Int64()]
	if proposer == (common.Address{}) {
		return common.Address{}, ErrNoEligibleProposer
	}
	return proposer, nil
}
