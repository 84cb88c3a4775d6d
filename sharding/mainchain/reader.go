// Package mainchain defines the read-only view of the main chain required by
// the Sharding Manager Contract: the current block number and the hash of any
// mined block. Proposer selection and period anchoring are both derived from
// these two values.
package mainchain

import (
	"github.com/ethereum/go-ethereum/common"
)

// Reader provides access to the main chain's block number and block hashes.
// BlockHash must only be called for mined blocks; implementations return an
// error for future block numbers.
type Reader interface {
	BlockNumber() (int64, error)
	BlockHash(number int64) (common.Hash, error)
}
