// Package params defines important configuration options to be used when instantiating
// objects within the sharding package. For example, it defines a Config that holds the
// constitutive constants of the Sharding Manager Contract: shard count, period length,
// proposer lookahead, notary deposit size and deposit lockup length. All values are
// fixed when the SMC is instantiated and immutable afterwards.
package params

import (
	"math/big"

	"github.com/pkg/errors"
)

// DefaultConfig contains default configs for node to use in the sharded universe.
var DefaultConfig = &Config{
	ShardCount:         100,
	PeriodLength:       5,
	LookaheadLength:    4,
	NotaryDeposit:      new(big.Int).Exp(big.NewInt(10), big.NewInt(21), nil), // 1000 ETH
	NotaryLockupLength: 16128,
}

// DefaultChainConfig contains default chain configs of an individual shard.
var DefaultChainConfig = &ChainConfig{}

// Config contains configs for node to participate in the sharded universe.
type Config struct {
	ShardCount         int64    // ShardCount is the total number of shards within the network.
	PeriodLength       int64    // PeriodLength is num of mainchain blocks in one period.
	LookaheadLength    int64    // LookaheadLength is num of periods between the seed block and the period it selects for.
	NotaryDeposit      *big.Int // NotaryDeposit is a required deposit size in wei.
	NotaryLockupLength int64    // NotaryLockupLength to lockup notary deposit from time of deregistration, in periods.
}

// ChainConfig contains chain config of an individual shard. Still to be designed.
type ChainConfig struct{}

// Validate config params for sanity. The SMC cannot operate with a zero shard
// count or a zero period length.
func (c *Config) Validate() error {
	if c.ShardCount <= 0 {
		return errors.New("shard count must be positive")
	}
	if c.PeriodLength <= 0 {
		return errors.New("period length must be positive")
	}
	if c.LookaheadLength <= 0 {
		return errors.New("lookahead length must be positive")
	}
	if c.NotaryDeposit == nil || c.NotaryDeposit.Sign() <= 0 {
		return errors.New("notary deposit must be positive")
	}
	if c.NotaryLockupLength < 0 {
		return errors.New("notary lockup length cannot be negative")
	}
	return nil
}
