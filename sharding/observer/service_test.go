package observer

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/prysmaticlabs/geth-sharding/shared"
	"github.com/prysmaticlabs/geth-sharding/sharding"
	"github.com/prysmaticlabs/geth-sharding/sharding/params"
	"github.com/prysmaticlabs/geth-sharding/sharding/simulator"
	"github.com/prysmaticlabs/geth-sharding/sharding/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verifies that Observer implements the Service interface.
var _ = shared.Service(&Observer{})

var proposerAddress = common.HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")

func newTestObserver(t *testing.T, shardID int64) (*Observer, *smc.SMC, *simulator.Simulator) {
	t.Helper()
	config := &params.Config{
		ShardCount:         100,
		PeriodLength:       5,
		LookaheadLength:    4,
		NotaryDeposit:      big.NewInt(1000),
		NotaryLockupLength: 16,
	}
	chain := simulator.NewSimulator(time.Second)
	manager, err := smc.NewSMC(config, chain, rawdb.NewMemoryDatabase())
	require.NoError(t, err)
	_, err = manager.RegisterNotary(proposerAddress, config.NotaryDeposit)
	require.NoError(t, err)

	shard := sharding.NewShard(shardID, rawdb.NewMemoryDatabase())
	observer, err := NewObserver(manager, shard)
	require.NoError(t, err)
	return observer, manager, chain
}

func buildHeader(t *testing.T, manager *smc.SMC, chain *simulator.Simulator, shardID int64) *sharding.CollationHeader {
	t.Helper()
	period, err := manager.CurrentPeriod()
	require.NoError(t, err)
	anchor, err := chain.BlockHash(period*manager.Config().PeriodLength - 1)
	require.NoError(t, err)
	return sharding.NewCollationHeader(
		shardID,
		period,
		anchor,
		common.Hash{},
		crypto.Keccak256Hash(nil),
		proposerAddress,
		types.EmptyRootHash,
		types.EmptyRootHash,
		1,
	)
}

func TestObserver_PersistsAcceptedHeaders(t *testing.T) {
	observer, manager, chain := newTestObserver(t, 0)
	observer.Start()
	defer func() {
		require.NoError(t, observer.Stop())
	}()

	chain.Advance(20) // period 4
	header := buildHeader(t, manager, chain, 0)
	isNewHead, err := manager.AddHeader(proposerAddress, header)
	require.NoError(t, err)
	assert.True(t, isNewHead)

	// The observer consumes the event asynchronously.
	var stored *sharding.CollationHeader
	require.Eventually(t, func() bool {
		h, err := observer.shard.HeaderByHash(header.TruncatedHash())
		if err != nil {
			return false
		}
		stored = h
		return true
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, header.Hash(), stored.Hash())
}

func TestObserver_IgnoresOtherShards(t *testing.T) {
	observer, manager, chain := newTestObserver(t, 1)
	observer.Start()
	defer func() {
		require.NoError(t, observer.Stop())
	}()

	chain.Advance(20)
	header := buildHeader(t, manager, chain, 0)
	_, err := manager.AddHeader(proposerAddress, header)
	require.NoError(t, err)

	assert.Never(t, func() bool {
		_, err := observer.shard.HeaderByHash(header.TruncatedHash())
		return err == nil
	}, 300*time.Millisecond, 50*time.Millisecond)
}
