package txpool

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/prysmaticlabs/geth-sharding/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Verifies that TXPool implements the Service interface.
var _ = shared.Service(&TXPool{})

func makeTx(nonce uint64) *types.Transaction {
	return types.NewTransaction(nonce, common.HexToAddress("0x0"), big.NewInt(0), 21000, big.NewInt(1), nil)
}

func TestTXPool_InsertAndPending(t *testing.T) {
	pool, err := NewTXPool()
	require.NoError(t, err)

	tx1, tx2, tx3 := makeTx(1), makeTx(2), makeTx(3)
	require.NoError(t, pool.Insert(tx1))
	require.NoError(t, pool.Insert(tx2))
	require.NoError(t, pool.Insert(tx3))
	assert.Error(t, pool.Insert(tx2), "duplicate insert should fail")
	assert.Equal(t, 3, pool.Len())

	pending := pool.Pending(2)
	require.Len(t, pending, 2)
	assert.Equal(t, tx1.Hash(), pending[0].Hash())
	assert.Equal(t, tx2.Hash(), pending[1].Hash())

	// Pending does not drain the pool.
	assert.Equal(t, 3, pool.Len())
	assert.Len(t, pool.Pending(0), 3)
}

func TestTXPool_Remove(t *testing.T) {
	pool, err := NewTXPool()
	require.NoError(t, err)

	tx1, tx2, tx3 := makeTx(1), makeTx(2), makeTx(3)
	require.NoError(t, pool.Insert(tx1))
	require.NoError(t, pool.Insert(tx2))
	require.NoError(t, pool.Insert(tx3))

	pool.Remove([]*types.Transaction{tx1, tx3})
	pending := pool.Pending(0)
	require.Len(t, pending, 1)
	assert.Equal(t, tx2.Hash(), pending[0].Hash())

	// Removed transactions can be queued again.
	require.NoError(t, pool.Insert(tx1))
	assert.Equal(t, 2, pool.Len())
}
