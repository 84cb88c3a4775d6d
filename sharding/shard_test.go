package sharding

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShard(t *testing.T, shardID int64) *Shard {
	t.Helper()
	return NewShard(shardID, rawdb.NewMemoryDatabase())
}

func testHeader(shardID int64, txRoot common.Hash) *CollationHeader {
	return NewCollationHeader(
		shardID,
		4,
		common.HexToHash("0xaa"),
		common.Hash{},
		txRoot,
		common.HexToAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"),
		common.Hash{},
		common.Hash{},
		1,
	)
}

func TestShard_ValidateShardID(t *testing.T) {
	shard := newTestShard(t, 3)
	header := testHeader(1, common.Hash{})
	assert.Error(t, shard.ValidateShardID(header))
	assert.NoError(t, shard.ValidateShardID(testHeader(3, common.Hash{})))
}

func TestShard_HeaderRoundTrip(t *testing.T) {
	shard := newTestShard(t, 1)
	header := testHeader(1, common.HexToHash("0xdd"))

	require.NoError(t, shard.SaveHeader(header))
	got, err := shard.HeaderByHash(header.TruncatedHash())
	require.NoError(t, err)
	assert.Equal(t, header.Hash(), got.Hash())
	assert.Equal(t, int64(1), got.CollationNumber())

	_, err = shard.HeaderByHash(common.HexToHash("0xbeef"))
	assert.Error(t, err)
}

func TestShard_BodyRoundTrip(t *testing.T) {
	shard := newTestShard(t, 1)
	body := []byte{1, 2, 3, 4, 5}

	chunkRoot, err := shard.SaveBody(body)
	require.NoError(t, err)
	assert.Equal(t, crypto.Keccak256Hash(body), chunkRoot)

	got, err := shard.BodyByChunkRoot(chunkRoot)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestShard_SaveCollation(t *testing.T) {
	shard := newTestShard(t, 1)
	tx := types.NewTransaction(0, common.HexToAddress("0x0"), big.NewInt(0), 21000, big.NewInt(1), nil)
	collation := NewCollation(testHeader(1, common.Hash{}), nil, []*types.Transaction{tx})

	// The header commits to the serialized body through its transaction root.
	body, err := collation.Serialize()
	require.NoError(t, err)
	header := testHeader(1, crypto.Keccak256Hash(body))
	collation.SetHeader(header)

	require.NoError(t, shard.SaveCollation(collation))

	got, err := shard.CollationByHeaderHash(header.TruncatedHash())
	require.NoError(t, err)
	require.Len(t, got.Transactions(), 1)
	assert.Equal(t, tx.Hash(), got.Transactions()[0].Hash())

	wrongShard := NewCollation(testHeader(2, common.Hash{}), nil, nil)
	assert.Error(t, shard.SaveCollation(wrongShard))
}
