package sharding

import (
	"fmt"
	"io"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// CollationGasLimit is the gas limit collations can currently have.
const CollationGasLimit = uint64(10000000)

// Collation base struct. Includes the collation header along with the
// transactions its body serializes.
type Collation struct {
	header       *CollationHeader
	body         []byte
	transactions []*types.Transaction
}

// CollationHeader is the descriptor of one shard-chain block. Its canonical
// digest, truncated to 208 bits, keys the header record stored in the SMC.
type CollationHeader struct {
	shardID              int64          // the shard ID of the shard.
	expectedPeriodNumber int64          // the period in which the collation is expected to be included.
	periodStartPrevHash  common.Hash    // the mainchain block hash at the boundary preceding the period.
	parentHash           common.Hash    // the truncated digest of the parent collation header.
	transactionRoot      common.Hash    // the root of the transaction trie.
	coinbase             common.Address // the coinbase of the collation proposer.
	stateRoot            common.Hash    // the state root of the shard after this collation.
	receiptRoot          common.Hash    // the root of the receipt trie.
	collationNumber      int64          // the declared chain length of the collation, its score.
}

// NewCollationHeader initializes a collation header struct.
func NewCollationHeader(
	shardID int64,
	expectedPeriodNumber int64,
	periodStartPrevHash common.Hash,
	parentHash common.Hash,
	transactionRoot common.Hash,
	coinbase common.Address,
	stateRoot common.Hash,
	receiptRoot common.Hash,
	collationNumber int64,
) *CollationHeader {
	return &CollationHeader{
		shardID:              shardID,
		expectedPeriodNumber: expectedPeriodNumber,
		periodStartPrevHash:  periodStartPrevHash,
		parentHash:           parentHash,
		transactionRoot:      transactionRoot,
		coinbase:             coinbase,
		stateRoot:            stateRoot,
		receiptRoot:          receiptRoot,
		collationNumber:      collationNumber,
	}
}

// ShardID the collation corresponds to.
func (h *CollationHeader) ShardID() int64 { return h.shardID }

// ExpectedPeriodNumber in which the collation is expected to be included.
func (h *CollationHeader) ExpectedPeriodNumber() int64 { return h.expectedPeriodNumber }

// PeriodStartPrevHash of the mainchain block preceding the period start.
func (h *CollationHeader) PeriodStartPrevHash() common.Hash { return h.periodStartPrevHash }

// ParentHash is the truncated digest of the collation's parent.
func (h *CollationHeader) ParentHash() common.Hash { return h.parentHash }

// TransactionRoot of the collation body.
func (h *CollationHeader) TransactionRoot() common.Hash { return h.transactionRoot }

// Coinbase of the proposer of the collation.
func (h *CollationHeader) Coinbase() common.Address { return h.coinbase }

// StateRoot of the shard after applying the collation.
func (h *CollationHeader) StateRoot() common.Hash { return h.stateRoot }

// ReceiptRoot of the collation body.
func (h *CollationHeader) ReceiptRoot() common.Hash { return h.receiptRoot }

// CollationNumber is the declared chain length, equal to the collation score.
func (h *CollationHeader) CollationNumber() int64 { return h.collationNumber }

// Hash computes the canonical digest of the header: the keccak256 hash of the
// ordered concatenation of all nine header fields, each padded to a 32-byte word.
func (h *CollationHeader) Hash() common.Hash {
	b := make([]byte, 0, 9*common.HashLength)
	b = append(b, common.BigToHash(big.NewInt(h.shardID)).Bytes()...)
	b = append(b, common.BigToHash(big.NewInt(h.expectedPeriodNumber)).Bytes()...)
	b = append(b, h.periodStartPrevHash.Bytes()...)
	b = append(b, h.parentHash.Bytes()...)
	b = append(b, h.transactionRoot.Bytes()...)
	b = append(b, h.coinbase.Hash().Bytes()...)
	b = append(b, h.stateRoot.Bytes()...)
	b = append(b, h.receiptRoot.Bytes()...)
	b = append(b, common.BigToHash(big.NewInt(h.collationNumber)).Bytes()...)
	return crypto.Keccak256Hash(b)
}

// TruncatedHash is the low 208 bits of the canonical digest, the key under
// which the header record is stored. The high 6 bytes of the word are zero.
func (h *CollationHeader) TruncatedHash() common.Hash {
	return TruncateHash(h.Hash())
}

// TruncateHash extracts the rightmost 26 bytes of a 32-byte word, i.e. reduces
// it mod 2^208.
func TruncateHash(hash common.Hash) common.Hash {
	var truncated common.Hash
	copy(truncated[6:], hash[6:])
	return truncated
}

// collationHeaderRLP mirrors CollationHeader for wire/db encoding.
type collationHeaderRLP struct {
	ShardID              uint64
	ExpectedPeriodNumber uint64
	PeriodStartPrevHash  common.Hash
	ParentHash           common.Hash
	TransactionRoot      common.Hash
	Coinbase             common.Address
	StateRoot            common.Hash
	ReceiptRoot          common.Hash
	CollationNumber      uint64
}

// EncodeRLP implements rlp.Encoder for the collation header.
func (h *CollationHeader) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &collationHeaderRLP{
		ShardID:              uint64(h.shardID),
		ExpectedPeriodNumber: uint64(h.expectedPeriodNumber),
		PeriodStartPrevHash:  h.periodStartPrevHash,
		ParentHash:           h.parentHash,
		TransactionRoot:      h.transactionRoot,
		Coinbase:             h.coinbase,
		StateRoot:            h.stateRoot,
		ReceiptRoot:          h.receiptRoot,
		CollationNumber:      uint64(h.collationNumber),
	})
}

// DecodeRLP implements rlp.Decoder for the collation header.
func (h *CollationHeader) DecodeRLP(s *rlp.Stream) error {
	var dec collationHeaderRLP
	if err := s.Decode(&dec); err != nil {
		return err
	}
	h.shardID = int64(dec.ShardID)
	h.expectedPeriodNumber = int64(dec.ExpectedPeriodNumber)
	h.periodStartPrevHash = dec.PeriodStartPrevHash
	h.parentHash = dec.ParentHash
	h.transactionRoot = dec.TransactionRoot
	h.coinbase = dec.Coinbase
	h.stateRoot = dec.StateRoot
	h.receiptRoot = dec.ReceiptRoot
	h.collationNumber = int64(dec.CollationNumber)
	return nil
}

// NewCollation initializes a collation and leaves it up to clients to serialize, deserialize
// and provide the body and transactions upon creation.
func NewCollation(header *CollationHeader, body []byte, transactions []*types.Transaction) *Collation {
	return &Collation{header, body, transactions}
}

// Header returns the collation's header.
func (c *Collation) Header() *CollationHeader { return c.header }

// Body returns the collation's byte body.
func (c *Collation) Body() []byte { return c.body }

// Transactions returns an array of tx's in the collation.
func (c *Collation) Transactions() []*types.Transaction { return c.transactions }

// SetHeader updates the collation's header.
func (c *Collation) SetHeader(h *CollationHeader) { c.header = h }

// AddTransaction adds to the collation's body of tx blobs. The collation cannot
// exceed the collation gas limit.
func (c *Collation) AddTransaction(tx *types.Transaction) error {
	if c.GasUsed().Uint64()+tx.Gas() > CollationGasLimit {
		return fmt.Errorf("the transaction would exceed the collation gas limit of %d", CollationGasLimit)
	}
	c.transactions = append(c.transactions, tx)
	return nil
}

// GasUsed returns the total gas consumed by the collation's transactions.
func (c *Collation) GasUsed() *big.Int {
	g := uint64(0)
	for _, tx := range c.transactions {
		if g > math.MaxUint64-(g+tx.Gas()) {
			g = math.MaxUint64
			break
		}
		g += tx.Gas()
	}
	return big.NewInt(0).SetUint64(g)
}

// Serialize the collation's transactions into a flat byte body.
func (c *Collation) Serialize() ([]byte, error) {
	blob, err := rlp.EncodeToBytes(c.transactions)
	if err != nil {
		return nil, fmt.Errorf("cannot serialize collation body: %v", err)
	}
	return blob, nil
}

// Deserialize a byte body back into the collation's transactions.
func (c *Collation) Deserialize(blob []byte) error {
	var txs []*types.Transaction
	if err := rlp.DecodeBytes(blob, &txs); err != nil {
		return fmt.Errorf("cannot deserialize collation body: %v", err)
	}
	c.body = blob
	c.transactions = txs
	return nil
}
