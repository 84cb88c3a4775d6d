package sharding

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
)

// Shard provides access to one shard's locally persisted collations: full
// headers keyed by their truncated digest and bodies keyed by chunk root.
// The SMC keeps only packed score records; actors keep the raw data here.
type Shard struct {
	shardDB ethdb.KeyValueStore
	shardID int64
}

// NewShard creates an instance of a shard struct given a shardID.
func NewShard(shardID int64, shardDB ethdb.KeyValueStore) *Shard {
	return &Shard{
		shardDB: shardDB,
		shardID: shardID,
	}
}

// ShardID gets the shard's identifier.
func (s *Shard) ShardID() int64 {
	return s.shardID
}

// ValidateShardID checks if a header belongs to this shard.
func (s *Shard) ValidateShardID(h *CollationHeader) error {
	if s.shardID != h.ShardID() {
		return errors.Errorf("collation does not belong to shard %d but instead has shardID %d", s.shardID, h.ShardID())
	}
	return nil
}

// SaveHeader adds the collation header to shardDB.
func (s *Shard) SaveHeader(h *CollationHeader) error {
	if err := s.ValidateShardID(h); err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(h)
	if err != nil {
		return errors.Wrap(err, "cannot encode header")
	}
	return s.shardDB.Put(s.headerKey(h.TruncatedHash()), encoded)
}

// HeaderByHash looks up a collation header by its truncated digest.
func (s *Shard) HeaderByHash(hash common.Hash) (*CollationHeader, error) {
	encoded, err := s.shardDB.Get(s.headerKey(hash))
	if err != nil {
		return nil, errors.Wrap(err, "header not found")
	}
	var header CollationHeader
	if err := rlp.DecodeBytes(encoded, &header); err != nil {
		return nil, errors.Wrap(err, "problem decoding header")
	}
	return &header, nil
}

// SaveBody adds the collation body to shardDB keyed by its chunk root and
// returns that root.
func (s *Shard) SaveBody(body []byte) (common.Hash, error) {
	chunkRoot := crypto.Keccak256Hash(body)
	if err := s.shardDB.Put(s.bodyKey(chunkRoot), body); err != nil {
		return common.Hash{}, err
	}
	return chunkRoot, nil
}

// BodyByChunkRoot fetches a collation body.
func (s *Shard) BodyByChunkRoot(chunkRoot common.Hash) ([]byte, error) {
	body, err := s.shardDB.Get(s.bodyKey(chunkRoot))
	if err != nil {
		return nil, errors.Wrap(err, "no corresponding body with chunk root found")
	}
	return body, nil
}

// SaveCollation stores the collation's header and serialized body.
func (s *Shard) SaveCollation(collation *Collation) error {
	if err := s.ValidateShardID(collation.Header()); err != nil {
		return err
	}
	if err := s.SaveHeader(collation.Header()); err != nil {
		return err
	}
	body, err := collation.Serialize()
	if err != nil {
		return err
	}
	_, err = s.SaveBody(body)
	return err
}

// CollationByHeaderHash fetches a full collation: header plus deserialized
// body transactions.
func (s *Shard) CollationByHeaderHash(hash common.Hash) (*Collation, error) {
	header, err := s.HeaderByHash(hash)
	if err != nil {
		return nil, err
	}
	collation := &Collation{header: header}
	body, err := s.BodyByChunkRoot(header.TransactionRoot())
	if err != nil {
		return nil, err
	}
	if err := collation.Deserialize(body); err != nil {
		return nil, err
	}
	return collation, nil
}

func (s *Shard) headerKey(hash common.Hash) []byte {
	return append([]byte("shard-header-"), hash.Bytes()...)
}

func (s *Shard) bodyKey(chunkRoot common.Hash) []byte {
	return append([]byte("shard-body-"), chunkRoot.Bytes()...)
}
