package mainchain

import (
	"github.com/ethereum/go-ethereum/common"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// hashCacheSize bounds the number of block hashes kept in memory. Hashes are
// requested repeatedly for the same seed and anchor blocks within a period, so
// a small cache covers the working set.
const hashCacheSize = 256

// CachedReader wraps a Reader with an LRU cache over block hashes. A mined
// block's hash never changes, so entries are never invalidated.
type CachedReader struct {
	reader Reader
	hashes *lru.Cache
}

// NewCachedReader wraps the given reader.
func NewCachedReader(reader Reader) (*CachedReader, error) {
	hashes, err := lru.New(hashCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create block hash cache")
	}
	return &CachedReader{reader: reader, hashes: hashes}, nil
}

// BlockNumber delegates to the underlying reader.
func (c *CachedReader) BlockNumber() (int64, error) {
	return c.reader.BlockNumber()
}

// BlockHash returns the cached hash for a block number, fetching and caching
// it on a miss.
func (c *CachedReader) BlockHash(number int64) (common.Hash, error) {
	if hash, ok := c.hashes.Get(number); ok {
		return hash.(common.Hash), nil
	}
	hash, err := c.reader.BlockHash(number)
	if err != nil {
		return common.Hash{}, err
	}
	c.hashes.Add(number, hash)
	return hash, nil
}
