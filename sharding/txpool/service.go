// Package txpool handles incoming transactions destined for a shard. A
// proposer drains it each period to assemble a collation body.
package txpool

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "txpool")

// TXPool is an in-memory pool of pending shard transactions.
type TXPool struct {
	mu      sync.RWMutex
	pending map[common.Hash]*types.Transaction
	order   []common.Hash
}

// NewTXPool creates a new observer instance.
func NewTXPool() (*TXPool, error) {
	return &TXPool{pending: make(map[common.Hash]*types.Transaction)}, nil
}

// Start the main routine for a shard transaction pool.
func (p *TXPool) Start() {
	log.Info("Starting shard txpool service")
}

// Stop the main loop for a transaction pool in the shard network.
func (p *TXPool) Stop() error {
	log.Info("Stopping shard txpool service")
	return nil
}

// Status always returns nil.
func (p *TXPool) Status() error {
	return nil
}

// Insert queues a transaction for inclusion in a future collation.
// Duplicates are rejected.
func (p *TXPool) Insert(tx *types.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	hash := tx.Hash()
	if _, ok := p.pending[hash]; ok {
		return errors.Errorf("transaction %v already pending", hash)
	}
	p.pending[hash] = tx
	p.order = append(p.order, hash)
	return nil
}

// Pending returns up to max queued transactions in arrival order without
// removing them. A non-positive max returns everything.
func (p *TXPool) Pending(max int) []*types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if max <= 0 || max > len(p.order) {
		max = len(p.order)
	}
	txs := make([]*types.Transaction, 0, max)
	for _, hash := range p.order[:max] {
		txs = append(txs, p.pending[hash])
	}
	return txs
}

// Remove drops transactions that made it into a collation.
func (p *TXPool) Remove(txs []*types.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()
	dropped := make(map[common.Hash]bool, len(txs))
	for _, tx := range txs {
		dropped[tx.Hash()] = true
		delete(p.pending, tx.Hash())
	}
	order := p.order[:0]
	for _, hash := range p.order {
		if !dropped[hash] {
			order = append(order, hash)
		}
	}
	p.order = order
}

// Len reports the number of pending transactions.
func (p *TXPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.order)
}
