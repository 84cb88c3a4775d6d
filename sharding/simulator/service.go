// Package simulator defines a simulated mainchain for the sharding node. It
// advances a block number on a fixed interval and derives every block hash
// deterministically from its number, so any two nodes running the simulator
// observe the identical chain.
package simulator

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "simulator")

// Simulator is a stand-in for a mainchain client. It satisfies the
// mainchain.Reader interface used by the SMC for period computation,
// continuity anchors and proposer selection seeds.
type Simulator struct {
	mu          sync.RWMutex
	blockNumber int64
	blockTime   time.Duration
	done        chan struct{}
}

// NewSimulator creates a simulated mainchain advancing one block per blockTime.
func NewSimulator(blockTime time.Duration) *Simulator {
	return &Simulator{
		blockTime: blockTime,
		done:      make(chan struct{}),
	}
}

// Start the main loop for the simulated mainchain.
func (s *Simulator) Start() {
	log.Info("Starting simulator service")
	ticker := time.NewTicker(s.blockTime)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				s.Advance(1)
			}
		}
	}()
}

// Stop the simulated mainchain.
func (s *Simulator) Stop() error {
	log.Info("Stopping simulator service")
	close(s.done)
	return nil
}

// Status always returns nil, the simulator cannot fail.
func (s *Simulator) Status() error {
	return nil
}

// Advance the simulated chain by n blocks.
func (s *Simulator) Advance(n int64) {
	s.mu.Lock()
	s.blockNumber += n
	s.mu.Unlock()
}

// BlockNumber of the latest simulated block.
func (s *Simulator) BlockNumber() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blockNumber, nil
}

// BlockHash of a mined simulated block. The hash is the keccak256 hash of the
// block number so it is reproducible across nodes.
func (s *Simulator) BlockHash(number int64) (common.Hash, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if number < 0 {
		return common.Hash{}, errors.Errorf("negative block number %d", number)
	}
	if number > s.blockNumber {
		return common.Hash{}, errors.Errorf("block %d not yet mined, chain is at %d", number, s.blockNumber)
	}
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(number))
	return crypto.Keccak256Hash(b[:]), nil
}
