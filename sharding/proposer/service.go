// Package proposer defines the proposer actor. Each period the proposer
// checks whether it won the pseudorandom lottery for its shard and, if so,
// assembles a collation from pending transactions and submits its header to
// the manager.
package proposer

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/geth-sharding/sharding"
	"github.com/prysmaticlabs/geth-sharding/sharding/mainchain"
	"github.com/prysmaticlabs/geth-sharding/sharding/smc"
	"github.com/prysmaticlabs/geth-sharding/sharding/txpool"
	"github.com/prysmaticlabs/geth-sharding/sharding/utils"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "proposer")

// Proposer holds functionality required to run a collation proposer in a
// sharded system.
type Proposer struct {
	manager      *smc.SMC
	chain        mainchain.Reader
	pool         *txpool.TXPool
	shard        *sharding.Shard
	address      common.Address
	pollInterval time.Duration
	done         chan struct{}
	errChan      chan error
}

// NewProposer creates a struct instance. It is initialized and registered as
// a service upon start of a sharding node.
func NewProposer(manager *smc.SMC, chain mainchain.Reader, pool *txpool.TXPool, shard *sharding.Shard, address common.Address) (*Proposer, error) {
	return &Proposer{
		manager:      manager,
		chain:        chain,
		pool:         pool,
		shard:        shard,
		address:      address,
		pollInterval: time.Second,
		done:         make(chan struct{}),
		errChan:      make(chan error),
	}, nil
}

// Start the main loop for proposing collations.
func (p *Proposer) Start() {
	log.Info("Starting proposer service")
	go p.proposeCollations()
	go utils.HandleServiceErrors(p.done, p.errChan)
}

// Stop the main loop for proposing collations.
func (p *Proposer) Stop() error {
	log.Info("Stopping proposer service")
	close(p.done)
	return nil
}

// Status always returns nil.
func (p *Proposer) Status() error {
	return nil
}

// proposeCollations polls the mainchain every pollInterval and proposes at
// most one collation per period.
func (p *Proposer) proposeCollations() {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			header, err := p.ProposeCollation()
			if err != nil {
				p.errChan <- err
				continue
			}
			if header != nil {
				log.WithFields(logrus.Fields{
					"shardID": header.ShardID(),
					"period":  header.ExpectedPeriodNumber(),
					"score":   header.CollationNumber(),
				}).Info("Proposed collation")
			}
		}
	}
}

// ProposeCollation makes a single proposal attempt for the current period. It
// returns a nil header when the proposer lost the lottery or the period has
// already been served, and the accepted header otherwise.
func (p *Proposer) ProposeCollation() (*sharding.CollationHeader, error) {
	period, err := p.manager.CurrentPeriod()
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch current period")
	}
	// Headers are only accepted once the first full period has elapsed.
	if period < 1 || p.manager.PeriodHead(p.shard.ShardID()) >= period {
		return nil, nil
	}

	eligible, err := p.manager.GetEligibleProposer(p.shard.ShardID(), period)
	if err != nil {
		if errors.Is(err, smc.ErrNoEligibleProposer) || errors.Is(err, smc.ErrPeriodTooSoon) || errors.Is(err, smc.ErrNoActiveMembers) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "could not determine eligible proposer")
	}
	if eligible != p.address {
		return nil, nil
	}

	collation, err := p.assembleCollation(period)
	if err != nil {
		return nil, err
	}
	header := collation.Header()

	if _, err := p.manager.AddHeader(p.address, header); err != nil {
		return nil, errors.Wrap(err, "could not submit collation header")
	}
	if err := p.shard.SaveCollation(collation); err != nil {
		return nil, errors.Wrap(err, "could not persist collation")
	}
	p.pool.Remove(collation.Transactions())
	return header, nil
}

// assembleCollation drafts a collation for the given period from pending
// transactions, filling the body up to the collation gas limit.
func (p *Proposer) assembleCollation(period int64) (*sharding.Collation, error) {
	config := p.manager.Config()
	shardID := p.shard.ShardID()

	anchor, err := p.chain.BlockHash(period*config.PeriodLength - 1)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch period anchor")
	}

	parent := p.manager.ShardHead(shardID)
	score := int64(0)
	if parent != (common.Hash{}) {
		score, err = p.manager.CollationHeaderScore(shardID, parent)
		if err != nil {
			return nil, errors.Wrap(err, "could not score shard head")
		}
	}

	collation := sharding.NewCollation(nil, nil, nil)
	for _, tx := range p.pool.Pending(0) {
		if err := collation.AddTransaction(tx); err != nil {
			break
		}
	}
	body, err := collation.Serialize()
	if err != nil {
		return nil, err
	}

	header := sharding.NewCollationHeader(
		shardID,
		period,
		anchor,
		parent,
		crypto.Keccak256Hash(body),
		p.address,
		types.EmptyRootHash,
		types.EmptyRootHash,
		score+1,
	)
	collation.SetHeader(header)
	return collation, nil
}
