// Package observer launches a service that follows a shard without taking on
// notary or proposer duties. It records every accepted collation header into
// local shard storage and tracks the canonical head.
package observer

import (
	"github.com/ethereum/go-ethereum/event"
	"github.com/prysmaticlabs/geth-sharding/sharding"
	"github.com/prysmaticlabs/geth-sharding/sharding/smc"
	"github.com/prysmaticlabs/geth-sharding/sharding/utils"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "observer")

// Observer holds functionality required to run an observer service in a
// sharded system.
type Observer struct {
	manager *smc.SMC
	shard   *sharding.Shard

	collationCh chan smc.CollationAddedEvent
	collationSu event.Subscription
	done        chan struct{}
	errChan     chan error
}

// NewObserver creates a new observer instance.
func NewObserver(manager *smc.SMC, shard *sharding.Shard) (*Observer, error) {
	return &Observer{
		manager:     manager,
		shard:       shard,
		collationCh: make(chan smc.CollationAddedEvent, 16),
		done:        make(chan struct{}),
		errChan:     make(chan error),
	}, nil
}

// Start the main routine for an observer.
func (o *Observer) Start() {
	log.Info("Starting observer service")
	o.collationSu = o.manager.SubscribeCollationAdded(o.collationCh)
	go o.followShard()
	go utils.HandleServiceErrors(o.done, o.errChan)
}

// Stop the main loop for observing the shard network.
func (o *Observer) Stop() error {
	log.Info("Stopping observer service")
	o.collationSu.Unsubscribe()
	close(o.done)
	return nil
}

// Status always returns nil.
func (o *Observer) Status() error {
	return nil
}

// followShard persists every accepted header on the observed shard and logs
// canonical head changes.
func (o *Observer) followShard() {
	for {
		select {
		case <-o.done:
			return
		case ev := <-o.collationCh:
			if ev.Header.ShardID() != o.shard.ShardID() {
				continue
			}
			if err := o.shard.SaveHeader(ev.Header); err != nil {
				o.errChan <- err
				continue
			}
			entry := log.WithFields(logrus.Fields{
				"shardID": ev.Header.ShardID(),
				"period":  ev.Header.ExpectedPeriodNumber(),
				"score":   ev.Score,
			})
			if ev.IsNewHead {
				entry.Info("New shard head")
			} else {
				entry.Debug("Collation recorded off the canonical chain")
			}
		case err := <-o.collationSu.Err():
			if err != nil {
				o.errChan <- err
			}
			return
		}
	}
}
