// Package notary defines the notary actor. A notary bonds a deposit into the
// manager's pool on startup and tracks the collations accepted on its shard.
package notary

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"
	"github.com/prysmaticlabs/geth-sharding/sharding/smc"
	"github.com/prysmaticlabs/geth-sharding/sharding/utils"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "notary")

// Notary holds functionality required to run a collation notary in a sharded
// system.
type Notary struct {
	manager     *smc.SMC
	shardID     int64
	address     common.Address
	depositFlag bool

	collationCh chan smc.CollationAddedEvent
	collationSu event.Subscription
	done        chan struct{}
	errChan     chan error
}

// NewNotary creates a new notary instance.
func NewNotary(manager *smc.SMC, shardID int64, address common.Address, depositFlag bool) (*Notary, error) {
	return &Notary{
		manager:     manager,
		shardID:     shardID,
		address:     address,
		depositFlag: depositFlag,
		collationCh: make(chan smc.CollationAddedEvent, 16),
		done:        make(chan struct{}),
		errChan:     make(chan error),
	}, nil
}

// Start the main routine for a notary.
func (n *Notary) Start() {
	log.Info("Starting notary service")

	if n.depositFlag {
		if err := n.joinNotaryPool(); err != nil {
			log.WithError(err).Error("Could not join the notary pool")
		}
	}

	n.collationSu = n.manager.SubscribeCollationAdded(n.collationCh)
	go n.notarizeCollations()
	go utils.HandleServiceErrors(n.done, n.errChan)
}

// Stop the main loop for notarizing collations.
func (n *Notary) Stop() error {
	log.Info("Stopping notary service")
	n.collationSu.Unsubscribe()
	close(n.done)
	return nil
}

// Status always returns nil.
func (n *Notary) Status() error {
	return nil
}

// LeavePool deregisters the notary, starting its deposit lockup. The freed
// pool slot becomes reusable right away.
func (n *Notary) LeavePool() error {
	index, err := n.manager.DeregisterNotary(n.address)
	if err != nil {
		return errors.Wrap(err, "could not deregister notary")
	}
	log.WithFields(logrus.Fields{
		"address":   n.address.Hex(),
		"poolIndex": index,
	}).Info("Notary deregistered, lockup started")
	return nil
}

// Withdraw reclaims the notary's deposit once the lockup has elapsed.
func (n *Notary) Withdraw() error {
	deposit, err := n.manager.ReleaseNotary(n.address)
	if err != nil {
		return errors.Wrap(err, "could not release notary")
	}
	log.WithFields(logrus.Fields{
		"address": n.address.Hex(),
		"deposit": deposit,
	}).Info("Notary deposit released")
	return nil
}

// joinNotaryPool bonds the configured deposit if the account is not already a
// member.
func (n *Notary) joinNotaryPool() error {
	if n.manager.NotaryExists(n.address) {
		log.WithField("address", n.address.Hex()).Info("Already registered as a notary")
		return nil
	}
	index, err := n.manager.RegisterNotary(n.address, n.manager.Config().NotaryDeposit)
	if err != nil {
		return errors.Wrap(err, "could not join notary pool")
	}
	log.WithFields(logrus.Fields{
		"address":   n.address.Hex(),
		"poolIndex": index,
	}).Info("Joined notary pool")
	return nil
}

// notarizeCollations watches accepted collation headers on the notary's shard.
func (n *Notary) notarizeCollations() {
	for {
		select {
		case <-n.done:
			return
		case ev := <-n.collationCh:
			if ev.Header.ShardID() != n.shardID {
				continue
			}
			log.WithFields(logrus.Fields{
				"shardID":   ev.Header.ShardID(),
				"period":    ev.Header.ExpectedPeriodNumber(),
				"score":     ev.Score,
				"isNewHead": ev.IsNewHead,
			}).Info("Collation accepted on shard")
		case err := <-n.collationSu.Err():
			if err != nil {
				n.errChan <- err
			}
			return
		}
	}
}
