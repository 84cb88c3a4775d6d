package smc

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"github.com/prysmaticlabs/geth-sharding/sharding"
)

// RegisterNotaryEvent is posted when a notary joins the pool.
type RegisterNotaryEvent struct {
	PoolIndex int64
	Notary    common.Address
}

// DeregisterNotaryEvent is posted when a notary leaves the pool and its
// deposit enters lockup.
type DeregisterNotaryEvent struct {
	PoolIndex          int64
	Notary             common.Address
	DeregisteredPeriod int64
}

// ReleaseNotaryEvent is posted when a deregistered notary's deposit is
// returned and its record deleted.
type ReleaseNotaryEvent struct {
	PoolIndex int64
	Notary    common.Address
}

// CollationAddedEvent is posted for every accepted collation header. It
// carries everything required to reconstruct the shard chain state. The
// header is a private copy, so subscribers may retain it without sharing
// memory with the submitting caller.
type CollationAddedEvent struct {
	Header    *sharding.CollationHeader
	IsNewHead bool
	Score     int64
}

// TxToShardEvent is posted when a cross-shard transfer request is recorded.
type TxToShardEvent struct {
	ReceiptID int64
	To        common.Address
	ShardID   int64
}

// SubscribeRegisterNotary starts delivering notary registration events to the
// given channel.
func (s *SMC) SubscribeRegisterNotary(ch chan<- RegisterNotaryEvent) event.Subscription {
	return s.scope.Track(s.registerFeed.Subscribe(ch))
}

// SubscribeDeregisterNotary starts delivering notary deregistration events to
// the given channel.
func (s *SMC) SubscribeDeregisterNotary(ch chan<- DeregisterNotaryEvent) event.Subscription {
	return s.scope.Track(s.deregisterFeed.Subscribe(ch))
}

// SubscribeReleaseNotary starts delivering notary release events to the given
// channel.
func (s *SMC) SubscribeReleaseNotary(ch chan<- ReleaseNotaryEvent) event.Subscription {
	return s.scope.Track(s.releaseFeed.Subscribe(ch))
}

// SubscribeCollationAdded starts delivering accepted collation headers to the
// given channel.
func (s *SMC) SubscribeCollationAdded(ch chan<- CollationAddedEvent) event.Subscription {
	return s.scope.Track(s.collationFeed.Subscribe(ch))
}

// SubscribeTxToShard starts delivering cross-shard receipt events to the given
// channel.
func (s *SMC) SubscribeTxToShard(ch chan<- TxToShardEvent) event.Subscription {
	return s.scope.Track(s.txToShardFeed.Subscribe(ch))
}
