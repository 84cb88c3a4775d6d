package smc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// NotaryRecord tracks one notary's deposit and pool slot. The record outlives
// deregistration so the deposit stays accounted for through the lockup.
type NotaryRecord struct {
	// Deposit held for the notary, in wei.
	Deposit *big.Int
	// PoolIndex is the notary's slot in the pool.
	PoolIndex int64
	// DeregisteredPeriod is the period the notary deregistered in, 0 while
	// the notary is still active.
	DeregisteredPeriod int64
}

// RegisterNotary adds an entry to the notary registry and assigns a pool slot,
// locking the supplied deposit. Vacated slot indices are recycled before the
// pool grows. Returns the assigned slot index.
func (s *SMC) RegisterNotary(notary common.Address, deposit *big.Int) (int64, error) {
	poolIndex, err := s.registerNotaryLocked(notary, deposit)
	if err != nil {
		return 0, err
	}
	s.registerFeed.Send(RegisterNotaryEvent{PoolIndex: poolIndex, Notary: notary})
	return poolIndex, nil
}

func (s *SMC) registerNotaryLocked(notary common.Address, deposit *big.Int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if deposit == nil || deposit.Cmp(s.config.NotaryDeposit) < 0 {
		return 0, ErrInsufficientDeposit
	}
	if _, exists := s.registry[notary]; exists {
		return 0, ErrAlreadyRegistered
	}

	var poolIndex int64
	if len(s.emptySlots) > 0 {
		// Reuse the most recently vacated slot.
		poolIndex = s.emptySlots[len(s.emptySlots)-1]
		s.emptySlots = s.emptySlots[:len(s.emptySlots)-1]
		s.notaryPool[poolIndex] = notary
	} else {
		poolIndex = int64(len(s.notaryPool))
		s.notaryPool = append(s.notaryPool, notary)
	}
	s.notaryPoolLen++

	s.registry[notary] = &NotaryRecord{
		Deposit:   new(big.Int).Set(deposit),
		PoolIndex: poolIndex,
	}

	notaryRegistrationsTotal.Inc()
	notaryPoolSize.Set(float64(s.notaryPoolLen))
	log.WithFields(logrus.Fields{
		"notary":    notary.Hex(),
		"poolIndex": poolIndex,
	}).Info("Notary registered")
	return poolIndex, nil
}

// DeregisterNotary vacates the notary's pool slot and stamps its record with
// the current period. The slot becomes reusable immediately; the deposit stays
// locked until the lockup length elapses. Returns the vacated slot index.
func (s *SMC) DeregisterNotary(notary common.Address) (int64, error) {
	poolIndex, period, err := s.deregisterNotaryLocked(notary)
	if err != nil {
		return 0, err
	}
	s.deregisterFeed.Send(DeregisterNotaryEvent{
		PoolIndex:          poolIndex,
		Notary:             notary,
		DeregisteredPeriod: period,
	})
	return poolIndex, nil
}

func (s *SMC) deregisterNotaryLocked(notary common.Address) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.registry[notary]
	if !exists {
		return 0, 0, ErrNotRegistered
	}
	period, err := s.currentPeriodLocked()
	if err != nil {
		return 0, 0, err
	}

	poolIndex := record.PoolIndex
	s.emptySlots = append(s.emptySlots, poolIndex)
	s.notaryPool[poolIndex] = common.Address{}
	s.notaryPoolLen--
	record.DeregisteredPeriod = period

	notaryDeregistrationsTotal.Inc()
	notaryPoolSize.Set(float64(s.notaryPoolLen))
	log.WithFields(logrus.Fields{
		"notary":             notary.Hex(),
		"poolIndex":          poolIndex,
		"deregisteredPeriod": period,
	}).Info("Notary deregistered")
	return poolIndex, period, nil
}

// ReleaseNotary deletes a deregistered notary's record once the lockup has
// strictly elapsed and returns the deposit to be refunded.
func (s *SMC) ReleaseNotary(notary common.Address) (*big.Int, error) {
	deposit, poolIndex, err := s.releaseNotaryLocked(notary)
	if err != nil {
		return nil, err
	}
	s.releaseFeed.Send(ReleaseNotaryEvent{PoolIndex: poolIndex, Notary: notary})
	return deposit, nil
}

func (s *SMC) releaseNotaryLocked(notary common.Address) (*big.Int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.registry[notary]
	if !exists {
		return nil, 0, ErrNotRegistered
	}
	if record.DeregisteredPeriod == 0 {
		return nil, 0, ErrNotDeregistered
	}
	period, err := s.currentPeriodLocked()
	if err != nil {
		return nil, 0, err
	}
	if period <= record.DeregisteredPeriod+s.config.NotaryLockupLength {
		return nil, 0, ErrLockupNotElapsed
	}

	delete(s.registry, notary)
	deposit := record.Deposit

	notaryReleasesTotal.Inc()
	log.WithFields(logrus.Fields{
		"notary":    notary.Hex(),
		"poolIndex": record.PoolIndex,
	}).Info("Notary deposit released")
	return deposit, record.PoolIndex, nil
}

// NotaryExists reports whether a live registry record exists for the notary.
// Deregistered-but-unreleased notaries still exist.
func (s *SMC) NotaryExists(notary common.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.registry[notary]
	return exists
}

// NotaryInfo returns a copy of the notary's registry record.
func (s *SMC) NotaryInfo(notary common.Address) (*NotaryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, exists := s.registry[notary]
	if !exists {
		return nil, ErrNotRegistered
	}
	return &NotaryRecord{
		Deposit:            new(big.Int).Set(record.Deposit),
		PoolIndex:          record.PoolIndex,
		DeregisteredPeriod: record.DeregisteredPeriod,
	}, nil
}

// NotaryPoolLen returns the number of active notaries.
func (s *SMC) NotaryPoolLen() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.notaryPoolLen
}

// EmptySlotsStackDepth returns the number of recycled slot indices awaiting
// reuse.
func (s *SMC) EmptySlotsStackDepth() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.emptySlots))
}

// NotaryAt returns the occupant of a pool slot, or an empty address for a
// vacated slot.
func (s *SMC) NotaryAt(poolIndex int64) (common.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if poolIndex < 0 || poolIndex >= int64(len(s.notaryPool)) {
		return common.Address{}, ErrNotRegistered
	}
	return s.notaryPool[poolIndex], nil
}

// currentPeriodLocked computes the current period. Callers hold the lock.
func (s *SMC) currentPeriodLocked() (int64, error) {
	blockNumber, err := s.reader.BlockNumber()
	if err != nil {
		return 0, err
	}
	return blockNumber / s.config.PeriodLength, nil
}
