package smc

import "errors"

// Every operation validates its preconditions before touching state, so each
// of these errors implies that nothing was mutated.
var (
	// ErrAlreadyRegistered is returned when registering a notary with a live
	// registry record.
	ErrAlreadyRegistered = errors.New("notary already registered")
	// ErrInsufficientDeposit is returned when the supplied deposit is below
	// the configured notary deposit.
	ErrInsufficientDeposit = errors.New("deposit below notary deposit requirement")
	// ErrNotRegistered is returned when no live record exists for a notary.
	ErrNotRegistered = errors.New("notary does not exist in registry")
	// ErrNotDeregistered is returned when releasing a notary that never
	// deregistered.
	ErrNotDeregistered = errors.New("notary has not deregistered")
	// ErrLockupNotElapsed is returned when releasing a deposit before the
	// lockup length has strictly elapsed.
	ErrLockupNotElapsed = errors.New("notary deposit still locked up")

	// ErrPeriodTooSoon is returned when the proposer selection seed block for
	// the requested period is not yet available.
	ErrPeriodTooSoon = errors.New("proposer selection seed block not available")
	// ErrNoActiveMembers is returned when proposer selection runs against an
	// empty notary pool.
	ErrNoActiveMembers = errors.New("notary pool is empty")
	// ErrNoEligibleProposer is returned when selection lands on a vacated slot.
	ErrNoEligibleProposer = errors.New("no eligible proposer for period")
	// ErrNotAuthorizedProposer is returned when the submitting proposer is not
	// the selected member for the period.
	ErrNotAuthorizedProposer = errors.New("sender is not the eligible proposer")

	// ErrInvalidShardID is returned for a shard ID outside the configured
	// shard count.
	ErrInvalidShardID = errors.New("shard ID out of range")
	// ErrPeriodNotStarted is returned before the mainchain completes its
	// first period.
	ErrPeriodNotStarted = errors.New("mainchain has not completed its first period")
	// ErrWrongPeriod is returned when a header's expected period does not
	// match the current period.
	ErrWrongPeriod = errors.New("expected period does not match current period")
	// ErrStaleAnchor is returned when the period start hash does not match
	// the canonical mainchain block at the period boundary.
	ErrStaleAnchor = errors.New("period start hash does not match canonical chain")
	// ErrPeriodAlreadyFinalized is returned when the shard already accepted a
	// collation for the period.
	ErrPeriodAlreadyFinalized = errors.New("collation already accepted for shard this period")
	// ErrUnknownParent is returned when a non-genesis parent header is
	// missing or carries a zero score.
	ErrUnknownParent = errors.New("parent header unknown or has zero score")
	// ErrScoreMismatch is returned when the declared collation number differs
	// from parent score + 1.
	ErrScoreMismatch = errors.New("collation number does not match computed score")

	// ErrNotOwner is returned when updating a receipt's gas price from any
	// address other than its original sender.
	ErrNotOwner = errors.New("sender does not own receipt")
)
