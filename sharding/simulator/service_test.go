package simulator

import (
	"testing"
	"time"

	"github.com/prysmaticlabs/geth-sharding/sharding/mainchain"
	"github.com/prysmaticlabs/geth-sharding/shared"
)

// Verifies that Simulator implements the required interfaces.
var _ = shared.Service(&Simulator{})
var _ = mainchain.Reader(&Simulator{})

func TestSimulator_Advance(t *testing.T) {
	sim := NewSimulator(time.Second)
	sim.Advance(25)

	number, err := sim.BlockNumber()
	if err != nil {
		t.Fatalf("could not get block number: %v", err)
	}
	if number != 25 {
		t.Errorf("block number is %d, want 25", number)
	}
}

func TestSimulator_BlockHashDeterministic(t *testing.T) {
	a := NewSimulator(time.Second)
	b := NewSimulator(time.Second)
	a.Advance(10)
	b.Advance(10)

	hashA, err := a.BlockHash(7)
	if err != nil {
		t.Fatalf("could not get block hash: %v", err)
	}
	hashB, err := b.BlockHash(7)
	if err != nil {
		t.Fatalf("could not get block hash: %v", err)
	}
	if hashA != hashB {
		t.Errorf("two simulators disagree on block 7: %v != %v", hashA, hashB)
	}
}

func TestSimulator_FutureBlockHash(t *testing.T) {
	sim := NewSimulator(time.Second)
	sim.Advance(3)

	if _, err := sim.BlockHash(4); err == nil {
		t.Error("expected error for unmined block hash")
	}
	if _, err := sim.BlockHash(-1); err == nil {
		t.Error("expected error for negative block number")
	}
}
