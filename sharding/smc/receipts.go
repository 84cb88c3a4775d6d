package smc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Receipt records one cross-shard transfer request. Receipts are append-only;
// the gas price is the single field mutable after creation, and only by the
// original sender.
type Receipt struct {
	ShardID    int64
	TxStartgas int64
	TxGasprice int64
	Value      *big.Int
	Sender     common.Address
	To         common.Address
	Data       []byte
}

// TxToShard records a request to transfer value to an address on a shard
// during a future collation. Always succeeds and returns the receipt ID.
func (s *SMC) TxToShard(sender common.Address, to common.Address, shardID int64, txStartgas int64, txGasprice int64, value *big.Int, data []byte) int64 {
	receiptID := s.txToShardLocked(sender, to, shardID, txStartgas, txGasprice, value, data)
	s.txToShardFeed.Send(TxToShardEvent{ReceiptID: receiptID, To: to, ShardID: shardID})
	return receiptID
}

func (s *SMC) txToShardLocked(sender common.Address, to common.Address, shardID int64, txStartgas int64, txGasprice int64, value *big.Int, data []byte) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if value == nil {
		value = new(big.Int)
	}
	receiptID := s.numReceipts
	s.receipts[receiptID] = &Receipt{
		ShardID:    shardID,
		TxStartgas: txStartgas,
		TxGasprice: txGasprice,
		Value:      new(big.Int).Set(value),
		Sender:     sender,
		To:         to,
		Data:       data,
	}
	s.numReceipts++

	receiptsTotal.Inc()
	log.WithFields(logrus.Fields{
		"receiptID": receiptID,
		"shardID":   shardID,
		"to":        to.Hex(),
	}).Debug("Cross-shard receipt recorded")
	return receiptID
}

// UpdateGasPrice updates the gas price of a recorded receipt. Only the
// original sender may do so.
func (s *SMC) UpdateGasPrice(receiptID int64, sender common.Address, txGasprice int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, exists := s.receipts[receiptID]
	if !exists || receipt.Sender != sender {
		return ErrNotOwner
	}
	receipt.TxGasprice = txGasprice
	return nil
}

// Receipt returns a copy of the receipt stored under the given ID.
func (s *SMC) Receipt(receiptID int64) (*Receipt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	receipt, exists := s.receipts[receiptID]
	if !exists {
		return nil, false
	}
	copied := *receipt
	copied.Value = new(big.Int).Set(receipt.Value)
	copied.Data = append([]byte(nil), receipt.Data...)
	return &copied, true
}
