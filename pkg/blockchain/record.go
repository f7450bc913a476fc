package blockchain

import (
	"fmt"
	"math"
	"strconv"
)

// Record represents a single transfer stored in a block.
type Record struct {
	Sender   string
	Receiver string
	Amount   float64
}

// GenesisRecord is the fixed record carried by every genesis block.
var GenesisRecord = Record{Sender: "Genesis", Receiver: "Genesis", Amount: 0}

// NewRecord creates a record, rejecting missing parties and amounts that have no decimal form.
// The sign of the amount is not checked.
func NewRecord(sender, receiver string, amount float64) (Record, error) {
	if sender == "" {
		return Record{}, newConstructionError("sender", "is required")
	}

	if receiver == "" {
		return Record{}, newConstructionError("receiver", "is required")
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Record{}, newConstructionError("amount", "must be a finite number")
	}

	return Record{Sender: sender, Receiver: receiver, Amount: amount}, nil
}

// String returns the canonical form of the record that is fed into the block hash.
func (r Record) String() string {
	return fmt.Sprintf("record{sender:%s,receiver:%s,amount:%s}",
		strconv.Quote(r.Sender),
		strconv.Quote(r.Receiver),
		strconv.FormatFloat(r.Amount, 'f', -1, 64),
	)
}
