package blockchain

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

const (
	// GenesisPrevHash is the previous hash stored in the genesis block.
	GenesisPrevHash = "0"
	// TimestampLayout formats block timestamps as HH:MM:SS.
	TimestampLayout = "15:04:05"
)

var now = time.Now

// Block represents each 'item' in the blockchain
type Block struct {
	Record    Record
	CreatorID int
	PrevHash  string
	Timestamp string
	Nonce     uint64
}

// NewBlock creates an unmined block stamped with the given time.
func NewBlock(record Record, creatorID int, prevHash string, at time.Time) (*Block, error) {
	if prevHash == "" {
		return nil, newConstructionError("prev hash", "is required")
	}

	return &Block{
		Record:    record,
		CreatorID: creatorID,
		PrevHash:  prevHash,
		Timestamp: at.UTC().Format(TimestampLayout),
		Nonce:     0,
	}, nil
}

// BuildCandidate creates an unmined block for a new transfer, ready to be appended
// after the block whose hash is prevHash.
func BuildCandidate(sender, receiver string, amount float64, creatorID int, prevHash string) (*Block, error) {
	record, err := NewRecord(sender, receiver, amount)
	if err != nil {
		return nil, err
	}

	return NewBlock(record, creatorID, prevHash, now())
}

// Genesis creates the first block in the blockchain
// which is called as the 'genesis block'
func Genesis(record Record, creatorID int) *Block {
	return &Block{
		Record:    record,
		CreatorID: creatorID,
		PrevHash:  GenesisPrevHash,
		Timestamp: now().UTC().Format(TimestampLayout),
		Nonce:     0,
	}
}

// Hash returns the hex encoded sha256 of the block at its current nonce.
func (b Block) Hash() string {
	hash := sha256.Sum256(b.canonical())

	return hex.EncodeToString(hash[:])
}

// canonical joins the block fields in hashing order: record, creator, timestamp, prev hash, nonce.
func (b Block) canonical() []byte {
	return bytes.Join(
		[][]byte{
			[]byte(b.Record.String()),
			[]byte(strconv.Itoa(b.CreatorID)),
			[]byte(strconv.Quote(b.Timestamp)),
			[]byte(strconv.Quote(b.PrevHash)),
			[]byte(strconv.FormatUint(b.Nonce, 10)),
		},
		[]byte{'|'},
	)
}
