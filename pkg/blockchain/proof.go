package blockchain

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

// MaxDifficulty is the length of a hex encoded sha256 digest.
const MaxDifficulty = 64

// ProofOfWork finds a nonce for which the block hash starts with Difficulty
// hex zeros. Each extra zero makes a valid hash 16 times rarer.
type ProofOfWork struct {
	Block      *Block
	Difficulty int
	// MaxAttempts bounds the number of hashes tried by Run, zero means unbounded.
	MaxAttempts uint64
}

// NewProof creates a new proof of work
func NewProof(b *Block, difficulty int) *ProofOfWork {
	return &ProofOfWork{Block: b, Difficulty: difficulty}
}

// Run increments the block nonce until its hash meets the difficulty and returns that hash.
// ctx is checked between attempts.
func (pow *ProofOfWork) Run(ctx context.Context) (string, error) {
	var attempts uint64

	for {
		hash := pow.Block.Hash()
		if MeetsDifficulty(hash, pow.Difficulty) {
			return hash, nil
		}

		attempts++
		if pow.MaxAttempts > 0 && attempts >= pow.MaxAttempts {
			return "", errors.Wrapf(ErrMiningAborted, "no hash found after %d attempts", attempts)
		}

		select {
		case <-ctx.Done():
			return "", errors.Wrap(ErrMiningAborted, ctx.Err().Error())
		default:
			pow.Block.Nonce++
		}
	}
}

// Validate validates the proof of work
func (pow *ProofOfWork) Validate() bool {
	return MeetsDifficulty(pow.Block.Hash(), pow.Difficulty)
}

// Mine searches the nonce space of block in place without any bound and returns the same block.
func Mine(block *Block, difficulty int) *Block {
	// background context is never done and there is no ceiling, so Run cannot fail
	_, _ = NewProof(block, difficulty).Run(context.Background())

	return block
}

// MeetsDifficulty reports whether hash starts with difficulty '0' characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}

	if difficulty > len(hash) {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == difficulty
}
