package blockchain

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Chain is an append-only, in-memory sequence of blocks starting at the genesis block.
// Writers are serialized for the whole mine-and-push, so concurrent appends never extend the same tail twice.
// The block list itself is only locked for the push, so readers and difficulty changes never wait on mining.
type Chain struct {
	writeMu     sync.Mutex
	mu          sync.RWMutex
	blocks      []*Block
	difficulty  atomic.Int64
	maxAttempts atomic.Uint64
}

// NewChain creates a chain holding only the genesis block.
func NewChain(genesis Record, creatorID int, difficulty int) (*Chain, error) {
	if err := checkDifficulty(difficulty); err != nil {
		return nil, err
	}

	chain := &Chain{blocks: []*Block{Genesis(genesis, creatorID)}}
	chain.difficulty.Store(int64(difficulty))

	return chain, nil
}

// SetMaxAttempts bounds every future mining run, zero removes the bound.
func (c *Chain) SetMaxAttempts(n uint64) {
	c.maxAttempts.Store(n)
}

// Append mines candidate at the current difficulty and pushes a copy of it onto the chain.
// The caller is responsible for setting the candidate prev hash to the hash of the tail.
func (c *Chain) Append(ctx context.Context, candidate *Block) error {
	if candidate == nil {
		return newConstructionError("block", "is required")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err := c.mineAndPush(ctx, candidate)

	return err
}

// Extend builds a block for record on top of the current tail, mines it and appends it.
func (c *Chain) Extend(ctx context.Context, record Record, creatorID int) (*Block, error) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	candidate, err := NewBlock(record, creatorID, c.Tail().Hash(), now())
	if err != nil {
		return nil, err
	}

	return c.mineAndPush(ctx, candidate)
}

// mineAndPush must be called with writeMu held. It returns a copy of the stored block.
func (c *Chain) mineAndPush(ctx context.Context, candidate *Block) (*Block, error) {
	pow := NewProof(candidate, c.Difficulty())
	pow.MaxAttempts = c.maxAttempts.Load()

	if _, err := pow.Run(ctx); err != nil {
		return nil, err
	}

	stored := *candidate

	c.mu.Lock()
	c.blocks = append(c.blocks, &stored)
	c.mu.Unlock()

	mined := stored

	return &mined, nil
}

// IsValid reports whether every block links to the hash of its predecessor.
func (c *Chain) IsValid() bool {
	return c.FirstInvalid() == -1
}

// FirstInvalid returns the index of the first block whose prev hash does not match
// the hash of the block before it, or -1 if the chain is intact.
func (c *Chain) FirstInvalid() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blockHash := c.blocks[0].Hash()

	for i := 1; i < len(c.blocks); i++ {
		if c.blocks[i].PrevHash != blockHash {
			return i
		}

		blockHash = c.blocks[i].Hash()
	}

	return -1
}

// SetDifficulty changes the difficulty used by future mining runs.
// A run already in progress keeps the difficulty it started with.
func (c *Chain) SetDifficulty(difficulty int) error {
	if err := checkDifficulty(difficulty); err != nil {
		return err
	}

	c.difficulty.Store(int64(difficulty))

	return nil
}

// Difficulty returns the number of leading hex zeros required of newly mined blocks.
func (c *Chain) Difficulty() int {
	return int(c.difficulty.Load())
}

// Len returns the number of blocks including genesis.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.blocks)
}

// Blocks returns copies of all blocks in order, genesis first.
func (c *Chain) Blocks() []Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	blocks := make([]Block, 0, len(c.blocks))
	for _, block := range c.blocks {
		blocks = append(blocks, *block)
	}

	return blocks
}

// Block returns a copy of the block at index.
func (c *Chain) Block(index int) (Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if index < 0 || index >= len(c.blocks) {
		return Block{}, errors.Wrapf(ErrBlockNotFound, "index %d", index)
	}

	return *c.blocks[index], nil
}

// FindBlock returns the index and a copy of the stored block whose hash is hash.
// Every stored block is searched, whether or not its links are intact.
func (c *Chain) FindBlock(hash string) (int, Block, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.blocks) - 1; i >= 0; i-- {
		if c.blocks[i].Hash() == hash {
			return i, *c.blocks[i], nil
		}
	}

	return -1, Block{}, errors.Wrapf(ErrBlockNotFound, "hash %s", hash)
}

// Tail returns a copy of the last block.
func (c *Chain) Tail() Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return *c.blocks[len(c.blocks)-1]
}

func checkDifficulty(difficulty int) error {
	if difficulty < 0 || difficulty > MaxDifficulty {
		return errors.Wrapf(ErrInvalidDifficulty, "%d is outside 0..%d", difficulty, MaxDifficulty)
	}

	return nil
}
