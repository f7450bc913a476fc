package types

import (
	"context"
	"errors"
)

var ErrCopy = errors.New("error copying struct")
var ErrPartyRequired = errors.New("party is required")

// ChainService provides access to the blockchain.
type ChainService interface {
	GetBlocks(ctx context.Context) (*Blockchain, error)
	GetBlock(ctx context.Context, hash string) (*Block, error)
	GetRecords(ctx context.Context, party string) ([]*Block, error)
	AddRecord(ctx context.Context, request *AddRecord) (*Block, error)
	Validate(ctx context.Context) (*Validation, error)
	GetDifficulty(ctx context.Context) (*Difficulty, error)
	SetDifficulty(ctx context.Context, request *Difficulty) (*Difficulty, error)
}
