package ledger

import (
	"context"
	"log"
	"time"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"github.com/thoas/go-funk"

	"github.com/swagftw/pychain/pkg/blockchain"
	"github.com/swagftw/pychain/types"
)

// Options tunes how the service drives the chain.
type Options struct {
	// MiningTimeout cancels a single append once exceeded, zero means no timeout.
	MiningTimeout time.Duration
}

type service struct {
	chain *blockchain.Chain
	opts  Options
}

func (s service) GetBlocks(ctx context.Context) (*types.Blockchain, error) {
	difficulty := s.chain.Difficulty()
	blocks := s.chain.Blocks()

	resp := &types.Blockchain{
		Blocks:     make([]*types.Block, 0, len(blocks)),
		Difficulty: difficulty,
	}

	for i := range blocks {
		dto, err := toDTO(i, &blocks[i], difficulty)
		if err != nil {
			return nil, err
		}

		resp.Blocks = append(resp.Blocks, dto)
	}

	return resp, nil
}

func (s service) GetBlock(ctx context.Context, hash string) (*types.Block, error) {
	index, block, err := s.chain.FindBlock(hash)
	if err != nil {
		return nil, err
	}

	return toDTO(index, &block, s.chain.Difficulty())
}

func (s service) GetRecords(ctx context.Context, party string) ([]*types.Block, error) {
	if party == "" {
		return nil, types.ErrPartyRequired
	}

	chain, err := s.GetBlocks(ctx)
	if err != nil {
		return nil, err
	}

	// genesis carries no transfer
	records := funk.Filter(chain.Blocks[1:], func(block *types.Block) bool {
		return block.Sender == party || block.Receiver == party
	}).([]*types.Block)

	return records, nil
}

func (s service) AddRecord(ctx context.Context, request *types.AddRecord) (*types.Block, error) {
	record, err := blockchain.NewRecord(request.Sender, request.Receiver, request.Amount)
	if err != nil {
		return nil, err
	}

	if s.opts.MiningTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.opts.MiningTimeout)
		defer cancel()
	}

	started := time.Now()

	block, err := s.chain.Extend(ctx, record, request.CreatorID)
	if err != nil {
		log.Println(errors.Wrap(err, "failed to append record"))

		return nil, err
	}

	hash := block.Hash()
	log.Printf("Winning hash %s after %d attempts in %s", hash, block.Nonce+1, time.Since(started))

	index, _, err := s.chain.FindBlock(hash)
	if err != nil {
		return nil, err
	}

	return toDTO(index, block, s.chain.Difficulty())
}

func (s service) Validate(ctx context.Context) (*types.Validation, error) {
	firstInvalid := s.chain.FirstInvalid()
	if firstInvalid != -1 {
		log.Printf("Blockchain is invalid at block %d", firstInvalid)
	}

	return &types.Validation{
		Valid:        firstInvalid == -1,
		Length:       s.chain.Len(),
		FirstInvalid: firstInvalid,
	}, nil
}

func (s service) GetDifficulty(ctx context.Context) (*types.Difficulty, error) {
	return &types.Difficulty{Difficulty: s.chain.Difficulty()}, nil
}

func (s service) SetDifficulty(ctx context.Context, request *types.Difficulty) (*types.Difficulty, error) {
	if err := s.chain.SetDifficulty(request.Difficulty); err != nil {
		return nil, err
	}

	log.Printf("Difficulty set to %d", request.Difficulty)

	return &types.Difficulty{Difficulty: s.chain.Difficulty()}, nil
}

func toDTO(index int, block *blockchain.Block, difficulty int) (*types.Block, error) {
	dto := new(types.Block)

	err := copier.Copy(dto, block)
	if err != nil {
		return nil, types.ErrCopy
	}

	dto.Index = index
	dto.Sender = block.Record.Sender
	dto.Receiver = block.Record.Receiver
	dto.Amount = block.Record.Amount
	dto.Hash = block.Hash()
	dto.PoW = blockchain.NewProof(block, difficulty).Validate()

	return dto, nil
}

// NewService creates a chain service that owns chain for its whole lifetime.
func NewService(chain *blockchain.Chain, opts Options) types.ChainService {
	return &service{
		chain: chain,
		opts:  opts,
	}
}
