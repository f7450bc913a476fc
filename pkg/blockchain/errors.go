package blockchain

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrBlockNotFound     = errors.New("block not found")
	ErrMiningAborted     = errors.New("mining aborted")
)

// ConstructionError is returned when a record or block is built from malformed input.
type ConstructionError struct {
	Field  string
	Reason string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construction error: %s %s", e.Field, e.Reason)
}

func newConstructionError(field, reason string) error {
	return &ConstructionError{Field: field, Reason: reason}
}

// IsConstructionError reports whether the cause of err is a ConstructionError.
func IsConstructionError(err error) bool {
	var ce *ConstructionError

	return errors.As(err, &ce)
}
