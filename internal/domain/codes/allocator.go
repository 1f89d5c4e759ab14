package codes

import (
	"context"
	"fmt"
)

type Strategy string

const (
	// StrategyLastRow derives the next code from the newest row.
	StrategyLastRow Strategy = "last-row"
	// StrategyCounter increments a per-entity counter row in the same
	// transaction as the insert.
	StrategyCounter Strategy = "counter"
)

// Sequence is implemented by stores, usually bound to an open transaction.
type Sequence interface {
	// LastCode returns the code of the most recently created row, or "".
	LastCode(ctx context.Context, scheme Scheme) (string, error)
	// IncrementCounter bumps the counter for scheme and returns the new
	// value. A missing counter starts from seed.
	IncrementCounter(ctx context.Context, scheme Scheme, seed int) (int, error)
}

type Allocator struct {
	Strategy Strategy
}

func NewAllocator(strategy string) Allocator {
	if Strategy(strategy) == StrategyCounter {
		return Allocator{Strategy: StrategyCounter}
	}
	return Allocator{Strategy: StrategyLastRow}
}

func (a Allocator) Allocate(ctx context.Context, seq Sequence, scheme Scheme) (string, error) {
	last, err := seq.LastCode(ctx, scheme)
	if err != nil {
		return "", fmt.Errorf("read last %s code: %w", scheme.Entity, err)
	}
	if a.Strategy != StrategyCounter {
		return scheme.Next(last), nil
	}

	seed, _ := scheme.Parse(last)
	n, err := seq.IncrementCounter(ctx, scheme, seed)
	if err != nil {
		return "", fmt.Errorf("increment %s counter: %w", scheme.Entity, err)
	}
	return scheme.Format(n), nil
}
