package transaction

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// Tx abstracts a store transaction so the domain does not depend on sqlx.
type Tx interface {
	// Commit commits the transaction.
	Commit() error
	// Rollback aborts the transaction.
	Rollback() error
}

// Manager starts transactions. Implementations must start them with
// serializable isolation (or an equivalent guarantee).
type Manager interface {
	// Begin starts a new transaction.
	Begin(ctx context.Context) (Tx, error)
}

// ErrSerialization marks a failure that is safe to retry from the start.
var ErrSerialization = errors.New("transaction serialization failure")

// MaxAttempts bounds how often Run retries on ErrSerialization.
const MaxAttempts = 5

type txKey struct{}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// FromContext returns the transaction carried by ctx, if any.
func FromContext(ctx context.Context) (Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(Tx)
	return tx, ok
}

// Run executes fn inside a transaction and commits it. fn receives a context
// carrying the transaction; repositories called with it join the transaction.
// The whole unit is retried when the store reports a serialization failure.
func Run(ctx context.Context, m Manager, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		err = runOnce(ctx, m, fn)
		if err == nil || !errors.Is(err, ErrSerialization) {
			return err
		}
		backoff := time.Duration(attempt*10+rand.IntN(20)) * time.Millisecond
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", MaxAttempts, err)
}

func runOnce(ctx context.Context, m Manager, fn func(ctx context.Context) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		committed = true // a failed commit has already ended the transaction
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}
