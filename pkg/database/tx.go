package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// TxRunner executes fn inside a transaction, committing on nil error and
// rolling back otherwise. Services hold a TxRunner rather than the pool so
// tests can substitute a pass-through runner.
type TxRunner func(ctx context.Context, fn func(tx pgx.Tx) error) error

// InTx runs fn inside a transaction on the pool.
func (db *DB) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// PassthroughTx is a TxRunner for tests: it invokes fn with a nil
// transaction and no transactional guarantees.
func PassthroughTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}
