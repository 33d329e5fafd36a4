package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var baseSchema string

// migrations[i] moves the ledger from user_version i to i+1.
var migrations = []string{
	baseSchema,
}

// ErrSchemaMismatch reports a ledger written by a newer fcsmerge.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// migrate brings the ledger to len(migrations), tracking progress in SQLite's
// user_version header field.
func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current int
	if err := tx.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("read ledger version: %w", err)
	}
	target := len(migrations)
	switch {
	case current == target:
		return nil
	case current > target:
		return fmt.Errorf("%w: %s is at version %d, this build knows %d", ErrSchemaMismatch, s.path, current, target)
	}

	for v := current; v < target; v++ {
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			return fmt.Errorf("apply ledger migration %d: %w", v+1, err)
		}
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", target)); err != nil {
		return fmt.Errorf("set ledger version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
