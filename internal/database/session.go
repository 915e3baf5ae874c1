package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithSession acquires a transaction from the pool, runs fn against it and
// commits. Any error returned by fn, or a panic inside it, rolls the
// transaction back. The connection goes back to the pool on every path.
func WithSession(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin session: %w", tx.Error)
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	committed = true
	return nil
}
