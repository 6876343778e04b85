package db

import (
	"context"
	"fmt"
	"time"
)

// CleanupResult contains statistics about an index cleanup run.
type CleanupResult struct {
	// ArtifactsDeleted is the number of records removed from artifacts
	ArtifactsDeleted int64
	// Duration is how long the cleanup took
	Duration time.Duration
}

// Cleanup deletes artifact records older than retentionDays and runs
// VACUUM to reclaim disk space. Only the index entries are removed; the
// stored files themselves belong to the static file store.
func (d *Database) Cleanup(retentionDays int) (CleanupResult, error) {
	return d.CleanupWithContext(context.Background(), retentionDays)
}

// CleanupWithContext is the context-aware version of Cleanup. It returns
// early when the context is cancelled, rolling back pending changes.
func (d *Database) CleanupWithContext(ctx context.Context, retentionDays int) (CleanupResult, error) {
	start := time.Now()
	result := CleanupResult{}

	if retentionDays < 0 {
		return result, fmt.Errorf("retentionDays must be non-negative, got %d", retentionDays)
	}

	conn := d.DB()
	if conn == nil {
		return result, fmt.Errorf("database connection is nil")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays).UTC()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM artifacts WHERE created_at < ?", cutoff)
	if err != nil {
		return result, fmt.Errorf("failed to delete expired artifact records: %w", err)
	}
	result.ArtifactsDeleted, _ = res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit cleanup: %w", err)
	}

	// VACUUM cannot run inside a transaction.
	if _, err := conn.ExecContext(ctx, "VACUUM"); err != nil {
		return result, fmt.Errorf("cleanup committed but VACUUM failed: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}
