package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lucy_nodes/staticfiles"

	"github.com/google/uuid"
)

// ArtifactRecord is a row in the artifacts table: one entry per output
// artifact persisted to static file storage.
type ArtifactRecord struct {
	ID          uuid.UUID // Record identity
	Filename    string    // Filename within the static store (unique)
	URL         string    // Public URL the artifact is retrievable at
	ContentType string    // Detected content type ("" when unknown)
	SizeBytes   int64     // Stored size in bytes
	Width       int       // Pixel width (0 for non-image content)
	Height      int       // Pixel height (0 for non-image content)
	CreatedAt   time.Time // Timestamp when the record was created
}

// ErrNotFound reports a lookup that matched no record.
var ErrNotFound = errors.New("db: artifact record not found")

// Repository provides typed access to the artifacts table.
//
// It doubles as the staticfiles.Index implementation, so a LocalStore can
// record every save directly into the index.
type Repository struct {
	db *Database
}

// NewRepository creates a Repository over an open Database.
func NewRepository(database *Database) *Repository {
	return &Repository{db: database}
}

// InsertArtifact inserts an artifact record, generating its ID when unset.
// Returns the record ID.
func (r *Repository) InsertArtifact(ctx context.Context, record ArtifactRecord) (uuid.UUID, error) {
	if r.db == nil {
		return uuid.Nil, fmt.Errorf("db: database connection is nil")
	}
	if record.Filename == "" {
		return uuid.Nil, fmt.Errorf("db: artifact filename is required")
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	query := `
		INSERT INTO artifacts (id, filename, url, content_type, size_bytes, width, height)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.DB().ExecContext(ctx, query,
		record.ID.String(),
		record.Filename,
		record.URL,
		record.ContentType,
		record.SizeBytes,
		record.Width,
		record.Height,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("db: failed to insert artifact record: %w", err)
	}
	return record.ID, nil
}

// GetArtifactByFilename returns the record stored under filename, or
// ErrNotFound.
func (r *Repository) GetArtifactByFilename(ctx context.Context, filename string) (*ArtifactRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("db: database connection is nil")
	}

	query := `
		SELECT id, filename, url, content_type, size_bytes, width, height, created_at
		FROM artifacts WHERE filename = ?`

	record, err := scanArtifact(r.db.DB().QueryRowContext(ctx, query, filename))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	return record, err
}

// ListArtifacts returns up to limit records, newest first.
func (r *Repository) ListArtifacts(ctx context.Context, limit int) ([]ArtifactRecord, error) {
	if r.db == nil {
		return nil, fmt.Errorf("db: database connection is nil")
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, filename, url, content_type, size_bytes, width, height, created_at
		FROM artifacts ORDER BY created_at DESC, filename DESC LIMIT ?`

	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db: failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var records []ArtifactRecord
	for rows.Next() {
		record, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// Record implements staticfiles.Index: every successful store save lands
// in the artifacts table.
func (r *Repository) Record(ctx context.Context, rec staticfiles.IndexRecord) error {
	_, err := r.InsertArtifact(ctx, ArtifactRecord{
		Filename:    rec.Filename,
		URL:         rec.URL,
		ContentType: rec.ContentType,
		SizeBytes:   rec.SizeBytes,
		Width:       rec.Width,
		Height:      rec.Height,
	})
	return err
}

// scanner abstracts sql.Row and sql.Rows for scanArtifact.
type scanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row scanner) (*ArtifactRecord, error) {
	var (
		record ArtifactRecord
		id     string
	)
	err := row.Scan(&id, &record.Filename, &record.URL, &record.ContentType,
		&record.SizeBytes, &record.Width, &record.Height, &record.CreatedAt)
	if err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("db: malformed artifact id %q: %w", id, err)
	}
	record.ID = parsed
	return &record, nil
}

var _ staticfiles.Index = (*Repository)(nil)
