// Package staticfiles provides the static file persistence collaborator:
// a Store interface with collision policies, a local filesystem
// implementation that turns byte buffers into retrievable URLs, and an HTTP
// server for exposing the stored files.
package staticfiles

import (
	"context"
	"errors"
)

// ErrExists reports that a filename is already taken and the collision
// policy forbids reusing it.
var ErrExists = errors.New("staticfiles: file already exists")

// CollisionPolicy governs what happens when a file is saved under a name
// that already exists in the store.
type CollisionPolicy int

const (
	// PolicyRejectIfExists fails the save with ErrExists. This is the
	// default: never silently overwrite.
	PolicyRejectIfExists CollisionPolicy = iota

	// PolicyCreateNewAlways derives a fresh name (name_1, name_2, ...)
	// until the save succeeds. The returned URL reflects the actual name.
	PolicyCreateNewAlways
)

// String returns the policy name for logging.
func (p CollisionPolicy) String() string {
	switch p {
	case PolicyRejectIfExists:
		return "reject_if_exists"
	case PolicyCreateNewAlways:
		return "create_new_always"
	default:
		return "unknown"
	}
}

// Store persists byte buffers under generated names and returns URLs where
// they are retrievable. Implementations must be safe for concurrent use.
type Store interface {
	// Save writes data under filename according to the collision policy
	// and returns the public URL of the stored file.
	Save(data []byte, filename string, policy CollisionPolicy) (string, error)
}

// IndexRecord describes a stored file for the artifact index. Width and
// Height are zero for non-image content.
type IndexRecord struct {
	Filename    string
	URL         string
	ContentType string
	SizeBytes   int64
	Width       int
	Height      int
}

// Index receives a record for every successful save. Implementations are
// best-effort: the store logs and ignores index failures rather than
// failing a save whose bytes are already on disk.
type Index interface {
	Record(ctx context.Context, rec IndexRecord) error
}
