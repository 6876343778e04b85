package lucygen

import (
	"errors"
	"fmt"

	"lucy_nodes/artifact"
	"lucy_nodes/staticfiles"

	"github.com/google/uuid"
)

// OutputFilename generates a collision-resistant name for a generation
// output: "{stem}_{uuid}.{ext}". The UUID token keeps concurrent
// executions from colliding, even across processes sharing the same
// storage directory; a counter would not.
func OutputFilename(stem, extension string) string {
	return fmt.Sprintf("%s_%s.%s", stem, uuid.New(), extension)
}

// DecodeResult persists a provider response as a URL-addressable output
// artifact.
//
// An empty or absent response fails with EMPTY_RESPONSE. Persistence is
// delegated to the store under the operation's collision policy; a name
// collision under the reject policy surfaces as STORAGE_COLLISION. The
// artifact kind comes entirely from the operation spec: image vs video is
// configuration, never inferred from bytes.
func DecodeResult(result *GenerationResult, spec OperationSpec, store staticfiles.Store) (artifact.Artifact, error) {
	op := string(spec.Op)

	if result == nil || len(result.Bytes) == 0 {
		return nil, newError(CodeEmptyResponse, op, "empty response content, no media data received")
	}

	filename := OutputFilename(spec.OutputStem, spec.OutputExtension)

	url, err := store.Save(result.Bytes, filename, spec.CollisionPolicy)
	if err != nil {
		if errors.Is(err, staticfiles.ErrExists) {
			return nil, wrapError(CodeStorageCollision, op,
				fmt.Sprintf("output filename %q already exists", filename), err)
		}
		return nil, wrapError(CodeStorageFailed, op, "failed to persist output", err)
	}

	out, err := artifact.New(spec.OutputKind, url)
	if err != nil {
		return nil, wrapError(CodeStorageFailed, op, "invalid output artifact kind", err)
	}
	return out, nil
}
