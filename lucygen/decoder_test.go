package lucygen

import (
	"errors"
	"strings"
	"testing"

	"lucy_nodes/staticfiles"
)

// fakeStore records saves and returns a canned URL or error.
type fakeStore struct {
	savedData   []byte
	savedName   string
	savedPolicy staticfiles.CollisionPolicy
	url         string
	err         error
}

func (f *fakeStore) Save(data []byte, filename string, policy staticfiles.CollisionPolicy) (string, error) {
	f.savedData = data
	f.savedName = filename
	f.savedPolicy = policy
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

func TestOutputFilename_Format(t *testing.T) {
	name := OutputFilename("decart_t2i_output", "png")

	if !strings.HasPrefix(name, "decart_t2i_output_") {
		t.Errorf("name = %q, want decart_t2i_output_ prefix", name)
	}
	if !strings.HasSuffix(name, ".png") {
		t.Errorf("name = %q, want .png suffix", name)
	}
}

func TestOutputFilename_Unique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		name := OutputFilename("decart_output", "mp4")
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate output filename %q after %d generations", name, i)
		}
		seen[name] = struct{}{}
	}
}

func TestDecodeResult_SavesUnderSpecPolicy(t *testing.T) {
	spec := mustSpec(t, OpTextToImage)
	store := &fakeStore{url: "http://localhost:8088/static/decart_t2i_output_x.png"}

	art, err := DecodeResult(&GenerationResult{Bytes: []byte("png")}, spec, store)
	if err != nil {
		t.Fatalf("DecodeResult() error = %v", err)
	}

	if art.ArtifactURL() != store.url {
		t.Errorf("ArtifactURL = %q, want store URL", art.ArtifactURL())
	}
	if string(art.ArtifactKind()) != "image" {
		t.Errorf("ArtifactKind = %q, want image", art.ArtifactKind())
	}
	if store.savedPolicy != staticfiles.PolicyCreateNewAlways {
		t.Errorf("policy = %v, want create_new_always", store.savedPolicy)
	}
	if !strings.HasPrefix(store.savedName, "decart_t2i_output_") || !strings.HasSuffix(store.savedName, ".png") {
		t.Errorf("saved name = %q", store.savedName)
	}
}

func TestDecodeResult_VideoEditRejectsCollisions(t *testing.T) {
	spec := mustSpec(t, OpVideoEdit)
	store := &fakeStore{url: "u"}

	if _, err := DecodeResult(&GenerationResult{Bytes: []byte("mp4")}, spec, store); err != nil {
		t.Fatalf("DecodeResult() error = %v", err)
	}
	if store.savedPolicy != staticfiles.PolicyRejectIfExists {
		t.Errorf("policy = %v, want reject_if_exists", store.savedPolicy)
	}
}

func TestDecodeResult_EmptyResponse(t *testing.T) {
	spec := mustSpec(t, OpTextToVideo)
	store := &fakeStore{url: "u"}

	for _, result := range []*GenerationResult{nil, {}, {Bytes: []byte{}}} {
		_, err := DecodeResult(result, spec, store)
		if !IsCode(err, CodeEmptyResponse) {
			t.Errorf("DecodeResult(%v) error = %v, want %s", result, err, CodeEmptyResponse)
		}
	}
	if store.savedName != "" {
		t.Error("nothing should be persisted for an empty response")
	}
}

func TestDecodeResult_StorageErrors(t *testing.T) {
	spec := mustSpec(t, OpVideoEdit)

	collision := &fakeStore{err: staticfiles.ErrExists}
	_, err := DecodeResult(&GenerationResult{Bytes: []byte("x")}, spec, collision)
	if !IsCode(err, CodeStorageCollision) {
		t.Errorf("collision error = %v, want %s", err, CodeStorageCollision)
	}
	if !errors.Is(err, staticfiles.ErrExists) {
		t.Errorf("collision error should wrap ErrExists, got %v", err)
	}

	broken := &fakeStore{err: errors.New("disk full")}
	_, err = DecodeResult(&GenerationResult{Bytes: []byte("x")}, spec, broken)
	if !IsCode(err, CodeStorageFailed) {
		t.Errorf("storage error = %v, want %s", err, CodeStorageFailed)
	}
}
