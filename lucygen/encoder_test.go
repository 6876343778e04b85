package lucygen

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lucy_nodes/artifact"
)

var pngDefaults = EncodeDefaults{Stem: "input", Extension: "png", ContentType: "image/png"}

type errProvider struct{}

func (errProvider) ToBytes() ([]byte, error) { return nil, errors.New("host storage unavailable") }

func TestEncode_InlineData(t *testing.T) {
	encoder := NewMediaEncoder(nil, nil)

	part, err := encoder.Encode(context.Background(), artifact.InlineData{
		Bytes:    []byte{1, 2, 3},
		MimeType: "image/jpeg",
	}, pngDefaults)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	// The MIME subtype is used verbatim as the extension.
	if part.Filename != "input.jpeg" {
		t.Errorf("Filename = %q, want input.jpeg", part.Filename)
	}
	if part.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want asserted default image/png", part.ContentType)
	}
	if len(part.Content) != 3 {
		t.Errorf("len(Content) = %d, want 3", len(part.Content))
	}
}

func TestEncode_InlineDataWithoutMime(t *testing.T) {
	encoder := NewMediaEncoder(nil, nil)

	part, err := encoder.Encode(context.Background(), artifact.InlineData{Bytes: []byte{1}}, pngDefaults)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if part.Filename != "input.png" {
		t.Errorf("Filename = %q, want default input.png", part.Filename)
	}
}

func TestEncode_RemoteURL(t *testing.T) {
	content := []byte("webp-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/media/cat.webp" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write(content)
	}))
	defer server.Close()

	encoder := NewMediaEncoder(server.Client(), nil)

	part, err := encoder.Encode(context.Background(), artifact.RemoteURL{URL: server.URL + "/media/cat.webp"}, pngDefaults)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if part.Filename != "cat.webp" {
		t.Errorf("Filename = %q, want cat.webp inferred from URL", part.Filename)
	}
	if string(part.Content) != string(content) {
		t.Errorf("Content = %q, want fetched body", part.Content)
	}
}

func TestEncode_RemoteURLWithoutUsableExtension(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer server.Close()

	encoder := NewMediaEncoder(server.Client(), nil)

	part, err := encoder.Encode(context.Background(), artifact.RemoteURL{URL: server.URL + "/assets/f81d4fae7dec"}, pngDefaults)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if part.Filename != "input.png" {
		t.Errorf("Filename = %q, want default when URL lacks a short extension", part.Filename)
	}
}

func TestEncode_RemoteURLFetchFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	encoder := NewMediaEncoder(server.Client(), nil)

	_, err := encoder.Encode(context.Background(), artifact.RemoteURL{URL: server.URL + "/missing.png"}, pngDefaults)
	if !IsCode(err, CodeFetchFailed) {
		t.Errorf("non-2xx fetch error = %v, want %s", err, CodeFetchFailed)
	}

	// Connection-level failure maps to the same code.
	closed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	closed.Close()
	_, err = encoder.Encode(context.Background(), artifact.RemoteURL{URL: closed.URL + "/x.png"}, pngDefaults)
	if !IsCode(err, CodeFetchFailed) {
		t.Errorf("network fetch error = %v, want %s", err, CodeFetchFailed)
	}
}

func TestEncode_Handle(t *testing.T) {
	encoder := NewMediaEncoder(nil, nil)

	part, err := encoder.Encode(context.Background(), artifact.Handle{
		Provider:  bytesProvider([]byte("frame")),
		SourceURL: "https://host.example.com/notes/image.jpeg",
	}, pngDefaults)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if part.Filename != "image.jpeg" {
		t.Errorf("Filename = %q, want image.jpeg from source URL", part.Filename)
	}
	if string(part.Content) != "frame" {
		t.Errorf("Content = %q, want materialized bytes", part.Content)
	}
}

func TestEncode_HandleMaterializeFailure(t *testing.T) {
	encoder := NewMediaEncoder(nil, nil)

	_, err := encoder.Encode(context.Background(), artifact.Handle{Provider: errProvider{}}, pngDefaults)
	if !IsCode(err, CodeUnsupportedMedia) {
		t.Errorf("materialize error = %v, want %s", err, CodeUnsupportedMedia)
	}
}

func TestEncode_RawBytes(t *testing.T) {
	encoder := NewMediaEncoder(nil, nil)

	defaults := EncodeDefaults{Stem: "input", Extension: "mp4", ContentType: "video/mp4"}
	part, err := encoder.Encode(context.Background(), artifact.RawBytes{Bytes: []byte("mp4")}, defaults)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if part.Filename != "input.mp4" {
		t.Errorf("Filename = %q, want input.mp4", part.Filename)
	}
	if part.ContentType != "video/mp4" {
		t.Errorf("ContentType = %q, want video/mp4", part.ContentType)
	}
}

func TestEncode_EmptyContent(t *testing.T) {
	encoder := NewMediaEncoder(nil, nil)

	_, err := encoder.Encode(context.Background(), artifact.RawBytes{}, pngDefaults)
	if !IsCode(err, CodeUnsupportedMedia) {
		t.Errorf("empty content error = %v, want %s", err, CodeUnsupportedMedia)
	}
}

// bytesProvider adapts a byte slice to the BytesProvider capability.
type bytesProvider []byte

func (b bytesProvider) ToBytes() ([]byte, error) { return b, nil }
