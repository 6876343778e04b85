// Package artifact defines the media values exchanged with the hosting
// node graph: the tagged MediaReference union for input media and the
// URL-backed output artifacts published by generation nodes.
package artifact

import "fmt"

// Kind distinguishes image and video artifacts. The kind of a generation
// output is determined entirely by operation configuration, never inferred
// from the response bytes.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Artifact is a URL-addressable media value handed back to the host.
// Exactly two implementations exist: ImageURLArtifact and VideoURLArtifact.
type Artifact interface {
	// ArtifactURL returns the URL where the media is retrievable.
	ArtifactURL() string

	// ArtifactKind reports whether the artifact is an image or a video.
	ArtifactKind() Kind
}

// ImageURLArtifact is an image output persisted to static file storage.
type ImageURLArtifact struct {
	URL string
}

func (a ImageURLArtifact) ArtifactURL() string { return a.URL }
func (a ImageURLArtifact) ArtifactKind() Kind  { return KindImage }

// VideoURLArtifact is a video output persisted to static file storage.
type VideoURLArtifact struct {
	URL string
}

func (a VideoURLArtifact) ArtifactURL() string { return a.URL }
func (a VideoURLArtifact) ArtifactKind() Kind  { return KindVideo }

// New wraps a URL in the artifact type for the given kind.
func New(kind Kind, url string) (Artifact, error) {
	switch kind {
	case KindImage:
		return ImageURLArtifact{URL: url}, nil
	case KindVideo:
		return VideoURLArtifact{URL: url}, nil
	default:
		return nil, fmt.Errorf("artifact: unknown kind %q", kind)
	}
}

var (
	_ Artifact = ImageURLArtifact{}
	_ Artifact = VideoURLArtifact{}
)
