// Package lucygen implements the Decart Lucy generation pipeline: media
// payload encoding, request field assembly, the provider HTTP client, and
// response artifact decoding.
//
// The four operation kinds share one pipeline; everything that differs
// between them lives in the OperationSpec table in this file.
package lucygen

import (
	"lucy_nodes/artifact"
	"lucy_nodes/staticfiles"
)

// Operation identifies one of the four Lucy generation operations.
type Operation string

const (
	OpImageToVideo Operation = "image_to_video"
	OpTextToImage  Operation = "text_to_image"
	OpTextToVideo  Operation = "text_to_video"
	OpVideoEdit    Operation = "video_edit"
)

// MediaKind is the kind of input media an operation consumes.
type MediaKind string

const (
	MediaNone  MediaKind = ""
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// Resolution and orientation values accepted by the provider.
const (
	Resolution720p = "720p"
	Resolution480p = "480p"

	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
)

// OperationSpec is the declarative configuration for one operation kind.
// It drives the request builder, the media encoder defaults, the provider
// endpoint, and the output artifact decoding.
type OperationSpec struct {
	Op          Operation
	ModelName   string // Endpoint suffix appended to the base URL
	DisplayName string

	// Input media
	RequiredMedia    MediaKind // MediaNone when the operation is text-only
	InputStem        string    // Default filename stem for the file part
	InputExtension   string    // Default filename extension
	InputContentType string    // Asserted content type for the file part

	// Optional fields
	AllowSeed bool

	// FixedResolution, when non-empty, is always sent and never
	// user-settable; caller-supplied values are ignored. The dev I2V and
	// pro T2I models only support 720p.
	FixedResolution string

	// ResolutionChoices lists user-settable resolutions. Empty together
	// with an empty FixedResolution means the field is never sent.
	ResolutionChoices []string
	DefaultResolution string

	OrientationChoices []string
	DefaultOrientation string

	// Output artifact
	OutputKind      artifact.Kind
	OutputStem      string // Prefix of generated output filenames
	OutputExtension string
	CollisionPolicy staticfiles.CollisionPolicy
}

// operations is the full operation table. Base URL and authentication are
// client-level concerns; everything operation-shaped is here.
var operations = []OperationSpec{
	{
		Op:               OpImageToVideo,
		ModelName:        "lucy-dev-i2v",
		DisplayName:      "Lucy Dev Image to Video",
		RequiredMedia:    MediaImage,
		InputStem:        "input",
		InputExtension:   "png",
		InputContentType: "image/png",
		AllowSeed:        true,
		FixedResolution:  Resolution720p,
		OutputKind:       artifact.KindVideo,
		OutputStem:       "decart_i2v_output",
		OutputExtension:  "mp4",
		CollisionPolicy:  staticfiles.PolicyCreateNewAlways,
	},
	{
		Op:                 OpTextToImage,
		ModelName:          "lucy-pro-t2i",
		DisplayName:        "Lucy Pro Text to Image",
		RequiredMedia:      MediaNone,
		AllowSeed:          true,
		FixedResolution:    Resolution720p,
		OrientationChoices: []string{OrientationLandscape, OrientationPortrait},
		DefaultOrientation: OrientationLandscape,
		OutputKind:         artifact.KindImage,
		OutputStem:         "decart_t2i_output",
		OutputExtension:    "png",
		CollisionPolicy:    staticfiles.PolicyCreateNewAlways,
	},
	{
		Op:                 OpTextToVideo,
		ModelName:          "lucy-pro-t2v",
		DisplayName:        "Lucy Pro Text to Video",
		RequiredMedia:      MediaNone,
		AllowSeed:          true,
		ResolutionChoices:  []string{Resolution720p, Resolution480p},
		DefaultResolution:  Resolution720p,
		OrientationChoices: []string{OrientationLandscape, OrientationPortrait},
		DefaultOrientation: OrientationLandscape,
		OutputKind:         artifact.KindVideo,
		OutputStem:         "decart_t2v_output",
		OutputExtension:    "mp4",
		CollisionPolicy:    staticfiles.PolicyCreateNewAlways,
	},
	{
		Op:               OpVideoEdit,
		ModelName:        "lucy-pro-v2v",
		DisplayName:      "Lucy Video Edit",
		RequiredMedia:    MediaVideo,
		InputStem:        "input",
		InputExtension:   "mp4",
		InputContentType: "video/mp4",
		OutputKind:       artifact.KindVideo,
		OutputStem:       "decart_output",
		OutputExtension:  "mp4",
		CollisionPolicy:  staticfiles.PolicyRejectIfExists,
	},
}

// Operations returns the specs for all four operation kinds, in declaration
// order. The returned slice is a copy.
func Operations() []OperationSpec {
	out := make([]OperationSpec, len(operations))
	copy(out, operations)
	return out
}

// SpecFor returns the spec for op.
func SpecFor(op Operation) (OperationSpec, bool) {
	for _, spec := range operations {
		if spec.Op == op {
			return spec, true
		}
	}
	return OperationSpec{}, false
}

// ParseOperation resolves an operation from either its identifier or its
// provider model name.
func ParseOperation(name string) (Operation, bool) {
	for _, spec := range operations {
		if string(spec.Op) == name || spec.ModelName == name {
			return spec.Op, true
		}
	}
	return "", false
}
