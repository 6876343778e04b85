package artifact

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupported reports a host value that matches none of the recognized
// media shapes. Callers map it onto their own error taxonomy.
var ErrUnsupported = errors.New("artifact: unsupported media value")

// base64Marker separates a data-URI preamble from its payload.
const base64Marker = "base64,"

// BytesProvider is the capability an opaque host artifact exposes for
// materializing its content. URL-backed host artifacts typically implement
// it by fetching their own URL.
type BytesProvider interface {
	ToBytes() ([]byte, error)
}

// URLSource is optionally implemented by host artifacts that know the URL
// their bytes came from. The encoder uses it only for filename inference.
type URLSource interface {
	SourceURL() string
}

// MediaReference is the tagged union of forms an input media value may take
// at the system boundary. Exactly one variant underlies each value; the
// encoder dispatches by variant rather than re-probing attributes.
type MediaReference interface {
	isMediaReference()
}

// InlineData is media carried inline, decoded from a base64 data URI.
type InlineData struct {
	Bytes    []byte
	MimeType string // may be empty; encoder falls back to operation defaults
}

// RemoteURL is media addressed by URL, fetched synchronously at encode time.
type RemoteURL struct {
	URL string
}

// Handle is an opaque host-side artifact exposing a materialize-to-bytes
// capability, with an optional source URL for filename inference.
type Handle struct {
	Provider  BytesProvider
	SourceURL string
}

// RawBytes is media supplied directly as a byte buffer.
type RawBytes struct {
	Bytes []byte
}

func (InlineData) isMediaReference() {}
func (RemoteURL) isMediaReference()  {}
func (Handle) isMediaReference()     {}
func (RawBytes) isMediaReference()   {}

// FromHostValue normalizes a raw host parameter value into a MediaReference.
//
// All boundary probing happens here, once; downstream code dispatches on the
// returned variant. Recognized shapes, in precedence order:
//
//  1. a mapping with a "value" entry: a base64 data URI decodes to
//     InlineData (MIME type taken from the mapping's "type" entry when
//     present), an http(s) URL becomes RemoteURL, any other string shape is
//     unsupported;
//  2. a value exposing BytesProvider becomes a Handle (with source URL when
//     the value also exposes one);
//  3. a raw []byte becomes RawBytes;
//  4. an Artifact output from an upstream node becomes RemoteURL;
//  5. a MediaReference passes through unchanged.
//
// Anything else fails with ErrUnsupported.
func FromHostValue(v any) (MediaReference, error) {
	switch value := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil value", ErrUnsupported)

	case MediaReference:
		return value, nil

	case map[string]any:
		return fromMapping(value)

	case map[string]string:
		generic := make(map[string]any, len(value))
		for k, val := range value {
			generic[k] = val
		}
		return fromMapping(generic)
	}

	if provider, ok := v.(BytesProvider); ok {
		ref := Handle{Provider: provider}
		if src, ok := v.(URLSource); ok {
			ref.SourceURL = src.SourceURL()
		}
		return ref, nil
	}

	if raw, ok := v.([]byte); ok {
		return RawBytes{Bytes: raw}, nil
	}

	if art, ok := v.(Artifact); ok {
		return RemoteURL{URL: art.ArtifactURL()}, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupported, v)
}

// fromMapping handles dictionary-shaped host values carrying a "value" field
// and an optional "type" field with the MIME type.
func fromMapping(m map[string]any) (MediaReference, error) {
	raw, ok := m["value"]
	if !ok {
		return nil, fmt.Errorf("%w: mapping without value field", ErrUnsupported)
	}
	value, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: mapping value is %T, want string", ErrUnsupported, raw)
	}

	mimeType, _ := m["type"].(string)

	if idx := strings.Index(value, base64Marker); idx != -1 {
		payload := value[idx+len(base64Marker):]
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 payload: %v", ErrUnsupported, err)
		}
		return InlineData{Bytes: decoded, MimeType: mimeType}, nil
	}

	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return RemoteURL{URL: value}, nil
	}

	return nil, fmt.Errorf("%w: unrecognized value format %q", ErrUnsupported, preview(value))
}

// preview truncates a value for inclusion in error messages.
func preview(s string) string {
	const max = 50
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
