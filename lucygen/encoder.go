package lucygen

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"lucy_nodes/artifact"
	"lucy_nodes/logging"

	"go.uber.org/zap"
)

// FilePart is the canonical file payload for an outgoing request: the
// multipart part the provider receives under the "data" field.
type FilePart struct {
	Filename    string
	Content     []byte
	ContentType string
}

// EncodeDefaults carry the per-operation fallbacks applied when a media
// reference does not determine its own filename.
//
// ContentType is asserted, not detected: the provider's API distinguishes
// payloads as "image/png" or "video/mp4" by convention, and this encoder
// deliberately preserves that behavior rather than sniffing bytes.
type EncodeDefaults struct {
	Stem        string // e.g. "input"
	Extension   string // e.g. "png"
	ContentType string // e.g. "image/png"
}

// defaultFilename is the fallback name when nothing better can be inferred.
func (d EncodeDefaults) defaultFilename() string {
	return d.Stem + "." + d.Extension
}

// MediaEncoder normalizes MediaReference variants into FileParts.
//
// Thread Safety: MediaEncoder is safe for concurrent use; each encode
// resolves its reference independently.
type MediaEncoder struct {
	client *http.Client
	logger *logging.Logger
}

// NewMediaEncoder creates an encoder. The HTTP client is used only for
// RemoteURL references; pass nil to use http.DefaultClient.
func NewMediaEncoder(client *http.Client, logger *logging.Logger) *MediaEncoder {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &MediaEncoder{
		client: client,
		logger: logger.Named("encoder"),
	}
}

// Encode resolves a media reference to bytes exactly once and wraps them as
// a FilePart.
//
// Per variant:
//   - InlineData: bytes are already decoded; the filename extension comes
//     from the MIME type when present, else the default extension
//   - RemoteURL: fetched synchronously; a non-2xx response or network
//     failure fails with FETCH_FAILED; the filename is inferred from the
//     URL's trailing segment when it has a short extension
//   - Handle: materialized through the provider capability; the source URL,
//     when known, drives the same filename heuristic
//   - RawBytes: used verbatim with the default filename
//
// The resulting content type is always defaults.ContentType (asserted, see
// EncodeDefaults). An empty resolved buffer fails with UNSUPPORTED_MEDIA.
func (e *MediaEncoder) Encode(ctx context.Context, ref artifact.MediaReference, defaults EncodeDefaults) (*FilePart, error) {
	var (
		content  []byte
		filename string
		err      error
	)

	switch v := ref.(type) {
	case artifact.InlineData:
		content = v.Bytes
		filename = defaults.defaultFilename()
		if ext := ExtensionFromMime(v.MimeType); ext != "" {
			filename = defaults.Stem + "." + ext
		}

	case artifact.RemoteURL:
		content, err = e.fetch(ctx, v.URL)
		if err != nil {
			return nil, err
		}
		filename = FilenameFromURL(v.URL, defaults.defaultFilename())

	case artifact.Handle:
		content, err = v.Provider.ToBytes()
		if err != nil {
			return nil, wrapError(CodeUnsupportedMedia, "encode", "failed to materialize artifact bytes", err)
		}
		filename = defaults.defaultFilename()
		if v.SourceURL != "" {
			filename = FilenameFromURL(v.SourceURL, filename)
		}

	case artifact.RawBytes:
		content = v.Bytes
		filename = defaults.defaultFilename()

	default:
		return nil, newError(CodeUnsupportedMedia, "encode", fmt.Sprintf("unsupported media reference %T", ref))
	}

	if len(content) == 0 {
		return nil, newError(CodeUnsupportedMedia, "encode", "media reference resolved to empty content")
	}

	e.logger.Debug("encoded media payload",
		zap.String("filename", filename),
		zap.String("content_type", defaults.ContentType),
		zap.Int("size", len(content)))

	return &FilePart{
		Filename:    filename,
		Content:     content,
		ContentType: defaults.ContentType,
	}, nil
}

// fetch retrieves remote media synchronously. The bytes are fetched once
// per encode and reused for both the file part and filename inference.
func (e *MediaEncoder) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, wrapError(CodeFetchFailed, "encode", "invalid media URL", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, wrapError(CodeFetchFailed, "encode", "failed to fetch media URL", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(CodeFetchFailed, "encode",
			fmt.Sprintf("media fetch returned status %d for %s", resp.StatusCode, url))
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrapError(CodeFetchFailed, "encode", "failed to read media response", err)
	}
	return content, nil
}
