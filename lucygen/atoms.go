// atoms.go contains pure filename helpers with no dependencies.
package lucygen

import (
	"net/url"
	"path"
	"strings"
)

// maxInferredExtension is the longest filename extension accepted when
// inferring names from URLs. Longer "extensions" (e.g. a trailing path id)
// are treated as not being extensions at all.
const maxInferredExtension = 4

// FilenameFromURL derives an upload filename from the trailing path segment
// of rawURL. The segment is used only when it carries a short extension
// (≤ 4 characters); anything else falls back to the supplied default.
//
// Example:
//
//	FilenameFromURL("https://cdn.example.com/a/cat.webp", "input.png") // "cat.webp"
//	FilenameFromURL("https://cdn.example.com/a/abc123", "input.png")   // "input.png"
func FilenameFromURL(rawURL, fallback string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}

	base := path.Base(parsed.Path)
	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		return fallback
	}

	ext := base[dot+1:]
	if len(ext) == 0 || len(ext) > maxInferredExtension {
		return fallback
	}
	return base
}

// ExtensionFromMime returns the subtype of a MIME type, used verbatim as a
// filename extension ("image/jpeg" yields "jpeg"). Returns "" when the
// value carries no subtype.
func ExtensionFromMime(mimeType string) string {
	idx := strings.Index(mimeType, "/")
	if idx < 0 || idx == len(mimeType)-1 {
		return ""
	}
	sub := mimeType[idx+1:]
	// Strip any parameters ("image/png; charset=binary").
	if semi := strings.Index(sub, ";"); semi != -1 {
		sub = strings.TrimSpace(sub[:semi])
	}
	return sub
}
