package staticfiles

import (
	"bytes"
	"image"

	// Decoders registered for dimension probing of stored outputs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ProbeImage inspects data and, when it is a decodable image, returns its
// format name ("png", "jpeg", "webp", ...) and pixel dimensions.
//
// This feeds index metadata only. Outgoing request content types are
// asserted by operation configuration, never sniffed; probing here does not
// change that.
func ProbeImage(data []byte) (format string, width, height int, ok bool) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, false
	}
	return format, cfg.Width, cfg.Height, true
}
