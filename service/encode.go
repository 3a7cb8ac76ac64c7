package service

import (
	"encoding/base64"
	"strings"
)

// encodeChunkSize bounds how much image data is pushed through the encoder
// at once. Whole-buffer conversion is not safe for multi-megabyte images.
const encodeChunkSize = 8 * 1024

// EncodeBase64Chunked base64-encodes data in fixed-size chunks through a
// streaming encoder. The output is identical to a single-shot encode.
func EncodeBase64Chunked(data []byte) string {
	var b strings.Builder
	b.Grow(base64.StdEncoding.EncodedLen(len(data)))

	enc := base64.NewEncoder(base64.StdEncoding, &b)
	for off := 0; off < len(data); off += encodeChunkSize {
		end := off + encodeChunkSize
		if end > len(data) {
			end = len(data)
		}
		// strings.Builder never returns a write error
		_, _ = enc.Write(data[off:end])
	}
	_ = enc.Close()

	return b.String()
}

// ImageDataURI wraps image bytes as an embeddable data URI.
func ImageDataURI(data []byte) string {
	return "data:image/jpeg;base64," + EncodeBase64Chunked(data)
}

// PNGDataURI wraps PNG bytes as an embeddable data URI.
func PNGDataURI(data []byte) string {
	return "data:image/png;base64," + EncodeBase64Chunked(data)
}
