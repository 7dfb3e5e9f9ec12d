// Package codec provides stream compression for trace files.
package codec

import (
	"io"
	"path/filepath"
	"strings"
)

// Codec provides compression and decompression functionality.
// Readers and writers never close the stream they wrap; the caller owns it.
type Codec interface {
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it. Close flushes the
	// compressed stream.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// Match returns the codec whose extension matches path, or fallback when
// none does.
func Match(path string, fallback Codec, codecs ...Codec) Codec {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return fallback
	}
	for _, c := range codecs {
		if c.Extension() == ext {
			return c
		}
	}
	return fallback
}
