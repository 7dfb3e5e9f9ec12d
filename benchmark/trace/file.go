package trace

import (
	"fmt"
	"io"
	"os"

	"github.com/discochess/evictcache/internal/codec"
	"github.com/discochess/evictcache/internal/codec/gzipcodec"
	"github.com/discochess/evictcache/internal/codec/noopcodec"
	"github.com/discochess/evictcache/internal/codec/zstdcodec"
)

// CodecFor returns the codec matching the extension of path: ".zst" for
// zstd, ".gz" for gzip, anything else for plain text.
func CodecFor(path string) codec.Codec {
	return codec.Match(path, noopcodec.New(), zstdcodec.New(), gzipcodec.New())
}

// Open opens a trace file and returns its decompressed contents.
// Closing the result closes the file.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	r, err := CodecFor(path).Reader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decompressing %s: %w", path, err)
	}
	return &fileReader{ReadCloser: r, f: f}, nil
}

type fileReader struct {
	io.ReadCloser
	f *os.File
}

func (r *fileReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ReadFile parses the trace file at path.
func ReadFile(path string) ([]Op, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r)
}

// WriteFile writes ops to path, compressed according to its extension.
func WriteFile(path string, ops []Op) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating trace: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w, err := CodecFor(path).Writer(f)
	if err != nil {
		return fmt.Errorf("compressing %s: %w", path, err)
	}
	if err := Write(w, ops); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
