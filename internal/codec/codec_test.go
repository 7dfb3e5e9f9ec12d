package codec_test

import (
	"testing"

	"github.com/discochess/evictcache/internal/codec"
	"github.com/discochess/evictcache/internal/codec/gzipcodec"
	"github.com/discochess/evictcache/internal/codec/noopcodec"
	"github.com/discochess/evictcache/internal/codec/zstdcodec"
)

func TestMatch(t *testing.T) {
	plain := noopcodec.New()
	candidates := []codec.Codec{zstdcodec.New(), gzipcodec.New()}

	tests := []struct {
		path string
		want string
	}{
		{"trace.txt", ""},
		{"trace", ""},
		{"trace.zst", "zst"},
		{"/tmp/traces/web.TRACE.ZST", "zst"},
		{"trace.gz", "gz"},
		{"trace.bz2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := codec.Match(tt.path, plain, candidates...)
			if got.Extension() != tt.want {
				t.Errorf("Match(%q).Extension() = %q, want %q", tt.path, got.Extension(), tt.want)
			}
		})
	}
}
