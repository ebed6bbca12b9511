package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a source's bytes are encoded.
type Compression string

const (
	// CompressionAuto detects the encoding from magic bytes.
	CompressionAuto Compression = "auto"
	// CompressionNone reads the bytes as plain text.
	CompressionNone Compression = "none"
	// CompressionGzip decodes gzip streams.
	CompressionGzip Compression = "gzip"
	// CompressionZstd decodes Zstandard frames.
	CompressionZstd Compression = "zstd"
	// CompressionLZ4 decodes LZ4 frames.
	CompressionLZ4 Compression = "lz4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// Compressions lists the accepted compression names.
func Compressions() []Compression {
	return []Compression{CompressionAuto, CompressionNone, CompressionGzip, CompressionZstd, CompressionLZ4}
}

// ParseCompression validates a compression name.
func ParseCompression(name string) (Compression, error) {
	for _, c := range Compressions() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

// detectCompression inspects the first bytes of r without consuming them.
func detectCompression(r *bufio.Reader) Compression {
	// Peek returns fewer bytes along with an error on short input;
	// whatever was returned is still usable for matching.
	head, _ := r.Peek(len(zstdMagic)) //nolint:errcheck // short reads are expected for tiny inputs
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(head, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// decompressor wraps r according to c. The returned closer releases
// decoder resources but does not close r.
func decompressor(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case CompressionNone, "":
		return r, func() {}, nil
	case CompressionGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return gz, func() { _ = gz.Close() }, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case CompressionLZ4:
		return lz4.NewReader(r), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownCompression, string(c))
	}
}
