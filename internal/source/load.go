package source

import (
	"bufio"
	"encoding/hex"
	"errors"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var errIsDirectory = errors.New("is a directory")

// Line is one physical line of input.
type Line struct {
	// Number is the 1-based line number.
	Number int

	// Text is the line without its trailing newline.
	Text string
}

// Dataset is the fully loaded content of a Source.
type Dataset struct {
	// Name is the source name.
	Name string

	// Lines holds every line in file order, blank ones included.
	Lines []Line

	// Digest is the hex BLAKE2b-256 digest of the raw source bytes.
	Digest string

	// Compression is the encoding that was decoded.
	Compression Compression
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

type loadOptions struct {
	compression Compression
}

// WithCompression forces a compression instead of detecting it.
func WithCompression(c Compression) LoadOption {
	return func(o *loadOptions) {
		o.compression = c
	}
}

// Load reads src fully into memory.
// Lines may be of any length. A final line without a trailing newline is
// kept; a trailing newline does not produce an extra empty line.
func Load(src Source, opts ...LoadOption) (*Dataset, error) {
	o := loadOptions{compression: CompressionAuto}
	for _, opt := range opts {
		opt(&o)
	}

	rc, err := src.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	hash, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	raw := bufio.NewReader(io.TeeReader(rc, hash))

	compression := o.compression
	if compression == CompressionAuto {
		compression = detectCompression(raw)
	}

	r, release, err := decompressor(raw, compression)
	if err != nil {
		return nil, &FileAccessError{Path: src.Name(), Op: "decompress", Err: err}
	}
	defer release()

	lines, err := readLines(r)
	if err != nil {
		op := "read"
		if compression != CompressionNone {
			op = "decompress"
		}
		return nil, &FileAccessError{Path: src.Name(), Op: op, Err: err}
	}

	// Decoders may stop before the end of the raw stream; the digest covers
	// every byte.
	if _, err := io.Copy(io.Discard, raw); err != nil {
		return nil, &FileAccessError{Path: src.Name(), Op: "read", Err: err}
	}

	return &Dataset{
		Name:        src.Name(),
		Lines:       lines,
		Digest:      hex.EncodeToString(hash.Sum(nil)),
		Compression: compression,
	}, nil
}

// readLines splits r on '\n'.
func readLines(r io.Reader) ([]Line, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	lines := make([]Line, 0)

	for number := 1; ; number++ {
		text, err := br.ReadString('\n')
		if len(text) > 0 {
			lines = append(lines, Line{
				Number: number,
				Text:   strings.TrimSuffix(text, "\n"),
			})
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
