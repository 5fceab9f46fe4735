package archive

import (
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format represents the compression format of a dump file
type Format string

const (
	FormatNone Format = "none"
	FormatGzip Format = "gzip"
	FormatZstd Format = "zstd"
)

// String returns the string representation of the compression format
func (f Format) String() string {
	return string(f)
}

// Extension returns the file extension appended to the dump file name
func (f Format) Extension() string {
	switch f {
	case FormatGzip:
		return ".gz"
	case FormatZstd:
		return ".zst"
	default:
		return ""
	}
}

// NewWriter wraps w so that everything written is compressed.
// Closing the returned writer flushes the compressor but leaves w open.
func (f Format) NewWriter(w io.Writer) (io.WriteCloser, error) {
	switch f {
	case FormatNone, "":
		return nopWriteCloser{w}, nil
	case FormatGzip:
		gzipWriter, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip writer: %w", err)
		}
		return gzipWriter, nil
	case FormatZstd:
		zstdWriter, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zstdWriter, nil
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", f)
	}
}

// NewReader wraps r so that a dump written with NewWriter reads back as text
func (f Format) NewReader(r io.Reader) (io.ReadCloser, error) {
	switch f {
	case FormatNone, "":
		return io.NopCloser(r), nil
	case FormatGzip:
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzipReader, nil
	case FormatZstd:
		zstdReader, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return zstdReader.IOReadCloser(), nil
	default:
		return nil, fmt.Errorf("unsupported compression format: %s", f)
	}
}

// Parse parses a string into a Format
func Parse(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return FormatNone, nil
	case "gzip", "gz":
		return FormatGzip, nil
	case "zstd", "zst":
		return FormatZstd, nil
	default:
		return "", fmt.Errorf("unsupported compression format '%s': must be one of: none, gzip, zstd", s)
	}
}

// DetectFromFilename detects the compression format from a dump file name
func DetectFromFilename(filename string) Format {
	if strings.HasSuffix(filename, ".zst") {
		return FormatZstd
	}
	if strings.HasSuffix(filename, ".gz") {
		return FormatGzip
	}
	return FormatNone
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
