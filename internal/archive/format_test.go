package archive

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestParseCompressionFormat(t *testing.T) {
	tests := []struct {
		input       string
		expected    Format
		expectError bool
	}{
		{"", FormatNone, false},
		{"none", FormatNone, false},
		{"NONE", FormatNone, false},
		{"gzip", FormatGzip, false},
		{"gz", FormatGzip, false},
		{"GZIP", FormatGzip, false},
		{"zstd", FormatZstd, false},
		{"zst", FormatZstd, false},
		{"ZSTD", FormatZstd, false},
		{"zip", "", true},
		{"invalid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			format, err := Parse(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for input %q, but got none", tt.input)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error for input %q: %v", tt.input, err)
				}
				if format != tt.expected {
					t.Errorf("Expected format %q for input %q, but got %q", tt.expected, tt.input, format)
				}
			}
		})
	}
}

func TestCompressionFormatExtension(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatNone, ""},
		{FormatGzip, ".gz"},
		{FormatZstd, ".zst"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			ext := tt.format.Extension()
			if ext != tt.expected {
				t.Errorf("Expected extension %q for format %q, but got %q", tt.expected, tt.format, ext)
			}
		})
	}
}

func TestDetectCompressionFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"dump_sys_proc-host-20240101120000", FormatNone},
		{"dump_sys_proc-host-20240101120000.gz", FormatGzip},
		{"dump_sys_proc-host-20240101120000.zst", FormatZstd},
		{"", FormatNone},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFromFilename(tt.filename); got != tt.expected {
				t.Errorf("Expected format %q for %q, got %q", tt.expected, tt.filename, got)
			}
		})
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	dump := "F /proc/version 0444 5 = \"Linux\"\n" + strings.Repeat("D /sys/x\n", 1000)

	for _, format := range []Format{FormatNone, FormatGzip, FormatZstd} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := format.NewWriter(&buf)
			if err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}
			if _, err := io.WriteString(w, dump); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			if format != FormatNone && buf.Len() >= len(dump) {
				t.Errorf("Expected compressed output smaller than %d bytes, got %d", len(dump), buf.Len())
			}

			r, err := format.NewReader(&buf)
			if err != nil {
				t.Fatalf("NewReader failed: %v", err)
			}
			defer r.Close()
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll failed: %v", err)
			}
			if string(got) != dump {
				t.Errorf("Round trip mismatch: got %d bytes, expected %d", len(got), len(dump))
			}
		})
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := Format("zip").NewWriter(io.Discard); err == nil {
		t.Error("Expected error for unsupported writer format")
	}
	if _, err := Format("zip").NewReader(strings.NewReader("")); err == nil {
		t.Error("Expected error for unsupported reader format")
	}
}
