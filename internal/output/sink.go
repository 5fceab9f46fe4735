package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/tympanix/dump-sys-proc/internal/archive"
)

// FilePrefix starts the name of every dump file
const FilePrefix = "dump_sys_proc"

// FileName returns the dump file name for a host at a point in time:
// dump_sys_proc-<hostname>-<YYYYMMDDHHMMSS> plus the compression extension
func FileName(hostname string, t time.Time, format archive.Format) string {
	return fmt.Sprintf("%s-%s-%s%s", FilePrefix, hostname, t.Format("20060102150405"), format.Extension())
}

// Sink is the destination of a dump: a new file or standard output,
// optionally compressed
type Sink struct {
	name       string
	file       *os.File
	compressor io.WriteCloser
	counter    *CountingWriter
}

// CreateFile creates the dump file for hostname in dir, truncating any
// file of the same name
func CreateFile(dir, hostname string, now time.Time, format archive.Format) (*Sink, error) {
	path := filepath.Join(dir, FileName(hostname, now, format))
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create dump file: %w", err)
	}

	s, err := newSink(path, file, format)
	if err != nil {
		file.Close()
		os.Remove(path)
		return nil, err
	}
	s.file = file
	return s, nil
}

// NewWriterSink writes the dump to w, which is not closed by Close
func NewWriterSink(name string, w io.Writer, format archive.Format) (*Sink, error) {
	return newSink(name, w, format)
}

func newSink(name string, w io.Writer, format archive.Format) (*Sink, error) {
	compressor, err := format.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Sink{
		name:       name,
		compressor: compressor,
		counter:    NewCountingWriter(compressor),
	}, nil
}

// Name returns the file path of the sink, or the name it was given
func (s *Sink) Name() string {
	return s.name
}

func (s *Sink) Write(p []byte) (int, error) {
	return s.counter.Write(p)
}

// BytesWritten returns the number of uncompressed bytes written so far
func (s *Sink) BytesWritten() int64 {
	return s.counter.BytesWritten()
}

// Close flushes the compressor and closes the file, if the sink owns one
func (s *Sink) Close() error {
	err := s.compressor.Close()
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", s.name, err)
	}
	return nil
}
