package walker

import (
	"bufio"
	"strconv"

	"github.com/tympanix/dump-sys-proc/internal/entry"
)

// recordWriter encodes records onto a buffered sink.
// The first write error sticks and is reported by err.
type recordWriter struct {
	w       *bufio.Writer
	scratch []byte
	failed  error
}

func newRecordWriter(w *bufio.Writer) *recordWriter {
	return &recordWriter{w: w, scratch: make([]byte, 0, 64)}
}

func (r *recordWriter) err() error {
	return r.failed
}

func (r *recordWriter) write(p []byte) {
	if r.failed != nil {
		return
	}
	if _, err := r.w.Write(p); err != nil {
		r.failed = err
	}
}

func (r *recordWriter) writeString(s string) {
	if r.failed != nil {
		return
	}
	if _, err := r.w.WriteString(s); err != nil {
		r.failed = err
	}
}

// head writes "<marker> <path>"
func (r *recordWriter) head(marker byte, path string) {
	r.write([]byte{marker, ' '})
	r.writeString(path)
}

func (r *recordWriter) field(s string) {
	r.write([]byte{' '})
	r.writeString(s)
}

func (r *recordWriter) mode(mode uint32) {
	r.scratch = append(r.scratch[:0], ' ')
	s := strconv.FormatUint(uint64(mode), 8)
	for i := len(s); i < 4; i++ {
		r.scratch = append(r.scratch, '0')
	}
	r.scratch = append(r.scratch, s...)
	r.write(r.scratch)
}

func (r *recordWriter) signed(v int64) {
	r.scratch = strconv.AppendInt(append(r.scratch[:0], ' '), v, 10)
	r.write(r.scratch)
}

func (r *recordWriter) unsigned(v uint64) {
	r.scratch = strconv.AppendUint(append(r.scratch[:0], ' '), v, 10)
	r.write(r.scratch)
}

func (r *recordWriter) end() {
	r.write([]byte{'\n'})
}

// directory writes "D <path>" with an optional open error
func (r *recordWriter) directory(path string, openErr error) {
	r.head('D', path)
	if openErr != nil {
		r.field(entry.ErrorText(openErr))
	}
	r.end()
}

// entry writes the record of a classified entry that is not a directory
// being descended into
func (r *recordWriter) entry(e *entry.Entry) {
	if e.StatErr != nil {
		r.head('?', e.Path)
		r.field(entry.ErrorText(e.StatErr))
		r.end()
		return
	}

	switch e.Kind {
	case entry.KindDirectory:
		r.directory(e.Path, e.OpenErr)

	case entry.KindBlockDevice, entry.KindCharDevice:
		r.head(e.Kind.Marker(), e.Path)
		r.mode(e.Mode)
		r.unsigned(uint64(e.Major))
		r.unsigned(uint64(e.Minor))
		r.end()

	case entry.KindFIFO:
		r.head('F', e.Path)
		r.mode(e.Mode)
		r.end()

	case entry.KindSymlink:
		r.head('L', e.Path)
		if e.OpenErr != nil {
			r.field(entry.ErrorText(e.OpenErr))
		} else {
			r.field(e.Target)
		}
		r.end()

	case entry.KindRegular:
		r.regular(e)

	case entry.KindSocket:
		r.head('S', e.Path)
		r.mode(e.Mode)
		r.unsigned(e.Device)
		r.end()

	default:
		r.head('U', e.Path)
		r.mode(e.Mode)
		r.end()
	}
}

func (r *recordWriter) regular(e *entry.Entry) {
	r.head('F', e.Path)
	r.mode(e.Mode)
	r.signed(e.Size)

	switch {
	case e.OpenErr != nil:
		r.field(entry.ErrorText(e.OpenErr))
		r.end()
	case e.ReadErr != nil:
		r.field("read")
		r.field(entry.ErrorText(e.ReadErr))
		r.end()
	case e.Inline():
		r.writeString(` = "`)
		r.write(e.Content)
		r.writeString("\"\n")
	default:
		r.writeString(" = <<---\n")
		r.write(e.Content)
		r.writeString("\n---\n")
	}
}
