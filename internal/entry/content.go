package entry

import (
	"errors"

	"golang.org/x/sys/unix"
)

// MaxContentRead is the number of bytes read from a regular file.
// Only the first MaxContentRead bytes of a file are ever captured.
const MaxContentRead = 4096

// InlineLimit is the exclusive upper bound on content length for the
// quoted single-line form
const InlineLimit = 100

// TrimContent strips trailing newlines and spaces, then leading newlines.
// The returned slice aliases buf.
func TrimContent(buf []byte) []byte {
	n := len(buf)
	for n > 0 && (buf[n-1] == '\n' || buf[n-1] == ' ') {
		n--
	}
	start := 0
	for start < n && buf[start] == '\n' {
		start++
	}
	return buf[start:n]
}

// IsInline reports whether content is short enough and free of control
// and non-ASCII bytes, so it can be written between quotes on one line
func IsInline(content []byte) bool {
	if len(content) >= InlineLimit {
		return false
	}
	return !hasSpecial(content)
}

func hasSpecial(content []byte) bool {
	for _, c := range content {
		if (c < ' ' && c != '\t') || c > '~' {
			return true
		}
	}
	return false
}

// ErrorText returns the errno name carried by err (ENOENT, EACCES, ...),
// or the error message when no errno is available
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var errno unix.Errno
	if errors.As(err, &errno) {
		if name := unix.ErrnoName(errno); name != "" {
			return name
		}
	}
	return err.Error()
}
