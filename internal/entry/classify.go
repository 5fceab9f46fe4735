// Package entry classifies directory entries by POSIX type and gathers the
// metadata needed to render them: mode, device numbers, link target or a
// prefix of the file content.
//
// Classification never fails. Every I/O error is captured on the returned
// Entry so the caller can render it inline and move on.
package entry

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/sys/unix"
)

// Classifier turns directory entries into Entry values
type Classifier struct {
	fs FileSystem
}

// NewClassifier creates a classifier on top of fsys.
// A nil fsys means the local filesystem.
func NewClassifier(fsys FileSystem) *Classifier {
	if fsys == nil {
		fsys = Local{}
	}
	return &Classifier{fs: fsys}
}

// FileSystem returns the filesystem the classifier reads from
func (c *Classifier) FileSystem() FileSystem {
	return c.fs
}

// JoinPath composes parent and name without cleaning, so the rendered path
// keeps the form the root was given in
func JoinPath(parent, name string) string {
	if strings.HasSuffix(parent, "/") {
		return parent + name
	}
	return parent + "/" + name
}

// Classify lstats parent/name and fills in the payload for its kind
func (c *Classifier) Classify(parent, name string) Entry {
	return c.ClassifyPath(JoinPath(parent, name))
}

// ClassifyPath is Classify for an already composed path
func (c *Classifier) ClassifyPath(path string) Entry {
	e := Entry{Path: path}

	st, err := c.fs.Lstat(path)
	if err != nil {
		e.StatErr = err
		return e
	}

	e.Kind = st.Kind()
	e.Mode = st.Perm()

	switch e.Kind {
	case KindRegular:
		c.readContent(&e, st.Size)
	case KindSymlink:
		e.Target, e.OpenErr = c.fs.Readlink(path)
	case KindBlockDevice, KindCharDevice:
		e.Major = unix.Major(st.Rdev)
		e.Minor = unix.Minor(st.Rdev)
	case KindSocket:
		e.Device = st.Dev
	}

	return e
}

// readContent performs one best-effort read of at most MaxContentRead bytes
func (c *Classifier) readContent(e *Entry, statSize int64) {
	e.Size = statSize

	f, err := c.fs.Open(e.Path)
	if err != nil {
		e.OpenErr = err
		return
	}
	defer f.Close()

	buf := make([]byte, MaxContentRead)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		e.ReadErr = err
		return
	}

	if e.Size == 0 {
		e.Size = int64(n)
	}
	e.Content = TrimContent(buf[:n])
}
