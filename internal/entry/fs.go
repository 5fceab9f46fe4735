package entry

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// Stat is the subset of lstat output needed to render an entry
type Stat struct {
	Mode uint32 // full st_mode, type and permission bits
	Size int64
	Dev  uint64
	Rdev uint64
}

// Kind maps the file type bits of the mode to a Kind
func (s Stat) Kind() Kind {
	switch s.Mode & unix.S_IFMT {
	case unix.S_IFDIR:
		return KindDirectory
	case unix.S_IFREG:
		return KindRegular
	case unix.S_IFLNK:
		return KindSymlink
	case unix.S_IFBLK:
		return KindBlockDevice
	case unix.S_IFCHR:
		return KindCharDevice
	case unix.S_IFIFO:
		return KindFIFO
	case unix.S_IFSOCK:
		return KindSocket
	default:
		return KindUnknown
	}
}

// Perm returns the low 12 bits of the mode (permissions, setuid, setgid, sticky)
func (s Stat) Perm() uint32 {
	return s.Mode & 07777
}

// Dir is an open directory stream.
// Readdirnames follows the os.File contract: names come in the order the
// directory yields them, without "." and "..", and io.EOF ends the stream.
type Dir interface {
	Readdirnames(n int) ([]string, error)
	Close() error
}

// FileSystem abstracts the calls the classifier and walker make, so that
// trees can be served from memory in tests
type FileSystem interface {
	// Lstat returns file info without following symlinks.
	Lstat(path string) (Stat, error)

	// Readlink returns the target of a symlink.
	Readlink(path string) (string, error)

	// Open opens a regular file for reading without blocking on special files.
	Open(path string) (io.ReadCloser, error)

	// OpenDir opens a directory stream. It fails when path is not a directory.
	OpenDir(path string) (Dir, error)
}

// Local is the FileSystem of the running host
type Local struct{}

func (Local) Lstat(path string) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Stat{}, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return Stat{
		Mode: uint32(st.Mode),
		Size: int64(st.Size),
		Dev:  uint64(st.Dev),
		Rdev: uint64(st.Rdev),
	}, nil
}

func (Local) Readlink(path string) (string, error) {
	return os.Readlink(path)
}

func (Local) Open(path string) (io.ReadCloser, error) {
	fd, err := openRetry(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return &fdFile{fd: fd, path: path}, nil
}

func (Local) OpenDir(path string) (Dir, error) {
	fd, err := openRetry(path, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), nil
}

func openRetry(path string, flags int) (int, error) {
	for {
		fd, err := unix.Open(path, flags, 0)
		if err != unix.EINTR {
			return fd, err
		}
	}
}

// fdFile reads a raw descriptor with read(2), bypassing the runtime poller
// so that O_NONBLOCK is honoured as-is
type fdFile struct {
	fd   int
	path string
}

func (f *fdFile) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(f.fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, &os.PathError{Op: "read", Path: f.path, Err: err}
		}
		if n == 0 && len(p) > 0 {
			return 0, io.EOF
		}
		return n, nil
	}
}

func (f *fdFile) Close() error {
	return unix.Close(f.fd)
}
