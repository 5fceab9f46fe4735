package testutil

import (
	"io"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/tympanix/dump-sys-proc/internal/entry"
	"golang.org/x/sys/unix"
)

// Node is one entry of a MemFS tree
type Node struct {
	Stat     entry.Stat
	Content  []byte // regular files, returned by the first Read
	Target   string // symlinks
	children []string
}

// MemFS is an in-memory entry.FileSystem. Children are listed in insertion
// order, and every call can be made to fail for a given path.
// It also tracks open handles so tests can assert nothing leaks.
type MemFS struct {
	mu    sync.Mutex
	nodes map[string]*Node

	LstatErr    map[string]error
	ReadlinkErr map[string]error
	OpenErr     map[string]error
	ReadErr     map[string]error
	OpenDirErr  map[string]error
	ReadDirErr  map[string]error // returned after the directory's names are listed

	open int
}

// NewMemFS creates a MemFS holding an empty root directory at root
func NewMemFS(root string) *MemFS {
	m := &MemFS{
		nodes:       make(map[string]*Node),
		LstatErr:    make(map[string]error),
		ReadlinkErr: make(map[string]error),
		OpenErr:     make(map[string]error),
		ReadErr:     make(map[string]error),
		OpenDirErr:  make(map[string]error),
		ReadDirErr:  make(map[string]error),
	}
	m.nodes[root] = &Node{Stat: entry.Stat{Mode: unix.S_IFDIR | 0755}}
	return m
}

func (m *MemFS) add(p string, n *Node) *Node {
	m.mu.Lock()
	defer m.mu.Unlock()
	parent, name := path.Split(p)
	parent = strings.TrimSuffix(parent, "/")
	if parent == "" {
		parent = "/"
	}
	if pn, ok := m.nodes[parent]; ok {
		pn.children = append(pn.children, name)
	}
	m.nodes[p] = n
	return n
}

// Dir adds a directory
func (m *MemFS) Dir(p string, perm uint32) *Node {
	return m.add(p, &Node{Stat: entry.Stat{Mode: unix.S_IFDIR | perm}})
}

// File adds a regular file whose stat size is the content length
func (m *MemFS) File(p string, perm uint32, content string) *Node {
	return m.VirtualFile(p, perm, int64(len(content)), content)
}

// VirtualFile adds a regular file with an arbitrary stat size, like the
// zero-size files of /proc and /sys
func (m *MemFS) VirtualFile(p string, perm uint32, size int64, content string) *Node {
	return m.add(p, &Node{
		Stat:    entry.Stat{Mode: unix.S_IFREG | perm, Size: size},
		Content: []byte(content),
	})
}

// Symlink adds a symlink pointing to target
func (m *MemFS) Symlink(p, target string) *Node {
	return m.add(p, &Node{
		Stat:   entry.Stat{Mode: unix.S_IFLNK | 0777, Size: int64(len(target))},
		Target: target,
	})
}

// Device adds a block or character device node
func (m *MemFS) Device(p string, typ, perm uint32, major, minor uint32) *Node {
	return m.add(p, &Node{Stat: entry.Stat{Mode: typ | perm, Rdev: unix.Mkdev(major, minor)}})
}

// Special adds a node of any type without payload (FIFO, socket, unknown)
func (m *MemFS) Special(p string, typ, perm uint32, dev uint64) *Node {
	return m.add(p, &Node{Stat: entry.Stat{Mode: typ | perm, Dev: dev}})
}

// OpenHandles returns the number of files and directories currently open
func (m *MemFS) OpenHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *MemFS) lookup(p string) (*Node, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.nodes[p]
	if !ok {
		return nil, unix.ENOENT
	}
	return n, nil
}

func (m *MemFS) Lstat(p string) (entry.Stat, error) {
	if err := m.LstatErr[p]; err != nil {
		return entry.Stat{}, &os.PathError{Op: "lstat", Path: p, Err: err}
	}
	n, err := m.lookup(p)
	if err != nil {
		return entry.Stat{}, &os.PathError{Op: "lstat", Path: p, Err: err}
	}
	return n.Stat, nil
}

func (m *MemFS) Readlink(p string) (string, error) {
	if err := m.ReadlinkErr[p]; err != nil {
		return "", &os.PathError{Op: "readlink", Path: p, Err: err}
	}
	n, err := m.lookup(p)
	if err != nil {
		return "", &os.PathError{Op: "readlink", Path: p, Err: err}
	}
	if n.Stat.Mode&unix.S_IFMT != unix.S_IFLNK {
		return "", &os.PathError{Op: "readlink", Path: p, Err: unix.EINVAL}
	}
	return n.Target, nil
}

func (m *MemFS) Open(p string) (io.ReadCloser, error) {
	if err := m.OpenErr[p]; err != nil {
		return nil, &os.PathError{Op: "open", Path: p, Err: err}
	}
	n, err := m.lookup(p)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: p, Err: err}
	}
	m.mu.Lock()
	m.open++
	m.mu.Unlock()
	return &memFile{fs: m, content: n.Content, readErr: m.ReadErr[p], path: p}, nil
}

func (m *MemFS) OpenDir(p string) (entry.Dir, error) {
	if err := m.OpenDirErr[p]; err != nil {
		return nil, &os.PathError{Op: "open", Path: p, Err: err}
	}
	n, err := m.lookup(p)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: p, Err: err}
	}
	if n.Stat.Mode&unix.S_IFMT != unix.S_IFDIR {
		return nil, &os.PathError{Op: "open", Path: p, Err: unix.ENOTDIR}
	}
	m.mu.Lock()
	m.open++
	m.mu.Unlock()
	names := append([]string(nil), n.children...)
	return &memDir{fs: m, names: names, tailErr: m.ReadDirErr[p]}, nil
}

func (m *MemFS) release() {
	m.mu.Lock()
	m.open--
	m.mu.Unlock()
}

type memFile struct {
	fs      *MemFS
	content []byte
	readErr error
	path    string
	done    bool
	closed  bool
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, &os.PathError{Op: "read", Path: f.path, Err: f.readErr}
	}
	if f.done {
		return 0, io.EOF
	}
	f.done = true
	n := copy(p, f.content)
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (f *memFile) Close() error {
	if !f.closed {
		f.closed = true
		f.fs.release()
	}
	return nil
}

type memDir struct {
	fs      *MemFS
	names   []string
	tailErr error
	closed  bool
}

func (d *memDir) Readdirnames(n int) ([]string, error) {
	if len(d.names) == 0 {
		if d.tailErr != nil {
			return nil, d.tailErr
		}
		return nil, io.EOF
	}
	if n <= 0 || n > len(d.names) {
		n = len(d.names)
	}
	out := d.names[:n]
	d.names = d.names[n:]
	return out, nil
}

func (d *memDir) Close() error {
	if !d.closed {
		d.closed = true
		d.fs.release()
	}
	return nil
}
