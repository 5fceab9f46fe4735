// Package walker drives the depth-first traversal of directory trees and
// serializes every entry it meets as one record on the output sink.
//
// Per-entry failures never stop a walk: they become inline diagnostics in
// the record stream. Only a failing sink aborts.
package walker

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/tympanix/dump-sys-proc/internal/entry"
	"github.com/tympanix/dump-sys-proc/internal/util"
)

// DefaultRoots are walked when no roots are given
var DefaultRoots = []string{"/proc", "/sys"}

// readBatch is the number of names requested from a directory stream at once
const readBatch = 256

// Options configures a Walker
type Options struct {
	Recursive  bool
	MaxDepth   int              // levels below a root to list, 0 for unlimited
	Filter     *util.PathFilter // paths to leave out, nil for none
	FileSystem entry.FileSystem // nil for the local filesystem
	Logger     util.Logger      // nil discards
	OnRecord   func(e *entry.Entry)
}

// Walker serializes directory trees onto a sink
type Walker struct {
	out        *bufio.Writer
	rec        *recordWriter
	classifier *entry.Classifier
	opts       Options
	logger     util.Logger
}

// frame is one open directory on the traversal stack
type frame struct {
	path    string
	dir     entry.Dir
	pending []string
	depth   int
}

// New creates a Walker writing records to out
func New(out io.Writer, opts Options) *Walker {
	logger := opts.Logger
	if logger == nil {
		logger = util.NewQuietLogger()
	}
	bw := bufio.NewWriterSize(out, 64*1024)
	return &Walker{
		out:        bw,
		rec:        newRecordWriter(bw),
		classifier: entry.NewClassifier(opts.FileSystem),
		opts:       opts,
		logger:     logger,
	}
}

// WalkAll walks every root in order, or DefaultRoots when roots is empty
func (w *Walker) WalkAll(roots []string) error {
	if len(roots) == 0 {
		roots = DefaultRoots
	}
	for _, root := range roots {
		if err := w.Walk(root); err != nil {
			return err
		}
	}
	return nil
}

// Walk serializes the tree below root. An unreadable root yields a single
// D record. The returned error is always a sink failure.
func (w *Walker) Walk(root string) error {
	w.logger.VerbosePrintf("Walking %s\n", root)

	var stack []*frame
	defer func() {
		for _, f := range stack {
			f.dir.Close()
		}
	}()

	if f := w.open(root, 0); f != nil {
		stack = append(stack, f)
	}

	for len(stack) > 0 {
		if err := w.rec.err(); err != nil {
			return fmt.Errorf("failed to write dump: %w", err)
		}

		top := stack[len(stack)-1]
		if len(top.pending) == 0 {
			names, err := top.dir.Readdirnames(readBatch)
			if len(names) == 0 {
				if err != nil && !errors.Is(err, io.EOF) {
					w.logger.VerbosePrintf("Error: reading %s: %v\n", top.path, err)
				}
				top.dir.Close()
				stack = stack[:len(stack)-1]
				continue
			}
			top.pending = names
		}

		name := top.pending[0]
		top.pending = top.pending[1:]
		if name == "." || name == ".." {
			continue
		}

		path := entry.JoinPath(top.path, name)
		if w.opts.Filter.Excluded(path) {
			w.logger.VerbosePrintf("Skipping %s\n", path)
			continue
		}

		e := w.classifier.ClassifyPath(path)
		if e.StatErr == nil && e.Kind == entry.KindDirectory && w.descend(top.depth+1) {
			if f := w.open(path, top.depth+1); f != nil {
				stack = append(stack, f)
			}
			continue
		}
		w.emit(&e)
	}

	if err := w.rec.err(); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}

// descend reports whether a directory at depth is entered
func (w *Walker) descend(depth int) bool {
	if !w.opts.Recursive {
		return false
	}
	return w.opts.MaxDepth <= 0 || depth < w.opts.MaxDepth
}

// open starts a frame for path, or emits an unreadable directory record
func (w *Walker) open(path string, depth int) *frame {
	dir, err := w.classifier.FileSystem().OpenDir(path)
	if err != nil {
		w.emit(&entry.Entry{Path: path, Kind: entry.KindDirectory, OpenErr: err})
		return nil
	}
	return &frame{path: path, dir: dir, depth: depth}
}

func (w *Walker) emit(e *entry.Entry) {
	w.rec.entry(e)
	if w.opts.OnRecord != nil {
		w.opts.OnRecord(e)
	}
}
