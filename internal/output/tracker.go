package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tympanix/dump-sys-proc/internal/entry"
	"github.com/tympanix/dump-sys-proc/internal/util"
)

// SnapshotTracker counts the records of a dump and reports a summary
type SnapshotTracker struct {
	target      string
	startTime   time.Time
	endTime     time.Time
	records     int
	failed      int
	byMarker    map[byte]int
	mu          sync.Mutex
	logger      util.Logger
	quietMode   bool
	verboseMode bool
}

func NewSnapshotTracker(target string, logger util.Logger, quietMode, verboseMode bool) *SnapshotTracker {
	return &SnapshotTracker{
		target:      target,
		startTime:   time.Now(),
		byMarker:    make(map[byte]int),
		logger:      logger,
		quietMode:   quietMode,
		verboseMode: verboseMode,
	}
}

func (t *SnapshotTracker) PrintHeader(roots []string) {
	if t.quietMode || !t.verboseMode {
		return
	}
	t.logger.Printf("Dumping %s to %s\n", strings.Join(roots, " "), t.target)
}

// Record counts one written record
func (t *SnapshotTracker) Record(e *entry.Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.records++
	marker := e.Kind.Marker()
	if e.StatErr != nil {
		marker = '?'
	}
	t.byMarker[marker]++

	if !e.Failed() {
		return
	}
	t.failed++
	if t.verboseMode && !t.quietMode {
		t.logger.Printf("Error: %s: %s\n", e.Path, entry.ErrorText(firstErr(e)))
	}
}

// Records returns the number of records counted so far
func (t *SnapshotTracker) Records() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.records
}

// Failed returns the number of records carrying an error
func (t *SnapshotTracker) Failed() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

// PrintSummary reports the totals of the dump. bytesWritten is the size of
// the uncompressed record stream.
func (t *SnapshotTracker) PrintSummary(bytesWritten int64) {
	t.endTime = time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.quietMode || !t.verboseMode {
		return
	}

	elapsed := t.endTime.Sub(t.startTime)

	summary := fmt.Sprintf("Entries dumped: %d", t.records)
	if t.failed > 0 {
		summary += fmt.Sprintf(", errors: %d", t.failed)
	}
	summary += fmt.Sprintf(", size: %s", formatBytes(bytesWritten))
	summary += fmt.Sprintf(", time: %s", formatDuration(elapsed))
	t.logger.Println(summary)

	markers := make([]string, 0, len(t.byMarker))
	for m, n := range t.byMarker {
		markers = append(markers, fmt.Sprintf("%c=%d", m, n))
	}
	sort.Strings(markers)
	t.logger.Printf("Records by type: %s\n", strings.Join(markers, " "))
}

func firstErr(e *entry.Entry) error {
	switch {
	case e.StatErr != nil:
		return e.StatErr
	case e.OpenErr != nil:
		return e.OpenErr
	default:
		return e.ReadErr
	}
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// CountingWriter counts the bytes written through it
type CountingWriter struct {
	writer       io.Writer
	bytesWritten int64
	mu           sync.Mutex
}

func NewCountingWriter(writer io.Writer) *CountingWriter {
	return &CountingWriter{writer: writer}
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	n, err := cw.writer.Write(p)
	cw.mu.Lock()
	cw.bytesWritten += int64(n)
	cw.mu.Unlock()
	return n, err
}

func (cw *CountingWriter) BytesWritten() int64 {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.bytesWritten
}
