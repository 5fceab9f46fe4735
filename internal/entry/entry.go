package entry

// Kind is the POSIX type of a directory entry
type Kind int

const (
	KindUnknown Kind = iota
	KindDirectory
	KindRegular
	KindSymlink
	KindBlockDevice
	KindCharDevice
	KindFIFO
	KindSocket
)

// String returns a lowercase name for the kind
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindRegular:
		return "regular"
	case KindSymlink:
		return "symlink"
	case KindBlockDevice:
		return "block device"
	case KindCharDevice:
		return "char device"
	case KindFIFO:
		return "fifo"
	case KindSocket:
		return "socket"
	default:
		return "unknown"
	}
}

// Marker returns the record marker for the kind.
// FIFOs and regular files share the F marker.
func (k Kind) Marker() byte {
	switch k {
	case KindDirectory:
		return 'D'
	case KindRegular, KindFIFO:
		return 'F'
	case KindSymlink:
		return 'L'
	case KindBlockDevice:
		return 'B'
	case KindCharDevice:
		return 'C'
	case KindSocket:
		return 'S'
	default:
		return 'U'
	}
}

// Entry describes one classified directory entry.
// Only the fields relevant to Kind are populated.
type Entry struct {
	Path string
	Kind Kind
	Mode uint32 // permission bits, low 12 bits of st_mode
	Size int64  // declared size, regular files only

	Major  uint32 // device nodes
	Minor  uint32 // device nodes
	Device uint64 // raw st_dev, sockets

	Target  string // symlinks
	Content []byte // trimmed content prefix, regular files

	StatErr error // lstat failed, nothing else is valid
	OpenErr error // open (regular) or readlink (symlink) failed
	ReadErr error // read of an opened regular file failed
}

// Failed reports whether any stage of classification failed
func (e *Entry) Failed() bool {
	return e.StatErr != nil || e.OpenErr != nil || e.ReadErr != nil
}

// Inline reports whether the content can be rendered on a single quoted line
func (e *Entry) Inline() bool {
	return IsInline(e.Content)
}
