package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/tympanix/dump-sys-proc/internal/archive"
	"github.com/tympanix/dump-sys-proc/internal/config"
	"github.com/tympanix/dump-sys-proc/internal/entry"
	"github.com/tympanix/dump-sys-proc/internal/output"
	"github.com/tympanix/dump-sys-proc/internal/progress"
	"github.com/tympanix/dump-sys-proc/internal/util"
	"github.com/tympanix/dump-sys-proc/internal/walker"
)

var version = "dev"

const exitFatal = 1

// dumpOptions holds the command line settings of one dump
type dumpOptions struct {
	Console     bool
	NoRecursion bool
	QuietMode   bool
	VerboseMode bool
	OutputDir   string
	Compress    string
	Exclude     string
	MaxDepth    int

	hostname func() (string, error)
	now      func() time.Time
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fatal(exitFatal, "dump-sys-proc: %v\n", err)
	}
}

// fatal reports an unrecoverable condition and terminates the process
func fatal(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.New()
	opts := &dumpOptions{
		hostname: os.Hostname,
		now:      time.Now,
	}

	var rootCmd = &cobra.Command{
		Use:   "dump-sys-proc [flags] [directory...]",
		Short: "Dump the contents of /proc and /sys into a text file",
		Long: "Dump the contents of /proc and /sys into a text file\n\n" +
			"Outputs to a file that is created in the current directory unless --console is given.\n" +
			"Dumps /proc and /sys unless a list of directories is specified.\n\n" +
			"Exit codes:\n  0 - Success\n  1 - Invalid arguments or the dump could not be written",
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args, stdout, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.Flags()
	flags.BoolVarP(&opts.Console, "console", "c", false, "Output to stdout")
	flags.BoolVarP(&opts.NoRecursion, "norecursion", "n", false, "Do not recurse into directories")
	flags.StringVarP(&opts.OutputDir, "output-dir", "o", cfg.OutputDir, "Directory to create the dump file in (defaults to DUMP_SYS_PROC_OUTPUT_DIR env var or '.')")
	flags.StringVarP(&opts.Compress, "compress-format", "z", cfg.Compress, "Compression format of the dump: none, gzip or zstd (defaults to DUMP_SYS_PROC_COMPRESS env var or 'none')")
	flags.StringVarP(&opts.Exclude, "exclude", "x", cfg.Exclude, "Glob pattern(s) of paths to leave out (e.g., '/proc/[0-9]*', '/proc/[0-9]*,!/proc/1')")
	flags.IntVar(&opts.MaxDepth, "max-depth", cfg.MaxDepth, "Descend at most this many levels below each directory, 0 for unlimited")
	flags.BoolVarP(&opts.QuietMode, "quiet", "q", false, "Suppress all output except the dump")
	flags.BoolVarP(&opts.VerboseMode, "verbose", "v", false, "Enable verbose output")

	return rootCmd
}

func runDump(opts *dumpOptions, roots []string, stdout, stderr io.Writer) error {
	if opts.MaxDepth < 0 {
		return fmt.Errorf("--max-depth must not be negative, got %d", opts.MaxDepth)
	}
	format, err := archive.Parse(opts.Compress)
	if err != nil {
		return err
	}
	filter, err := util.ParsePathFilter(opts.Exclude)
	if err != nil {
		return err
	}

	// stdout carries the dump itself in console mode
	logWriter := stdout
	if opts.Console {
		logWriter = stderr
	}
	var logger util.Logger
	if opts.QuietMode {
		logger = util.NewQuietLogger()
	} else if opts.VerboseMode {
		logger = util.NewVerboseLogger(logWriter)
	} else {
		logger = util.NewLogger(logWriter)
	}

	sink, err := openSink(opts, stdout, format)
	if err != nil {
		return err
	}

	if len(roots) == 0 {
		roots = walker.DefaultRoots
	}

	showProgress := !opts.Console && !opts.QuietMode && isTerminal(stdout)
	spinner := progress.NewSpinner("Dumping", showProgress)
	tracker := output.NewSnapshotTracker(sink.Name(), logger, opts.QuietMode, opts.VerboseMode)

	w := walker.New(sink, walker.Options{
		Recursive: !opts.NoRecursion,
		MaxDepth:  opts.MaxDepth,
		Filter:    filter,
		Logger:    logger,
		OnRecord: func(e *entry.Entry) {
			tracker.Record(e)
			spinner.Add(1)
		},
	})

	tracker.PrintHeader(roots)
	for _, root := range roots {
		spinner.Describe("Dumping " + root)
		if err := w.Walk(root); err != nil {
			sink.Close()
			return err
		}
	}
	spinner.Finish()

	if err := sink.Close(); err != nil {
		return err
	}
	tracker.PrintSummary(sink.BytesWritten())

	if !opts.Console {
		logger.Printf("Dumped contents of %s to %s\n", strings.Join(roots, " "), sink.Name())
	}
	return nil
}

func openSink(opts *dumpOptions, stdout io.Writer, format archive.Format) (*output.Sink, error) {
	if opts.Console {
		return output.NewWriterSink("stdout", stdout, format)
	}
	hostname, err := opts.hostname()
	if err != nil || hostname == "" {
		hostname = "unknown"
	}
	return output.CreateFile(opts.OutputDir, hostname, opts.now(), format)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && util.IsTerminal(f)
}
