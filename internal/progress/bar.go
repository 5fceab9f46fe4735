package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/k0kubun/go-ansi"
	"github.com/schollz/progressbar/v3"
)

// Spinner shows the number of entries dumped while the total is unknown
type Spinner struct {
	bar          *progressbar.ProgressBar
	showProgress bool
}

// Add advances the spinner by n entries
func (s *Spinner) Add(n int) error {
	return s.bar.Add(n)
}

// Describe sets the description of the spinner, typically the current root
func (s *Spinner) Describe(description string) {
	s.bar.Describe(fmt.Sprintf("[cyan]%s[reset]", description))
}

// Finish completes the spinner and prints a newline if progress is shown
func (s *Spinner) Finish() error {
	err := s.bar.Finish()
	if s.showProgress {
		fmt.Println()
	}
	return err
}

// NewSpinner creates a spinner counting entries.
// The showProgress parameter controls whether anything is drawn
// (typically util.IsTerminal(os.Stdout) && !quietMode && the dump does not go to stdout).
func NewSpinner(description string, showProgress bool) *Spinner {
	var writer io.Writer = ansi.NewAnsiStdout()
	if !showProgress {
		writer = io.Discard
	}
	return newSpinner(writer, description, showProgress)
}

func newSpinner(writer io.Writer, description string, showProgress bool) *Spinner {
	bar := progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("entries"),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	return &Spinner{
		bar:          bar,
		showProgress: showProgress,
	}
}
