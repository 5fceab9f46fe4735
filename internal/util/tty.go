package util

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal checks if f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
