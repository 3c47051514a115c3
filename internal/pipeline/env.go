package pipeline

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

// StampLayout is the UTC timestamp embedded in output file names.
const StampLayout = "20060102T150405Z"

// Stamp formats t for output file names.
func Stamp(t time.Time) string { return t.UTC().Format(StampLayout) }

// IsTerminal reports whether f is attached to a terminal a user can type into.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// InNotebook reports whether the process runs under a Jupyter-style kernel,
// where charts are better shown than written to disk.
func InNotebook() bool {
	return os.Getenv("JPY_PARENT_PID") != ""
}
