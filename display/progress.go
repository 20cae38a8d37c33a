package display

import (
	"io"
	"os"

	"github.com/pterm/pterm"
)

// Emitter prints status messages for long-running commands. Messages go to
// stderr so stdout stays a clean document.
type Emitter struct {
	verbosity int
	out       io.Writer
}

// NewEmitter creates an emitter writing to stderr
func NewEmitter(verbosity int) *Emitter {
	return &Emitter{verbosity: verbosity, out: os.Stderr}
}

// WithWriter redirects the emitter, mainly for tests
func (e *Emitter) WithWriter(w io.Writer) *Emitter {
	e.out = w
	return e
}

// Stage prints a stage announcement
func (e *Emitter) Stage(stage, message string) {
	pterm.Fprintln(e.out, "🔄 "+pterm.LightCyan(stage)+": "+message)
}

// Info prints an informational message at verbosity >= 1
func (e *Emitter) Info(message string) {
	if e.verbosity >= 1 {
		pterm.Info.WithWriter(e.out).Println(message)
	}
}

// Warning prints a warning
func (e *Emitter) Warning(message string) {
	pterm.Warning.WithWriter(e.out).Println(message)
}

// Error prints an error for a stage
func (e *Emitter) Error(stage string, err error) {
	pterm.Error.WithWriter(e.out).Printf("Error in %s: %v\n", stage, err)
}

// Success prints a completion message
func (e *Emitter) Success(message string) {
	pterm.Success.WithWriter(e.out).Println(message)
}
