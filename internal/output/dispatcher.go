// Package output delivers a rendered tree to standard output, a file, and the clipboard.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/temirov/ptree/internal/services/clipboard"
)

const (
	outputFilePermissions = 0o644

	errorWriteStdoutFormat   = "write tree to stdout: %w"
	errorWriteFileFormat     = "write tree to %s: %w"
	errorCopyClipboardFormat = "%w: %w"
)

var (
	// ErrClipboardCopy wraps every clipboard failure returned by Emit.
	ErrClipboardCopy = errors.New("copy tree to clipboard")
	// ErrClipboardUnavailable reports that copying was requested without a Copier.
	ErrClipboardUnavailable = errors.New("clipboard copier is not configured")
)

// Dispatcher sends one rendering to every configured destination.
type Dispatcher struct {
	Stdout          io.Writer
	Copier          clipboard.Copier
	OutputPath      string
	CopyToClipboard bool
}

// Emit prints colored to Stdout followed by a newline, writes plain to OutputPath when set,
// and copies plain to the clipboard when enabled. A clipboard failure is returned only after
// the other destinations were written.
func (dispatcher Dispatcher) Emit(colored string, plain string) error {
	if dispatcher.Stdout != nil {
		if _, writeError := fmt.Fprintln(dispatcher.Stdout, colored); writeError != nil {
			return fmt.Errorf(errorWriteStdoutFormat, writeError)
		}
	}
	if dispatcher.OutputPath != "" {
		if writeError := os.WriteFile(dispatcher.OutputPath, []byte(plain), outputFilePermissions); writeError != nil {
			return fmt.Errorf(errorWriteFileFormat, dispatcher.OutputPath, writeError)
		}
	}
	if !dispatcher.CopyToClipboard {
		return nil
	}
	if dispatcher.Copier == nil {
		return fmt.Errorf(errorCopyClipboardFormat, ErrClipboardCopy, ErrClipboardUnavailable)
	}
	if copyError := dispatcher.Copier.Copy(plain); copyError != nil {
		return fmt.Errorf(errorCopyClipboardFormat, ErrClipboardCopy, copyError)
	}
	return nil
}
