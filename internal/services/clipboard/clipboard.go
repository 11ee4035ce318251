// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
)

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a Clipboard service implementation.
func NewService() *Service {
	return &Service{}
}

// Copy writes the plain tree text to the system clipboard. It fails on systems without a
// clipboard utility (xclip, xsel, or wl-copy on Linux).
func (service *Service) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Available reports whether a clipboard utility was found.
func Available() bool {
	return !clipboard.Unsupported
}

var _ Copier = (*Service)(nil)
