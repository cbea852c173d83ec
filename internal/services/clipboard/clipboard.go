// Package clipboard copies rendered outlines to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported indicates that no clipboard utility is available on this system.
var ErrUnsupported = errors.New("clipboard: no clipboard utility available")

// Copier copies textual data to a clipboard.
type Copier interface {
	Copy(text string) error
}

// CopierFunc adapts a function to the Copier interface.
type CopierFunc func(text string) error

// Copy calls the underlying function.
func (copier CopierFunc) Copy(text string) error {
	return copier(text)
}

// SystemClipboard implements Copier using github.com/atotto/clipboard.
type SystemClipboard struct{}

// NewSystemClipboard constructs a SystemClipboard.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// Copy writes text to the system clipboard. It fails with ErrUnsupported when
// neither a platform API nor a helper such as xclip or wl-copy is present.
func (systemClipboard *SystemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

var (
	_ Copier = (*SystemClipboard)(nil)
	_ Copier = CopierFunc(nil)
)
