package adapter

import "github.com/atotto/clipboard"

// Clipboard abstracts the system clipboard. Copying is always best-effort;
// callers must not fail a run when the clipboard is unavailable.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard is the OS clipboard implementation.
type SystemClipboard struct{}

// NewSystemClipboard constructs a SystemClipboard.
func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

// Copy places text on the system clipboard.
func (c *SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}
