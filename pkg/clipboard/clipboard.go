// Package clipboard provides the places a sharing link can be copied to.
package clipboard

import (
	"sync"

	atotto "github.com/atotto/clipboard"
)

// Modes accepted by CLIPBOARD_MODE
const (
	ModeBrowser = "browser"
	ModeSystem  = "system"
)

// System copies to the clipboard of the machine running the server. Useful
// for a registration desk where the server and browser share a screen.
type System struct{}

// Copy writes text to the system clipboard
func (System) Copy(text string) error {
	return atotto.WriteAll(text)
}

// Browser holds copied text until the next page render hands it to the
// visitor's browser.
type Browser struct {
	mu      sync.Mutex
	pending string
}

// Copy records text for the browser
func (b *Browser) Copy(text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending = text
	return nil
}

// Take returns the pending text, if any, and clears it
func (b *Browser) Take() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.pending
	b.pending = ""
	return text, text != ""
}
