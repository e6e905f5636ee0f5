package screens

import "github.com/jrsteele09/go-auth-client/authflow"

// View is where a screen renders status text and modals. The terminal
// implementation lives in the cmd package; tests use a recording fake.
type View interface {
	// ShowModal presents a modal and invokes onClose exactly once when the
	// user acknowledges it. onClose may be nil.
	ShowModal(m authflow.Modal, onClose func())

	// SetStatus replaces the screen's status line.
	SetStatus(status string)
}

// BrowserOpener opens an external URL in the system browser for the OAuth
// hand-off.
type BrowserOpener func(url string) error
