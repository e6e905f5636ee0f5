package main

import (
	"fmt"
	"sync"

	"github.com/jrsteele09/go-auth-client/authflow"
	"github.com/jrsteele09/go-auth-client/screens"
)

const (
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	cyan   = "\033[36m"
	reset  = "\033[0m"
)

var severityColours = map[authflow.Severity]string{
	authflow.SeveritySuccess: green,
	authflow.SeverityWarning: yellow,
	authflow.SeverityError:   red,
	authflow.SeverityInfo:    cyan,
}

// terminalView renders screen output on stdout. Modals print and acknowledge
// immediately; the REPL owns stdin, so there is no blocking prompt.
type terminalView struct {
	mu     sync.Mutex
	status string
}

var _ screens.View = (*terminalView)(nil)

func newTerminalView() *terminalView {
	return &terminalView{}
}

func (v *terminalView) ShowModal(m authflow.Modal, onClose func()) {
	colour := severityColours[m.Severity]
	fmt.Printf("%s== %s ==%s\n%s\n", colour, m.Title, reset, m.Message)
	if onClose != nil {
		onClose()
	}
}

func (v *terminalView) SetStatus(status string) {
	v.mu.Lock()
	changed := status != v.status && status != ""
	v.status = status
	v.mu.Unlock()
	if changed {
		fmt.Printf("%s-- %s%s\n", cyan, status, reset)
	}
}

// Status returns the latest status line.
func (v *terminalView) Status() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}
