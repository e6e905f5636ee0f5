// Package flowstate stores per-attempt OAuth hand-off state between building
// the authorization URL and completing the code exchange.
package flowstate

import "time"

type State struct {
	Provider     string
	CodeVerifier string
	RedirectURI  string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, flowState *State) error
	Get(state string) (*State, error)
	Delete(state string) error
}
