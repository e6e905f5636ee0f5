package repofakes

import (
	"sync"

	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/jrsteele09/go-auth-client/provider/tokenstore"
)

var _ tokenstore.Repo = (*FakeTokenRepo)(nil)

// FakeTokenRepo is an in-memory token store for tests.
type FakeTokenRepo struct {
	lock    sync.RWMutex
	session *provider.Session

	SaveErr error
	LoadErr error
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{}
}

func (r *FakeTokenRepo) Save(session *provider.Session) error {
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := *session
	r.session = &copied
	return nil
}

func (r *FakeTokenRepo) Load() (*provider.Session, error) {
	if r.LoadErr != nil {
		return nil, r.LoadErr
	}
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.session == nil {
		return nil, interrors.ErrNotFound
	}
	copied := *r.session
	return &copied, nil
}

func (r *FakeTokenRepo) Clear() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.session = nil
	return nil
}
