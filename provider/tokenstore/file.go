package tokenstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	interrors "github.com/jrsteele09/go-auth-client/internal/errors"
	"github.com/jrsteele09/go-auth-client/provider"
	"github.com/pkg/errors"
)

const sessionFileName = "session.json"

// FileRepo stores the session as a JSON file with owner-only permissions.
type FileRepo struct {
	dir string
}

var _ Repo = (*FileRepo)(nil)

// NewFileRepo creates a file-backed store rooted at dir (created on first
// save). An empty dir defaults to a per-user config directory.
func NewFileRepo(dir string) (*FileRepo, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "[NewFileRepo] resolve user config dir")
		}
		dir = filepath.Join(configDir, "go-auth-client")
	}
	return &FileRepo{dir: dir}, nil
}

func (r *FileRepo) Save(session *provider.Session) error {
	if session == nil {
		return errors.New("[FileRepo Save] session is required")
	}
	if err := os.MkdirAll(r.dir, 0o700); err != nil {
		return errors.Wrap(err, "[FileRepo Save] create dir")
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "[FileRepo Save] marshal session")
	}
	if err := os.WriteFile(r.path(), raw, 0o600); err != nil {
		return errors.Wrap(err, "[FileRepo Save] write file")
	}
	return nil
}

func (r *FileRepo) Load() (*provider.Session, error) {
	raw, err := os.ReadFile(r.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "[FileRepo Load] read file")
	}
	var session provider.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, errors.Wrap(err, "[FileRepo Load] unmarshal session")
	}
	return &session, nil
}

func (r *FileRepo) Clear() error {
	err := os.Remove(r.path())
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileRepo Clear] remove file")
	}
	return nil
}

func (r *FileRepo) path() string {
	return filepath.Join(r.dir, sessionFileName)
}
