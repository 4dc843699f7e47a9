// Package filestore persists the session as a single JSON file, the
// desktop-client equivalent of browser local storage.
package filestore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mentorhub/go-mentorhub/session"
	"github.com/pkg/errors"
)

const defaultFileName = "session.json"

var _ session.Store = (*Store)(nil)

// Store keeps the session record at a fixed path. Access is assumed
// single-process; concurrent processes may observe stale sessions until
// they re-read the file.
type Store struct {
	path string
}

// New creates a Store rooted at path. An empty path resolves to
// mentorhub/session.json under the user config directory.
func New(path string) (*Store, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "[filestore.New] os.UserConfigDir")
		}
		path = filepath.Join(configDir, "mentorhub", defaultFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] os.MkdirAll")
	}
	return &Store{path: path}, nil
}

// Write persists the session atomically via a temp file and rename, so a
// crash mid-write never leaves a half-written record behind.
func (s *Store) Write(sess *session.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return errors.Wrap(err, "[filestore.Write] json.Marshal")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), defaultFileName+".*")
	if err != nil {
		return errors.Wrap(err, "[filestore.Write] os.CreateTemp")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "[filestore.Write] tmp.Write")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[filestore.Write] tmp.Close")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "[filestore.Write] os.Rename")
	}
	return nil
}

// Read returns the stored session. A missing file or unparseable contents
// both mean "no session"; neither surfaces as an error to the caller.
func (s *Store) Read() (*session.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "[filestore.Read] os.ReadFile")
	}

	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// Malformed storage is treated as absent.
		return nil, nil
	}
	return &sess, nil
}

// Clear removes the session file. A missing file counts as success.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[filestore.Clear] os.Remove")
	}
	return nil
}
