package storefakes

import (
	"sync"

	"github.com/mentorhub/go-mentorhub/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory session.Store for tests. It counts operations
// so tests can assert on write traffic.
type FakeStore struct {
	lock    sync.RWMutex
	session *session.Session

	Writes int
	Clears int

	WriteErr error
	ReadErr  error
	ClearErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Write(sess *session.Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	copied := *sess
	fs.session = &copied
	fs.Writes++
	return nil
}

func (fs *FakeStore) Read() (*session.Session, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if fs.ReadErr != nil {
		return nil, fs.ReadErr
	}
	if fs.session == nil {
		return nil, nil
	}
	copied := *fs.session
	return &copied, nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.session = nil
	fs.Clears++
	return nil
}
