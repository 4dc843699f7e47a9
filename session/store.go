package session

// Store persists exactly one Session record. The auth service is the
// single writer; everything else reads through the service.
type Store interface {
	// Write serializes and persists the session, overwriting any prior value.
	Write(session *Session) error
	// Read returns the stored session, or (nil, nil) when no session is
	// stored. Malformed stored data is treated as absent, never as an error.
	Read() (*Session, error)
	// Clear removes the persisted session. Clearing an empty store succeeds.
	Clear() error
}
