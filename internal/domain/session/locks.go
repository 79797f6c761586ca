package session

import "sync"

// sessionKey identifies a session across tenants.
type sessionKey struct {
	tenant string
	id     string
}

// keyedLocks serializes work per session. Entries are reference counted
// and removed once nobody holds or waits on them.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[sessionKey]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// lock blocks until the session is free and returns its unlock function.
func (l *keyedLocks) lock(tenantID, sessionID string) func() {
	key := sessionKey{tenant: tenantID, id: sessionID}

	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[sessionKey]*keyedLock)
	}
	entry, ok := l.locks[key]
	if !ok {
		entry = &keyedLock{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// size returns the number of sessions currently locked or awaited.
func (l *keyedLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
