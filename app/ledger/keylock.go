package ledger

import "sync"

// keyLock hands out one mutex per composite key so that writers to the
// same (class, date) or (exam, subject) never interleave, while writers
// to different keys stay independent. Mutexes are kept for the process
// lifetime; the key space is bounded by the days and exams a school
// actually touches.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*sync.Mutex)}
}

// tryAcquire locks the key's mutex without blocking. It returns an
// unlock func, or false when another writer holds the key.
func (l *keyLock) tryAcquire(key string) (func(), bool) {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, false
	}
	return m.Unlock, true
}
