package utils

import (
	"sync"
)

// KeyMutex serializes draft mutations per work item. Entries are reference
// counted so an idle key leaves no residue in the map.
type KeyMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyMutex() *KeyMutex {
	return &KeyMutex{locks: make(map[string]*keyLock)}
}

func (k *KeyMutex) Lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
}

func (k *KeyMutex) Unlock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		k.mu.Unlock()
		panic("keymutex: unlock of unheld key " + key)
	}
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.mu.Unlock()
}

// TryAcquire takes the single-flight latch for a key without blocking. It
// returns false while another holder is active. Used by the commit path.
func (k *KeyMutex) TryAcquire(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if _, held := k.locks[key]; held {
		return false
	}
	l := &keyLock{refs: 1}
	l.mu.Lock()
	k.locks[key] = l
	return true
}

// Release drops a latch taken with TryAcquire.
func (k *KeyMutex) Release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.locks[key]; ok {
		delete(k.locks, key)
		l.mu.Unlock()
	}
}
