package filesvc

import "sync"

// entryLocks выдаёт мьютексы по id записи. Локи разных id не пересекаются,
// а неиспользуемые удаляются из карты по счётчику ссылок.
type entryLocks struct {
	mu    sync.Mutex
	locks map[string]*entryLock
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

func newEntryLocks() *entryLocks {
	return &entryLocks{locks: map[string]*entryLock{}}
}

// lock захватывает мьютекс id и возвращает функцию освобождения.
func (l *entryLocks) lock(id string) func() {
	l.mu.Lock()
	el, ok := l.locks[id]
	if !ok {
		el = &entryLock{}
		l.locks[id] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()
	return func() {
		el.mu.Unlock()

		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
