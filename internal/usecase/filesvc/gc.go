package filesvc

import (
	"log"
	"sync"
	"time"
)

// SweepStale удаляет незавершённые записи, не обновлявшиеся дольше ttl:
// брошенные загрузки, которые никто не собирается продолжать.
// Финализированные записи свипер не трогает.
func (s *Files) SweepStale(ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	entries, err := s.MetaStorage.List()
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, entry := range entries {
		if entry.Finalized || now.Sub(entry.LastUpdate) < ttl {
			continue
		}

		// Под локом записи: параллельный аппенд либо успеет обновить
		// LastUpdate до повторной проверки, либо дождётся удаления.
		unlock := s.locks.lock(entry.ID)
		current, err := s.MetaStorage.Get(entry.ID)
		if err != nil || current.Finalized || now.Sub(current.LastUpdate) < ttl {
			unlock()
			continue
		}
		if err := s.MetaStorage.Delete(entry.ID); err != nil {
			log.Printf("gc: delete %s: %v", entry.ID, err)
		}
		unlock()
	}
	return nil
}

// StartGC стартует периодическую очистку брошенных загрузок.
// Возвращает функцию остановки; при неположительных параметрах — no-op.
func StartGC(s *Files, ttl time.Duration, every time.Duration) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.SweepStale(ttl); err != nil {
					log.Printf("gc: sweep: %v", err)
				}
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}
