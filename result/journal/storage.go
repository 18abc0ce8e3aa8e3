package journal

import (
	"context"
	"sync"
)

// Storage определяет контракт для хранения записей журнала.
// Все операции должны быть потокобезопасными.
type Storage interface {
	// Save сохраняет запись в хранилище.
	Save(ctx context.Context, entry *Entry) error

	// List возвращает последние limit записей в порядке добавления.
	// Значение limit <= 0 означает все записи.
	List(ctx context.Context, limit int) ([]*Entry, error)
}

// MemoryStorage — это хранилище журнала в памяти процесса.
type MemoryStorage struct {
	entries []*Entry
	mu      sync.RWMutex
}

// NewMemoryStorage создает новое хранилище в памяти.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Save(ctx context.Context, entry *Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

func (s *MemoryStorage) List(ctx context.Context, limit int) ([]*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if limit > 0 && limit < len(s.entries) {
		start = len(s.entries) - limit
	}

	out := make([]*Entry, len(s.entries)-start)
	copy(out, s.entries[start:])
	return out, nil
}
