package handler

import (
	"fmt"
	"sort"
	"sync"
)

// Registry - это потокобезопасный реестр настроенных обработчиков результатов.
// Позволяет создать обработчик один раз и переиспользовать его по имени.
type Registry struct {
	handlers map[string]any
	mu       sync.RWMutex
}

// NewRegistry создает новый экземпляр реестра обработчиков.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]any),
	}
}

// Handler возвращает строго типизированный обработчик для указанного имени.
// Если обработчика еще нет, он создается с переданными опциями; функция
// настройки из WithSetup выполняется до публикации обработчика в реестре.
func Handler[T, R any](r *Registry, name string, opts ...Option[T, R]) (IHandler[T, R], error) {
	r.mu.RLock()
	h, exists := r.handlers[name]
	r.mu.RUnlock()

	if exists {
		if typedHandler, ok := h.(IHandler[T, R]); ok {
			return typedHandler, nil
		}
		return nil, fmt.Errorf("обработчик результатов '%s' уже существует с другим типом", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, exists := r.handlers[name]; exists {
		if typedHandler, ok := h.(IHandler[T, R]); ok {
			return typedHandler, nil
		}
		return nil, fmt.Errorf("обработчик результатов '%s' уже существует с другим типом", name)
	}

	newHandler := New(opts...)
	r.handlers[name] = newHandler

	return newHandler, nil
}

// Names возвращает отсортированный список имен зарегистрированных обработчиков.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
