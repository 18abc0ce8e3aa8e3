package journal

import (
	"log/slog"

	"github.com/x-research-team/dtx-result/result"
)

// Option определяет функцию для конфигурации Middleware.
type Option[T, R any] func(*Middleware[T, R])

// WithName устанавливает имя обработчика, которое попадет в записи журнала.
func WithName[T, R any](name string) Option[T, R] {
	return func(m *Middleware[T, R]) {
		m.name = name
	}
}

// WithCategories заменяет набор категорий, результаты которых журналируются.
// Неудачные вызовы Handle журналируются независимо от категории.
func WithCategories[T, R any](categories ...result.Category) Option[T, R] {
	return func(m *Middleware[T, R]) {
		m.categories = make(map[result.Category]bool, len(categories))
		for _, c := range categories {
			m.categories[c] = true
		}
	}
}

// WithLogger устанавливает логгер для ошибок хранилища. Значение nil отключает логирование.
func WithLogger[T, R any](logger *slog.Logger) Option[T, R] {
	return func(m *Middleware[T, R]) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		m.logger = logger
	}
}
