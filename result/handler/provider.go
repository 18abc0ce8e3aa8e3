package handler

import (
	"context"
	"fmt"

	"github.com/x-research-team/dtx-result/result"
)

// Provider определяет контракт для механизма вычисления регистраций.
// Middleware оборачивают провайдер, не изменяя порядок регистраций.
type Provider[T, R any] interface {
	// Register добавляет регистрацию в конец списка.
	Register(reg Registration[T, R])

	// Fallback устанавливает резервный производитель.
	Fallback(producer Producer[T, R])

	// Handle вычисляет регистрации по порядку и вызывает первую подходящую.
	Handle(ctx context.Context, o result.Outcome[T]) (R, error)

	// Registrations возвращает копию списка регистраций.
	Registrations() []Registration[T, R]
}

// localProvider — это внутрипроцессная реализация провайдера.
// Список регистраций изменяется только на этапе настройки.
type localProvider[T, R any] struct {
	registrations []Registration[T, R]
	fallback      Producer[T, R]
}

// NewLocalProvider создает новый экземпляр локального провайдера.
func NewLocalProvider[T, R any]() *localProvider[T, R] {
	return &localProvider[T, R]{}
}

func (p *localProvider[T, R]) Register(reg Registration[T, R]) {
	p.registrations = append(p.registrations, reg)
}

func (p *localProvider[T, R]) Fallback(producer Producer[T, R]) {
	p.fallback = producer
}

// Handle вызывает производитель первой подходящей регистрации.
func (p *localProvider[T, R]) Handle(ctx context.Context, o result.Outcome[T]) (R, error) {
	for _, reg := range p.registrations {
		if reg.Match(o.Status()) {
			return reg.Produce(ctx, o)
		}
	}

	if p.fallback != nil {
		return p.fallback(ctx, o)
	}

	var zero R
	return zero, fmt.Errorf("%w: статус '%s'", ErrUnhandledOutcome, o.Status())
}

func (p *localProvider[T, R]) Registrations() []Registration[T, R] {
	out := make([]Registration[T, R], len(p.registrations))
	copy(out, p.registrations)
	return out
}
