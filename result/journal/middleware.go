package journal

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/x-research-team/dtx-result/result"
	"github.com/x-research-team/dtx-result/result/handler"
)

// NewMiddleware создает новый экземпляр журналирующего middleware.
// По умолчанию журналируются ошибки клиента и сервера, а также любые
// неудачные вызовы Handle.
func NewMiddleware[T, R any](storage Storage, opts ...Option[T, R]) *Middleware[T, R] {
	m := &Middleware[T, R]{
		storage: storage,
		categories: map[result.Category]bool{
			result.CategoryClientError: true,
			result.CategoryServerError: true,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Middleware записывает обработанные результаты в Storage.
// Ошибки хранилища логируются и не влияют на результат Handle.
type Middleware[T, R any] struct {
	storage    Storage
	name       string
	categories map[result.Category]bool
	logger     *slog.Logger
}

// Wrap оборачивает провайдер, добавляя запись в журнал после обработки.
func (m *Middleware[T, R]) Wrap(next handler.Provider[T, R]) handler.Provider[T, R] {
	return &journalProvider[T, R]{
		next: next,
		m:    m,
	}
}

// journalProvider - это обертка над провайдером, которая пишет в Storage.
type journalProvider[T, R any] struct {
	next handler.Provider[T, R]
	m    *Middleware[T, R]
}

func (p *journalProvider[T, R]) Register(reg handler.Registration[T, R]) { p.next.Register(reg) }

func (p *journalProvider[T, R]) Fallback(producer handler.Producer[T, R]) { p.next.Fallback(producer) }

func (p *journalProvider[T, R]) Registrations() []handler.Registration[T, R] {
	return p.next.Registrations()
}

// Handle обрабатывает результат и сохраняет запись, если она выбрана фильтром.
func (p *journalProvider[T, R]) Handle(ctx context.Context, o result.Outcome[T]) (R, error) {
	resp, err := p.next.Handle(ctx, o)

	if err != nil || p.m.categories[o.Category()] {
		entry := p.m.newEntry(o, err)
		if saveErr := p.m.storage.Save(context.WithoutCancel(ctx), entry); saveErr != nil {
			p.m.logger.Error("не удалось сохранить запись журнала",
				slog.String("outcome_id", o.ID().String()),
				slog.Any("error", saveErr),
			)
		}
	}

	return resp, err
}

func (m *Middleware[T, R]) newEntry(o result.Outcome[T], err error) *Entry {
	entry := &Entry{
		ID:         uuid.New(),
		OutcomeID:  o.ID(),
		Handler:    m.name,
		Status:     o.Status().String(),
		Category:   o.Category().String(),
		HTTPStatus: result.HTTPStatusCode(o.Status()),
		Message:    o.Message(),
		Outcome:    handler.HandleOutcome(err),
		CreatedAt:  time.Now().UTC(),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	if payload, ok := o.Payload(); ok {
		data, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			m.logger.Warn("не удалось сериализовать нагрузку результата",
				slog.String("outcome_id", o.ID().String()),
				slog.Any("error", marshalErr),
			)
		} else {
			entry.Payload = data
		}
	}

	return entry
}
