package handler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/x-research-team/dtx-result/result"
)

// IHandler определяет строго типизированный обработчик результатов.
//
// Регистрации проверяются в порядке добавления, выигрывает первая подходящая.
// Повторная регистрация той же категории допустима, но недостижима.
//
// Все вызовы On* должны завершиться до первого вызова Handle: одновременная
// регистрация и обработка не поддерживаются и не защищены блокировками.
// После завершения настройки Handle можно вызывать из разных горутин.
type IHandler[T, R any] interface {
	// On добавляет регистрацию с произвольным предикатом.
	On(name string, match Predicate, producer Producer[T, R]) IHandler[T, R]

	// OnStatus добавляет регистрацию для одного конкретного статуса.
	OnStatus(status result.Status, producer Producer[T, R]) IHandler[T, R]

	// OnSuccess добавляет регистрацию для успешных статусов.
	OnSuccess(producer Producer[T, R]) IHandler[T, R]

	// OnClientError добавляет регистрацию для всех ошибок клиента.
	OnClientError(producer Producer[T, R]) IHandler[T, R]

	// OnServerError добавляет регистрацию для всех ошибок сервера.
	OnServerError(producer Producer[T, R]) IHandler[T, R]

	// OnError добавляет одну регистрацию для ошибок клиента и сервера.
	OnError(producer Producer[T, R]) IHandler[T, R]

	// OnUnmatched устанавливает резервный производитель, который вызывается,
	// только если ни одна регистрация не подошла. Повторный вызов заменяет его.
	OnUnmatched(producer Producer[T, R]) IHandler[T, R]

	// Handle вызывает ровно один производитель и возвращает его результат.
	// Если ничего не подошло и резервного производителя нет, возвращается
	// ошибка, оборачивающая ErrUnhandledOutcome.
	Handle(ctx context.Context, o result.Outcome[T]) (R, error)

	// Registrations возвращает копию текущего списка регистраций.
	Registrations() []Registration[T, R]
}

// handlerImpl представляет собой реализацию IHandler.
type handlerImpl[T, R any] struct {
	provider Provider[T, R]
	cfg      *config[T, R]
}

// New создает новый, готовый к настройке обработчик результатов.
func New[T, R any](opts ...Option[T, R]) IHandler[T, R] {
	cfg := &config[T, R]{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	allMiddlewares := []Middleware[T, R]{
		NewLoggingMiddleware[T, R](cfg.logger),
		NewMetricsMiddleware[T, R](cfg.meterProvider),
		NewTracingMiddleware[T, R](cfg.tracerProvider),
	}
	allMiddlewares = append(allMiddlewares, cfg.middlewares...)

	h := &handlerImpl[T, R]{
		provider: applyMiddlewares[T, R](NewLocalProvider[T, R](), allMiddlewares...),
		cfg:      cfg,
	}

	if cfg.setup != nil {
		cfg.setup(h)
	}

	return h
}

func (h *handlerImpl[T, R]) On(name string, match Predicate, producer Producer[T, R]) IHandler[T, R] {
	if match == nil {
		panic(fmt.Sprintf("handler: предикат регистрации '%s' не может быть nil", name))
	}
	if producer == nil {
		panic(fmt.Sprintf("handler: производитель регистрации '%s' не может быть nil", name))
	}

	h.provider.Register(Registration[T, R]{
		Name:    name,
		Match:   match,
		Produce: producer,
	})
	return h
}

func (h *handlerImpl[T, R]) OnStatus(status result.Status, producer Producer[T, R]) IHandler[T, R] {
	if !status.Valid() {
		panic(fmt.Sprintf("handler: невозможно зарегистрировать неизвестный статус %s", status))
	}
	return h.On(status.String(), StatusIs(status), producer)
}

func (h *handlerImpl[T, R]) OnSuccess(producer Producer[T, R]) IHandler[T, R] {
	return h.On(NameSuccess, result.IsSuccess, producer)
}

func (h *handlerImpl[T, R]) OnClientError(producer Producer[T, R]) IHandler[T, R] {
	return h.On(NameClientError, result.IsClientError, producer)
}

func (h *handlerImpl[T, R]) OnServerError(producer Producer[T, R]) IHandler[T, R] {
	return h.On(NameServerError, result.IsServerError, producer)
}

func (h *handlerImpl[T, R]) OnError(producer Producer[T, R]) IHandler[T, R] {
	return h.On(NameError, result.IsError, producer)
}

func (h *handlerImpl[T, R]) OnUnmatched(producer Producer[T, R]) IHandler[T, R] {
	if producer == nil {
		panic("handler: резервный производитель не может быть nil")
	}
	h.provider.Fallback(producer)
	return h
}

// Handle находит первую подходящую регистрацию и вызывает ее производитель.
func (h *handlerImpl[T, R]) Handle(ctx context.Context, o result.Outcome[T]) (R, error) {
	if !o.Status().Valid() {
		panic(fmt.Sprintf("handler: результат %s имеет неизвестный статус %s", o.ID(), o.Status()))
	}
	return h.provider.Handle(ctx, o)
}

func (h *handlerImpl[T, R]) Registrations() []Registration[T, R] {
	return h.provider.Registrations()
}
