package web

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// ProblemFactory строит ответ problem details по HTTP-коду и заголовку.
// Это точка подключения кода конкретного фреймворка: обработчик результатов
// зависит только от этого интерфейса.
type ProblemFactory interface {
	Problem(ctx context.Context, status int, title string) (Response, error)
}

// ProblemFactoryFunc является адаптером, позволяющим использовать обычные функции как ProblemFactory.
type ProblemFactoryFunc func(ctx context.Context, status int, title string) (Response, error)

// Problem реализует интерфейс ProblemFactory.
func (f ProblemFactoryFunc) Problem(ctx context.Context, status int, title string) (Response, error) {
	return f(ctx, status, title)
}

type outcomeIDKey struct{}

// ContextWithOutcomeID сохраняет идентификатор результата в контексте.
func ContextWithOutcomeID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, outcomeIDKey{}, id)
}

// OutcomeIDFromContext извлекает идентификатор результата из контекста.
func OutcomeIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(outcomeIDKey{}).(uuid.UUID)
	return id, ok
}

// Controller - реализация ProblemFactory по умолчанию.
//
// Пустой заголовок заменяется стандартным текстом HTTP-кода. Instance
// заполняется идентификатором результата из контекста, TraceID - идентификатором
// трассы активного спана OpenTelemetry.
type Controller struct {
	typeResolver   func(status int) string
	detailResolver func(ctx context.Context, status int) string
}

// ControllerOption определяет функциональную опцию для Controller.
type ControllerOption func(*Controller)

// WithTypeResolver заменяет функцию выбора URI типа проблемы.
func WithTypeResolver(resolver func(status int) string) ControllerOption {
	return func(c *Controller) {
		c.typeResolver = resolver
	}
}

// WithDetail задает функцию, заполняющую поле Detail проблемы.
// Пустая строка оставляет Detail незаполненным.
func WithDetail(resolver func(ctx context.Context, status int) string) ControllerOption {
	return func(c *Controller) {
		c.detailResolver = resolver
	}
}

// NewController создает новый Controller.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		typeResolver: DefaultProblemType,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Problem строит ответ с телом ProblemDetails.
func (c *Controller) Problem(ctx context.Context, status int, title string) (Response, error) {
	if title == "" {
		title = http.StatusText(status)
	}

	problem := &ProblemDetails{
		Type:   c.typeResolver(status),
		Title:  title,
		Status: status,
	}

	if c.detailResolver != nil {
		problem.Detail = c.detailResolver(ctx, status)
	}
	if id, ok := OutcomeIDFromContext(ctx); ok {
		problem.Instance = id.URN()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		problem.TraceID = sc.TraceID().String()
	}

	return &ObjectResponse{
		Status:      status,
		Value:       problem,
		ContentType: ProblemContentType,
	}, nil
}
