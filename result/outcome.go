package result

import (
	"fmt"

	"github.com/google/uuid"
)

// Outcome представляет собой неизменяемый результат операции, параметризованный
// типом полезной нагрузки T. Создается вызывающим кодом и передается
// обработчику результатов ровно один раз.
type Outcome[T any] struct {
	id         uuid.UUID
	status     Status
	message    string
	hasMessage bool
	payload    T
	hasPayload bool
}

// OutcomeOption определяет функциональную опцию для конструктора Outcome.
type OutcomeOption[T any] func(*Outcome[T])

// WithMessage устанавливает человекочитаемое сообщение результата.
func WithMessage[T any](message string) OutcomeOption[T] {
	return func(o *Outcome[T]) {
		o.message = message
		o.hasMessage = true
	}
}

// WithPayload устанавливает полезную нагрузку результата.
func WithPayload[T any](payload T) OutcomeOption[T] {
	return func(o *Outcome[T]) {
		o.payload = payload
		o.hasPayload = true
	}
}

// WithID задает идентификатор результата вместо сгенерированного.
func WithID[T any](id uuid.UUID) OutcomeOption[T] {
	return func(o *Outcome[T]) {
		o.id = id
	}
}

// New создает результат с указанным статусом.
// Статус вне перечисления вызывает панику.
func New[T any](status Status, opts ...OutcomeOption[T]) Outcome[T] {
	if !status.Valid() {
		panic(fmt.Sprintf("result: невозможно создать результат с неизвестным статусом %s", status))
	}

	o := Outcome[T]{
		id:     uuid.New(),
		status: status,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Success создает успешный результат с полезной нагрузкой.
func Success[T any](payload T) Outcome[T] {
	return New(StatusSuccess, WithPayload(payload))
}

// Failure создает результат с ошибочным статусом и сообщением.
func Failure[T any](status Status, message string) Outcome[T] {
	return New(status, WithMessage[T](message))
}

// ID возвращает идентификатор результата.
func (o Outcome[T]) ID() uuid.UUID { return o.id }

// Status возвращает статус результата.
func (o Outcome[T]) Status() Status { return o.status }

// Message возвращает сообщение результата или пустую строку, если оно не задано.
func (o Outcome[T]) Message() string { return o.message }

// HasMessage сообщает, было ли задано сообщение.
func (o Outcome[T]) HasMessage() bool { return o.hasMessage }

// Payload возвращает полезную нагрузку и признак ее наличия.
func (o Outcome[T]) Payload() (T, bool) { return o.payload, o.hasPayload }

// Category возвращает категорию статуса результата.
func (o Outcome[T]) Category() Category { return Classify(o.status) }

func (o Outcome[T]) IsSuccess() bool     { return IsSuccess(o.status) }
func (o Outcome[T]) IsClientError() bool { return IsClientError(o.status) }
func (o Outcome[T]) IsServerError() bool { return IsServerError(o.status) }
