package handler

import (
	"context"
	"errors"

	"github.com/x-research-team/dtx-result/result"
)

// ErrUnhandledOutcome возвращается из Handle, если ни одна регистрация не
// подошла к статусу результата и резервный обработчик не задан.
var ErrUnhandledOutcome = errors.New("результат не обработан")

// Имена регистраций, создаваемых методами On*.
const (
	NameSuccess     = "success"
	NameClientError = "client_error"
	NameServerError = "server_error"
	NameError       = "error"
	NameUnmatched   = "unmatched"
)

// Predicate определяет, подходит ли регистрация к статусу результата.
type Predicate func(status result.Status) bool

// Producer строит ответ типа R из результата с нагрузкой типа T.
// Ошибка производителя возвращается вызывающему Handle без изменений.
type Producer[T, R any] func(ctx context.Context, o result.Outcome[T]) (R, error)

// Registration связывает предикат статуса с производителем ответа.
type Registration[T, R any] struct {
	Name    string
	Match   Predicate
	Produce Producer[T, R]
}

// StatusIs возвращает предикат, совпадающий с одним конкретным статусом.
func StatusIs(status result.Status) Predicate {
	return func(s result.Status) bool {
		return s == status
	}
}

// CategoryIs возвращает предикат, совпадающий со всеми статусами категории.
func CategoryIs(category result.Category) Predicate {
	return func(s result.Status) bool {
		return result.Classify(s) == category
	}
}
