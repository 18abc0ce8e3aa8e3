package web

import (
	"context"
	"net/http"

	"github.com/x-research-team/dtx-result/result"
	"github.com/x-research-team/dtx-result/result/handler"
)

// UseClientErrorHandler регистрирует ответ problem details для ошибок клиента.
// Заголовком проблемы становится сообщение результата.
func UseClientErrorHandler[T any](h handler.IHandler[T, Response], f ProblemFactory) handler.IHandler[T, Response] {
	return h.OnClientError(ProblemProducer[T](f))
}

// UseServerErrorHandler регистрирует ответ problem details для ошибок сервера.
func UseServerErrorHandler[T any](h handler.IHandler[T, Response], f ProblemFactory) handler.IHandler[T, Response] {
	return h.OnServerError(ProblemProducer[T](f))
}

// UseErrorHandler регистрирует обработчики ошибок клиента и сервера, в этом порядке.
func UseErrorHandler[T any](h handler.IHandler[T, Response], f ProblemFactory) handler.IHandler[T, Response] {
	UseClientErrorHandler(h, f)
	UseServerErrorHandler(h, f)
	return h
}

// UseUnmatchedHandler устанавливает резервный ответ, содержащий только HTTP-код статуса.
func UseUnmatchedHandler[T any](h handler.IHandler[T, Response]) handler.IHandler[T, Response] {
	return h.OnUnmatched(StatusCodeProducer[T]())
}

// UseSuccessHandler регистрирует ответ 200 с нагрузкой в JSON
// или 204, если нагрузки нет.
func UseSuccessHandler[T any](h handler.IHandler[T, Response]) handler.IHandler[T, Response] {
	return h.OnSuccess(func(ctx context.Context, o result.Outcome[T]) (Response, error) {
		payload, ok := o.Payload()
		if !ok {
			return NewStatusCodeResponse(http.StatusNoContent), nil
		}
		return NewObjectResponse(result.HTTPStatusCode(o.Status()), payload), nil
	})
}

// UseDefaults регистрирует обработчики ошибок клиента и сервера и резервный
// обработчик, строго в этом порядке.
func UseDefaults[T any](h handler.IHandler[T, Response], f ProblemFactory) handler.IHandler[T, Response] {
	UseErrorHandler(h, f)
	UseUnmatchedHandler(h)
	return h
}

// NewHandler создает обработчик результатов с поведением по умолчанию.
func NewHandler[T any](f ProblemFactory, opts ...handler.Option[T, Response]) handler.IHandler[T, Response] {
	return UseDefaults(handler.New(opts...), f)
}

// ProblemProducer возвращает производитель, который строит problem details
// с HTTP-кодом статуса результата и его сообщением в качестве заголовка.
func ProblemProducer[T any](f ProblemFactory) handler.Producer[T, Response] {
	return func(ctx context.Context, o result.Outcome[T]) (Response, error) {
		ctx = ContextWithOutcomeID(ctx, o.ID())
		return f.Problem(ctx, result.HTTPStatusCode(o.Status()), o.Message())
	}
}

// StatusCodeProducer возвращает производитель ответа только с HTTP-кодом статуса.
func StatusCodeProducer[T any]() handler.Producer[T, Response] {
	return func(ctx context.Context, o result.Outcome[T]) (Response, error) {
		return NewStatusCodeResponse(result.HTTPStatusCode(o.Status())), nil
	}
}
