package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-reflect"

	"github.com/x-research-team/dtx-result/result"
	"github.com/x-research-team/dtx-result/result/handler"
)

// ErrNilResponse возвращается, если производитель вернул пустой ответ без ошибки,
// в том числе типизированный nil-указатель.
var ErrNilResponse = errors.New("обработчик результатов вернул пустой ответ")

// Respond обрабатывает результат и записывает ответ в контекст gin.
// Ошибки обработки возвращаются без записи ответа: решение принимает вызывающий код.
func Respond[T any](c *gin.Context, h handler.IHandler[T, Response], o result.Outcome[T]) error {
	resp, err := h.Handle(c.Request.Context(), o)
	if err != nil {
		return err
	}
	if isNilResponse(resp) {
		return ErrNilResponse
	}

	resp.Render(c)
	return nil
}

// Handle превращает функцию, возвращающую результат, в gin.HandlerFunc.
// При ошибке обработки она добавляется в c.Errors, а клиент получает 500
// problem details от f.
func Handle[T any](h handler.IHandler[T, Response], f ProblemFactory, fn func(c *gin.Context) result.Outcome[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := Respond(c, h, fn(c))
		if err == nil {
			return
		}

		_ = c.Error(err)
		resp, problemErr := f.Problem(c.Request.Context(), http.StatusInternalServerError, "")
		if problemErr != nil || resp == nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Abort()
		resp.Render(c)
	}
}

// isNilResponse распознает как nil-интерфейс, так и интерфейс с nil-значением.
func isNilResponse(resp Response) bool {
	if resp == nil {
		return true
	}
	v := reflect.ValueOf(resp)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}
