package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

// Response - это ответ фреймворка, построенный из результата операции.
type Response interface {
	// StatusCode возвращает HTTP-код ответа.
	StatusCode() int

	// Render записывает ответ в контекст gin.
	Render(c *gin.Context)
}

// ObjectResponse - ответ с телом, сериализуемым в JSON.
type ObjectResponse struct {
	Status      int
	Value       any
	ContentType string
}

// NewObjectResponse создает JSON-ответ с указанным кодом.
func NewObjectResponse(status int, value any) *ObjectResponse {
	return &ObjectResponse{Status: status, Value: value}
}

func (r *ObjectResponse) StatusCode() int { return r.Status }

// Render записывает тело в JSON. Заданный ContentType имеет приоритет
// над application/json.
func (r *ObjectResponse) Render(c *gin.Context) {
	if r.ContentType != "" {
		c.Header("Content-Type", r.ContentType)
	}

	switch r.Status {
	case http.StatusNoContent, http.StatusNotModified:
		c.Status(r.Status)
		c.Writer.WriteHeaderNow()
		return
	}

	c.Render(r.Status, render.JSON{Data: r.Value})
}

// StatusCodeResponse - ответ без тела, содержащий только HTTP-код.
type StatusCodeResponse struct {
	Status int
}

// NewStatusCodeResponse создает ответ только с HTTP-кодом.
func NewStatusCodeResponse(status int) *StatusCodeResponse {
	return &StatusCodeResponse{Status: status}
}

func (r *StatusCodeResponse) StatusCode() int { return r.Status }

func (r *StatusCodeResponse) Render(c *gin.Context) {
	c.Status(r.Status)
	c.Writer.WriteHeaderNow()
}
