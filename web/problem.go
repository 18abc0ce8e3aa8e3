package web

import "net/http"

// ProblemContentType - это тип содержимого тела problem details (RFC 9457).
const ProblemContentType = "application/problem+json"

// ProblemDetails представляет машиночитаемое описание ошибки HTTP API.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"traceId,omitempty"`
}

// problemTypes сопоставляет HTTP-коды с разделами RFC 9110.
var problemTypes = map[int]string{
	http.StatusBadRequest:           "https://tools.ietf.org/html/rfc9110#section-15.5.1",
	http.StatusUnauthorized:         "https://tools.ietf.org/html/rfc9110#section-15.5.2",
	http.StatusForbidden:            "https://tools.ietf.org/html/rfc9110#section-15.5.4",
	http.StatusNotFound:             "https://tools.ietf.org/html/rfc9110#section-15.5.5",
	http.StatusMethodNotAllowed:     "https://tools.ietf.org/html/rfc9110#section-15.5.6",
	http.StatusNotAcceptable:        "https://tools.ietf.org/html/rfc9110#section-15.5.7",
	http.StatusRequestTimeout:       "https://tools.ietf.org/html/rfc9110#section-15.5.9",
	http.StatusConflict:             "https://tools.ietf.org/html/rfc9110#section-15.5.10",
	http.StatusPreconditionFailed:   "https://tools.ietf.org/html/rfc9110#section-15.5.13",
	http.StatusUnsupportedMediaType: "https://tools.ietf.org/html/rfc9110#section-15.5.16",
	http.StatusUnprocessableEntity:  "https://tools.ietf.org/html/rfc9110#section-15.5.21",
	http.StatusInternalServerError:  "https://tools.ietf.org/html/rfc9110#section-15.6.1",
	http.StatusBadGateway:           "https://tools.ietf.org/html/rfc9110#section-15.6.3",
	http.StatusServiceUnavailable:   "https://tools.ietf.org/html/rfc9110#section-15.6.4",
	http.StatusGatewayTimeout:       "https://tools.ietf.org/html/rfc9110#section-15.6.5",
}

// DefaultProblemType возвращает URI раздела RFC 9110 для HTTP-кода
// или "about:blank", если раздел неизвестен.
func DefaultProblemType(status int) string {
	if t, ok := problemTypes[status]; ok {
		return t
	}
	return "about:blank"
}
