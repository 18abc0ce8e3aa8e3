package result

import (
	"fmt"
	"net/http"
)

// Status представляет собой закрытое перечисление статусов результата операции.
// Статус не зависит от транспортного протокола; сопоставление с HTTP-кодами
// выполняет HTTPStatusCode.
type Status int

// Нулевое значение Status не является допустимым членом перечисления,
// поэтому неинициализированный статус обнаруживается как дефект конфигурации.
const (
	StatusSuccess Status = iota + 1
	StatusBadRequest
	StatusUnauthorized
	StatusForbidden
	StatusNotFound
	StatusConflict
	StatusInternalServerError
)

// Category определяет категорию статуса результата.
type Category int

const (
	CategorySuccess Category = iota + 1
	CategoryClientError
	CategoryServerError
)

var statusNames = map[Status]string{
	StatusSuccess:             "Success",
	StatusBadRequest:          "BadRequest",
	StatusUnauthorized:        "Unauthorized",
	StatusForbidden:           "Forbidden",
	StatusNotFound:            "NotFound",
	StatusConflict:            "Conflict",
	StatusInternalServerError: "InternalServerError",
}

// Statuses возвращает все члены перечисления в порядке объявления.
func Statuses() []Status {
	return []Status{
		StatusSuccess,
		StatusBadRequest,
		StatusUnauthorized,
		StatusForbidden,
		StatusNotFound,
		StatusConflict,
		StatusInternalServerError,
	}
}

// Valid сообщает, является ли значение членом перечисления.
func (s Status) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// String возвращает каноническое имя статуса.
// Для значений вне перечисления паники нет: метод используется в логах.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (c Category) String() string {
	switch c {
	case CategorySuccess:
		return "success"
	case CategoryClientError:
		return "client_error"
	case CategoryServerError:
		return "server_error"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Classify возвращает категорию статуса.
// Значение вне перечисления является дефектом конфигурации и вызывает панику.
func Classify(s Status) Category {
	switch s {
	case StatusSuccess:
		return CategorySuccess
	case StatusBadRequest, StatusUnauthorized, StatusForbidden, StatusNotFound, StatusConflict:
		return CategoryClientError
	case StatusInternalServerError:
		return CategoryServerError
	default:
		panic(fmt.Sprintf("result: неизвестный статус %s не имеет категории", s))
	}
}

// HTTPStatusCode сопоставляет статус с HTTP-кодом ответа.
// Значение вне перечисления является дефектом конфигурации и вызывает панику.
func HTTPStatusCode(s Status) int {
	switch s {
	case StatusSuccess:
		return http.StatusOK
	case StatusBadRequest:
		return http.StatusBadRequest
	case StatusUnauthorized:
		return http.StatusUnauthorized
	case StatusForbidden:
		return http.StatusForbidden
	case StatusNotFound:
		return http.StatusNotFound
	case StatusConflict:
		return http.StatusConflict
	case StatusInternalServerError:
		return http.StatusInternalServerError
	default:
		panic(fmt.Sprintf("result: неизвестный статус %s не имеет HTTP-кода", s))
	}
}

// IsSuccess сообщает, относится ли статус к успешным.
func IsSuccess(s Status) bool { return Classify(s) == CategorySuccess }

// IsClientError сообщает, относится ли статус к ошибкам клиента.
func IsClientError(s Status) bool { return Classify(s) == CategoryClientError }

// IsServerError сообщает, относится ли статус к ошибкам сервера.
func IsServerError(s Status) bool { return Classify(s) == CategoryServerError }

// IsError сообщает, относится ли статус к ошибкам клиента или сервера.
func IsError(s Status) bool { return Classify(s) != CategorySuccess }
