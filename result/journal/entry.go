package journal

import (
	"time"

	"github.com/google/uuid"
)

const (
	// OutcomeHandled означает, что производитель вернул ответ.
	OutcomeHandled = "handled"
	// OutcomeUnhandled означает, что ни одна регистрация не подошла.
	OutcomeUnhandled = "unhandled"
	// OutcomeError означает, что производитель вернул ошибку.
	OutcomeError = "error"
)

// Entry представляет запись журнала об обработанном результате.
type Entry struct {
	ID         uuid.UUID // Уникальный идентификатор записи
	OutcomeID  uuid.UUID // Идентификатор исходного результата
	Handler    string    // Имя обработчика результатов
	Status     string    // Статус результата
	Category   string    // Категория статуса
	HTTPStatus int       // HTTP-код, соответствующий статусу
	Message    string    // Сообщение результата
	Payload    []byte    // Сериализованная полезная нагрузка (JSON)
	Outcome    string    // Итог обработки (handled, unhandled, error)
	Error      string    // Текст ошибки, если обработка завершилась неудачно
	CreatedAt  time.Time // Время создания
}
