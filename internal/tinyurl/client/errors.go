package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/iurnickita/tinyurl-front/internal/common/inflight"
)

// Ошибки пакета
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrNoClicks          = fmt.Errorf("%w: no clicks", ErrNotFound)
	ErrTransport         = errors.New("transport failed")
	ErrMalformedResponse = errors.New("malformed response")
	ErrBusy              = inflight.ErrBusy
)

func newErrValidation(field string) error {
	return fmt.Errorf("%w: %s is empty", ErrValidation, field)
}

// ResponseError - ответ API с кодом вне 2xx
type ResponseError struct {
	Op         string
	StatusCode int
	Message    string // текст ошибки от сервера, может быть пустым
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Message)
}

// Unwrap - ошибка ответа относится к транспортным
func (e *ResponseError) Unwrap() error {
	return ErrTransport
}

// ServerMessage извлекает текст ошибки сервера из цепочки err.
// false - сервер ничего не сообщил
func ServerMessage(err error) (string, bool) {
	var respErr *ResponseError
	if errors.As(err, &respErr) && respErr.Message != "" {
		return respErr.Message, true
	}
	return "", false
}

// serverMessage разбирает тело ответа с ошибкой: текст как есть
// или поле message/error JSON-объекта
func serverMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}

	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return strings.TrimSpace(s)
	}
	return text
}
