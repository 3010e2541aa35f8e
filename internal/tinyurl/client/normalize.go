package client

import (
	"encoding/json"
	"strings"
)

// NormalizeShortURL приводит короткую ссылку из ответа сервера к виду,
// пригодному для перехода: ровно один завершающий слэш.
// Если сервер вернул ссылку вместе с исходным длинным URL, ссылка обрезается
// по месту, где он начинается
func NormalizeShortURL(raw, longURL string) string {
	short, _ := cutLongURL(raw, longURL)
	return withTrailingSlash(short)
}

// cutLongURL снимает пробелы и кавычки и обрезает значение по месту,
// где начинается longURL. cut - было ли что-то отрезано
func cutLongURL(raw, longURL string) (short string, cut bool) {
	short = strings.Trim(strings.TrimSpace(raw), `"`)
	if longURL == "" {
		return short, false
	}
	if idx := strings.Index(short, longURL); idx > 0 {
		return short[:idx], true
	}
	return short, false
}

func withTrailingSlash(short string) string {
	short = strings.TrimRight(short, "/")
	if short == "" {
		return ""
	}
	return short + "/"
}

// tinyResponse - вариант ответа на создание ссылки в виде объекта
type tinyResponse struct {
	Tiny string `json:"tiny"`
}

// decodeShortURL извлекает короткую ссылку из тела ответа:
// JSON-объект {tiny}, JSON-строка или обычный текст.
// Для объекта или null результат - только поле tiny, возможно пустое
func decodeShortURL(body []byte) string {
	text := strings.TrimSpace(string(body))

	if text == "null" || strings.HasPrefix(text, "{") {
		var obj tinyResponse
		if err := json.Unmarshal([]byte(text), &obj); err != nil {
			return ""
		}
		return obj.Tiny
	}
	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s
	}
	return text
}
