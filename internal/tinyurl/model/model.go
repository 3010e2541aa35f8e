// Пакет model. Модели данных сервиса сокращения
package model

import "sort"

// User - пользователь сервиса со статистикой переходов
type User struct {
	Name         string              `json:"name"`
	AllURLClicks int                 `json:"allUrlClicks"`
	Shorts       map[string]ShortURL `json:"shorts,omitempty"`
}

// ShortURL - короткая ссылка пользователя
type ShortURL struct {
	Clicks ShortURLRecord `json:"clicks"`
}

// ShortURLRecord - число переходов по отметкам времени
type ShortURLRecord map[string]int

// ClickEvent - переход по короткой ссылке
type ClickEvent struct {
	ClickTime string `json:"clickTime"`
	LongURL   string `json:"longUrl"`
	Tiny      string `json:"tiny"`
}

// Tokens возвращает короткие ссылки пользователя по алфавиту
func (u User) Tokens() []string {
	tokens := make([]string, 0, len(u.Shorts))
	for token := range u.Shorts {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)
	return tokens
}

// Instants возвращает отметки времени по возрастанию
func (r ShortURLRecord) Instants() []string {
	instants := make([]string, 0, len(r))
	for instant := range r {
		instants = append(instants, instant)
	}
	sort.Strings(instants)
	return instants
}

// Total - сумма переходов
func (r ShortURLRecord) Total() int {
	total := 0
	for _, n := range r {
		total += n
	}
	return total
}
