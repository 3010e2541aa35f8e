// Пакет inflight. Защита от повторных и устаревших запросов
package inflight

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Ошибки пакета
var (
	ErrBusy  = errors.New("request is already in flight")
	ErrStale = errors.New("response is superseded by a newer request")
)

// Set - набор ключей, по которым сейчас выполняется запрос
type Set struct {
	mux  sync.Mutex
	keys map[string]struct{}
}

// NewSet создает пустой набор
func NewSet() *Set {
	return &Set{keys: make(map[string]struct{})}
}

// Acquire помечает ключ занятым. false - ключ уже занят
func (s *Set) Acquire(key string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	if _, busy := s.keys[key]; busy {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Release освобождает ключ
func (s *Set) Release(key string) {
	s.mux.Lock()
	defer s.mux.Unlock()

	delete(s.keys, key)
}

// Busy сообщает, занят ли ключ
func (s *Set) Busy(key string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	_, busy := s.keys[key]
	return busy
}

// Do выполняет fn, если по ключу нет активного запроса, иначе возвращает ErrBusy.
// Ключ освобождается при любом исходе fn, в том числе при панике
func (s *Set) Do(key string, fn func() error) error {
	if !s.Acquire(key) {
		return ErrBusy
	}
	defer s.Release(key)

	return fn()
}

// Latest - метки последних выданных запросов по ключу
type Latest struct {
	mux    sync.Mutex
	tokens map[string]string
}

// NewLatest создает пустой журнал меток
func NewLatest() *Latest {
	return &Latest{tokens: make(map[string]string)}
}

// Issue выдает новую метку запроса и делает ее последней для ключа
func (l *Latest) Issue(key string) string {
	token := uuid.NewString()

	l.mux.Lock()
	defer l.mux.Unlock()

	l.tokens[key] = token
	return token
}

// IsCurrent сообщает, остается ли метка последней для ключа
func (l *Latest) IsCurrent(key, token string) bool {
	l.mux.Lock()
	defer l.mux.Unlock()

	return l.tokens[key] == token
}

// Complete проверяет метку по завершении запроса: ErrStale, если после нее
// был выдан более новый запрос. Последняя метка забывается
func (l *Latest) Complete(key, token string) error {
	l.mux.Lock()
	defer l.mux.Unlock()

	if l.tokens[key] != token {
		return ErrStale
	}
	delete(l.tokens, key)
	return nil
}
