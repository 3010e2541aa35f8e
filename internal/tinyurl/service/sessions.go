package service

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultSessionCapacity - число панелей, сверх которого вытесняются самые старые
const DefaultSessionCapacity = 1024

// Sessions - панели интерфейса по идентификатору сессии (в памяти)
type Sessions struct {
	api      API
	zaplog   *zap.Logger
	capacity int

	mux    sync.Mutex
	panels map[string]*Panel
	order  []string // идентификаторы в порядке создания
}

// NewSessions создает хранилище панелей
func NewSessions(api API, zaplog *zap.Logger, capacity int) *Sessions {
	if capacity <= 0 {
		capacity = DefaultSessionCapacity
	}
	return &Sessions{
		api:      api,
		zaplog:   zaplog,
		capacity: capacity,
		panels:   make(map[string]*Panel),
	}
}

// Lookup возвращает панель существующей сессии, новую не заводит
func (s *Sessions) Lookup(id string) (*Panel, bool) {
	s.mux.Lock()
	defer s.mux.Unlock()

	panel, ok := s.panels[id]
	return panel, ok
}

// Get возвращает панель сессии id. Для пустого или неизвестного id
// заводится новая сессия, ее идентификатор возвращается вторым значением
func (s *Sessions) Get(id string) (*Panel, string) {
	s.mux.Lock()
	defer s.mux.Unlock()

	if panel, ok := s.panels[id]; ok && id != "" {
		return panel, id
	}

	for len(s.panels) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.panels, oldest)
		s.zaplog.Debug("session evicted", zap.String("session", oldest))
	}

	id = uuid.NewString()
	panel := NewPanel(s.api, s.zaplog)
	s.panels[id] = panel
	s.order = append(s.order, id)
	return panel, id
}

// Len - число активных сессий
func (s *Sessions) Len() int {
	s.mux.Lock()
	defer s.mux.Unlock()

	return len(s.panels)
}
