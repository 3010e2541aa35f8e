// Пакет service. Состояние интерфейса поверх клиента API
package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/iurnickita/tinyurl-front/internal/common/inflight"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/client"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/model"
)

// API - интерфейс клиента сервиса сокращения
type API interface {
	CreateUser(ctx context.Context, name string) (string, error)
	CreateShortURL(ctx context.Context, longURL, owner string) (string, error)
	GetUserInfo(ctx context.Context, name string) (*model.User, error)
	GetUserClicks(ctx context.Context, name string) ([]model.ClickEvent, error)
}

// Сообщения интерфейса
const (
	MsgEnterUsername  = "Please enter a username"
	MsgFillAllFields  = "Please fill all fields"
	MsgUserNotFound   = "User not found"
	MsgNoClicks       = "No clicks found for this user"
	MsgErrCreateUser  = "Error creating user"
	MsgErrCreateTiny  = "Error creating tiny URL"
	MsgErrUserInfo    = "Error fetching user info"
	MsgErrFetchClicks = "Error fetching clicks"
)

// Ключи операций панели
const (
	opCreateUser = "createUser"
	opUserInfo   = "userInfo"
	opUserClicks = "userClicks"
)

// State - состояние панели
type State struct {
	Username string
	LongURL  string
	TinyURL  string
	UserInfo *model.User
	Clicks   []model.ClickEvent

	CreateUserMessage string
	CreateUserOK      bool // сообщение о создании пользователя - подтверждение, а не ошибка
	CreateTinyMessage string
	UserInfoMessage   string
	ClicksMessage     string
}

// Panel - панель одного пользователя интерфейса: поля форм, результаты
// и сообщение для каждой операции. Безопасна для конкурентного использования
type Panel struct {
	api      API
	zaplog   *zap.Logger
	creating *inflight.Set
	latest   *inflight.Latest

	mux   sync.Mutex
	state State
}

// NewPanel создает пустую панель
func NewPanel(api API, zaplog *zap.Logger) *Panel {
	return &Panel{
		api:      api,
		zaplog:   zaplog,
		creating: inflight.NewSet(),
		latest:   inflight.NewLatest(),
	}
}

// Snapshot возвращает копию состояния
func (p *Panel) Snapshot() State {
	p.mux.Lock()
	defer p.mux.Unlock()

	state := p.state
	if p.state.Clicks != nil {
		state.Clicks = append([]model.ClickEvent(nil), p.state.Clicks...)
	}
	return state
}

// CreateUser создает пользователя.
// Пока создание не завершено, следующий вызов панели (с любым именем)
// не обращается к API и не меняет состояние: ErrBusy
func (p *Panel) CreateUser(ctx context.Context, name string) error {
	var msg string
	started := false
	err := p.creating.Do(opCreateUser, func() error {
		started = true
		p.update(func(s *State) { s.Username = name })

		var err error
		msg, err = p.api.CreateUser(ctx, name)
		return err
	})
	if !started {
		return err
	}

	p.update(func(s *State) {
		switch {
		case err == nil:
			s.CreateUserMessage, s.CreateUserOK = msg, true
		case errors.Is(err, client.ErrValidation):
			s.CreateUserMessage, s.CreateUserOK = MsgEnterUsername, false
		default:
			s.CreateUserMessage, s.CreateUserOK = p.failure(err, MsgErrCreateUser), false
		}
	})
	return err
}

// CreateTinyURL создает короткую ссылку
func (p *Panel) CreateTinyURL(ctx context.Context, longURL, owner string) error {
	p.update(func(s *State) { s.Username, s.LongURL = owner, longURL })

	short, err := p.api.CreateShortURL(ctx, longURL, owner)

	p.update(func(s *State) {
		switch {
		case err == nil:
			s.TinyURL = short
			s.CreateTinyMessage = ""
			s.LongURL = ""
		case errors.Is(err, client.ErrValidation):
			s.CreateTinyMessage = MsgFillAllFields
		default:
			s.CreateTinyMessage = p.failure(err, MsgErrCreateTiny)
		}
	})
	return err
}

// GetUserInfo обновляет статистику пользователя.
// Ответ, опередивший более поздний запрос, отбрасывается: ErrStale
func (p *Panel) GetUserInfo(ctx context.Context, name string) error {
	p.update(func(s *State) { s.Username = name })

	token := p.latest.Issue(opUserInfo)
	user, err := p.api.GetUserInfo(ctx, name)
	if staleErr := p.latest.Complete(opUserInfo, token); staleErr != nil {
		return staleErr
	}

	p.update(func(s *State) {
		switch {
		case err == nil:
			s.UserInfo = user
			s.UserInfoMessage = ""
		case errors.Is(err, client.ErrNotFound):
			s.UserInfo = nil
			s.UserInfoMessage = MsgUserNotFound
		case errors.Is(err, client.ErrValidation):
			s.UserInfoMessage = MsgEnterUsername
		default:
			s.UserInfo = nil
			s.UserInfoMessage = p.failure(err, MsgErrUserInfo)
		}
	})
	return err
}

// GetUserClicks обновляет список переходов.
// Ответ, опередивший более поздний запрос, отбрасывается: ErrStale
func (p *Panel) GetUserClicks(ctx context.Context, name string) error {
	p.update(func(s *State) { s.Username = name })

	token := p.latest.Issue(opUserClicks)
	clicks, err := p.api.GetUserClicks(ctx, name)
	if staleErr := p.latest.Complete(opUserClicks, token); staleErr != nil {
		return staleErr
	}

	p.update(func(s *State) {
		switch {
		case err == nil:
			s.Clicks = clicks
			s.ClicksMessage = ""
		case errors.Is(err, client.ErrNoClicks):
			s.Clicks = nil
			s.ClicksMessage = MsgNoClicks
		case errors.Is(err, client.ErrValidation):
			s.ClicksMessage = MsgEnterUsername
		default:
			s.Clicks = nil
			s.ClicksMessage = p.failure(err, MsgErrFetchClicks)
		}
	})
	return err
}

func (p *Panel) update(fn func(s *State)) {
	p.mux.Lock()
	defer p.mux.Unlock()

	fn(&p.state)
}

// failure журналирует ошибку и выбирает текст для пользователя:
// сообщение сервера, если оно есть
func (p *Panel) failure(err error, fallback string) string {
	p.zaplog.Error("API request failed", zap.Error(err))

	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	return fallback
}
