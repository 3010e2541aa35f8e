// Пакет client. Клиент API сервиса сокращения ссылок
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/iurnickita/tinyurl-front/internal/tinyurl/client/config"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/model"
)

// Пути API
const (
	pathUser       = "/user"
	pathTiny       = "/tiny"
	pathUserInfo   = "/user/{name}"
	pathUserClicks = "/user/{name}/clicks"
)

// UserCreatedMessage - подтверждение создания пользователя
const UserCreatedMessage = "User created successfully"

// Client - клиент API. Безопасен для конкурентного использования
type Client struct {
	rest           *resty.Client
	createUserJSON bool
	zaplog         *zap.Logger
}

// NewClient создает клиента по настройкам
func NewClient(cfg config.Config, zaplog *zap.Logger) (*Client, error) {
	baseURL, err := cfg.ResolveBaseURL()
	if err != nil {
		return nil, err
	}

	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.GetTimeout()).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetLogger(zaplog.Sugar())

	// журнал обращений к API
	rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		zaplog.Debug("API response",
			zap.String("method", resp.Request.Method),
			zap.String("url", resp.Request.URL),
			zap.Int("code", resp.StatusCode()),
			zap.Duration("duration", resp.Time()),
		)
		return nil
	})

	zaplog.Info("API client configured",
		zap.String("environment", string(cfg.Environment)),
		zap.String("baseURL", baseURL),
	)

	return &Client{
		rest:           rest,
		createUserJSON: cfg.CreateUserJSON,
		zaplog:         zaplog,
	}, nil
}

// CreateUser создает пользователя
func (c *Client) CreateUser(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", newErrValidation("name")
	}

	req := c.rest.R().SetContext(ctx)
	if c.createUserJSON {
		req.SetBody(map[string]string{"name": name})
	} else {
		req.SetQueryParam("name", name)
	}

	resp, err := req.Post(pathUser)
	if err = checkResponse("create user", resp, err); err != nil {
		return "", err
	}

	c.zaplog.Debug("user created", zap.String("name", name), zap.ByteString("body", resp.Body()))
	return UserCreatedMessage, nil
}

// CreateShortURL создает короткую ссылку для longURL от имени owner
func (c *Client) CreateShortURL(ctx context.Context, longURL, owner string) (string, error) {
	if longURL == "" {
		return "", newErrValidation("longUrl")
	}
	if owner == "" {
		return "", newErrValidation("userName")
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"longUrl": longURL, "userName": owner}).
		Post(pathTiny)
	if err = checkResponse("create short url", resp, err); err != nil {
		return "", err
	}

	raw := decodeShortURL(resp.Body())
	trimmed, cut := cutLongURL(raw, longURL)
	short := withTrailingSlash(trimmed)
	if short == "" {
		return "", fmt.Errorf("%w: empty short url", ErrMalformedResponse)
	}
	if cut {
		c.zaplog.Warn("unexpected long URL in short url response",
			zap.String("response", raw),
			zap.String("shortURL", short),
		)
	}
	return short, nil
}

// GetUserInfo возвращает пользователя со статистикой.
// Пустой ответ означает, что пользователя нет: ErrNotFound
func (c *Client) GetUserInfo(ctx context.Context, name string) (*model.User, error) {
	if name == "" {
		return nil, newErrValidation("name")
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Get(pathUserInfo)
	if err = checkResponse("get user info", resp, err); err != nil {
		return nil, err
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" || body == "null" {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, name)
	}

	var user model.User
	if err = json.Unmarshal([]byte(body), &user); err != nil {
		return nil, fmt.Errorf("%w: user info: %w", ErrMalformedResponse, err)
	}
	return &user, nil
}

// GetUserClicks возвращает переходы по ссылкам пользователя.
// Ответ, не являющийся непустым массивом, означает ErrNoClicks
func (c *Client) GetUserClicks(ctx context.Context, name string) ([]model.ClickEvent, error) {
	if name == "" {
		return nil, newErrValidation("name")
	}

	resp, err := c.rest.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Get(pathUserClicks)
	if err = checkResponse("get user clicks", resp, err); err != nil {
		return nil, err
	}

	var clicks []model.ClickEvent
	if err = json.Unmarshal(resp.Body(), &clicks); err != nil || len(clicks) == 0 {
		return nil, fmt.Errorf("%w for user %s", ErrNoClicks, name)
	}
	return clicks, nil
}

// checkResponse переводит ошибку сети или код вне 2xx в ошибку пакета
func checkResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
	}
	if !resp.IsSuccess() {
		return &ResponseError{
			Op:         op,
			StatusCode: resp.StatusCode(),
			Message:    serverMessage(resp.Body()),
		}
	}
	return nil
}
