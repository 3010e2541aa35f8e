// Пакет config. Настройки клиента API сервиса сокращения
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Environment - окружение, для которого собрано приложение
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

const (
	DevelopmentBaseURL string        = "http://localhost:8080"
	DefaultTimeout     time.Duration = 10 * time.Second
)

// Ошибки пакета
var (
	ErrUnknownEnvironment = errors.New("unknown environment")
	ErrNoProductionURL    = errors.New("production base URL is not set")
	ErrInvalidBaseURL     = errors.New("invalid base URL")
)

type Config struct {
	Environment       Environment   // окружение
	BaseURL           string        // явный адрес API, имеет приоритет над окружением
	ProductionBaseURL string        // адрес API в рабочем окружении
	Timeout           time.Duration // таймаут запроса к API
	CreateUserJSON    bool          // имя пользователя передается в JSON-теле, а не в параметре запроса
}

// ParseEnvironment разбирает имя окружения. Пустая строка - Development
func ParseEnvironment(s string) (Environment, error) {
	switch env := Environment(strings.ToLower(strings.TrimSpace(s))); env {
	case "", "dev", Development:
		return Development, nil
	case "prod", Production:
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
	}
}

// ResolveBaseURL выбирает адрес API: явный, затем по окружению
func (c Config) ResolveBaseURL() (string, error) {
	base := c.BaseURL
	if base == "" {
		switch c.Environment {
		case "", Development:
			base = DevelopmentBaseURL
		case Production:
			if c.ProductionBaseURL == "" {
				return "", ErrNoProductionURL
			}
			base = c.ProductionBaseURL
		default:
			return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, c.Environment)
		}
	}

	// адрес без схемы допустим: localhost:8080
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, base)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// GetTimeout возвращает таймаут запроса, по умолчанию DefaultTimeout
func (c Config) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
