package config

import "time"

const (
	DefaultServerAddr      string        = "localhost:3000"
	DefaultRateLimitRPS    float64       = 5
	DefaultRateLimitBurst  int           = 10
	DefaultShutdownTimeout time.Duration = 5 * time.Second
)

type Config struct {
	ServerAddr      string        // адрес HTTP-сервера интерфейса
	RateLimitRPS    float64       // лимит POST-запросов в секунду с одного IP
	RateLimitBurst  int           // допустимый всплеск запросов
	ShutdownTimeout time.Duration // ожидание завершения запросов при остановке
}
