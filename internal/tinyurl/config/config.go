// Пакет config. Настройки приложения
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	clientConfig "github.com/iurnickita/tinyurl-front/internal/tinyurl/client/config"
	handlersConfig "github.com/iurnickita/tinyurl-front/internal/tinyurl/handlers/config"
	loggerConfig "github.com/iurnickita/tinyurl-front/internal/tinyurl/logger/config"
)

// DefaultEnvFile - файл с переменными окружения, читается при наличии
const DefaultEnvFile = ".env"

type Config struct {
	Client   clientConfig.Config
	Handlers handlersConfig.Config
	Logger   loggerConfig.Config
}

// envConfig - переменные окружения
type envConfig struct {
	AppEnv            string        `env:"APP_ENV" envDefault:"development"`
	APIBaseURL        string        `env:"API_BASE_URL"`
	APIProductionURL  string        `env:"API_PRODUCTION_URL"`
	APITimeout        time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	APICreateUserJSON bool          `env:"API_CREATE_USER_JSON"`
	ServerAddress     string        `env:"SERVER_ADDRESS" envDefault:"localhost:3000"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	RateLimitRPS      float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst    int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	ShutdownTimeout   time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// GetConfig собирает настройки: файл .env, переменные окружения, аргументы
// командной строки. Аргументы имеют преимущество перед переменными окружения
func GetConfig(args []string) (Config, error) {
	flags := struct {
		EnvFile    string
		AppEnv     string
		APIBaseURL string
		ServerAddr string
		LogLevel   string
	}{}
	fset := flag.NewFlagSet("tinyweb", flag.ContinueOnError)
	fset.StringVar(&flags.EnvFile, "env-file", DefaultEnvFile, "file with environment variables")
	fset.StringVar(&flags.AppEnv, "e", "", "environment: development or production")
	fset.StringVar(&flags.APIBaseURL, "b", "", "base URL of shortener API")
	fset.StringVar(&flags.ServerAddr, "a", "", "address of HTTP server")
	fset.StringVar(&flags.LogLevel, "l", "", "log level")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	// переменные окружения процесса не перезаписываются файлом
	if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", flags.EnvFile, err)
	}

	var envcfg envConfig
	if err := env.Parse(&envcfg); err != nil {
		return Config{}, err
	}

	if flags.AppEnv != "" {
		envcfg.AppEnv = flags.AppEnv
	}
	if flags.APIBaseURL != "" {
		envcfg.APIBaseURL = flags.APIBaseURL
	}
	if flags.ServerAddr != "" {
		envcfg.ServerAddress = flags.ServerAddr
	}
	if flags.LogLevel != "" {
		envcfg.LogLevel = flags.LogLevel
	}

	environment, err := clientConfig.ParseEnvironment(envcfg.AppEnv)
	if err != nil {
		return Config{}, err
	}

	return Config{
		Client: clientConfig.Config{
			Environment:       environment,
			BaseURL:           envcfg.APIBaseURL,
			ProductionBaseURL: envcfg.APIProductionURL,
			Timeout:           envcfg.APITimeout,
			CreateUserJSON:    envcfg.APICreateUserJSON,
		},
		Handlers: handlersConfig.Config{
			ServerAddr:      envcfg.ServerAddress,
			RateLimitRPS:    envcfg.RateLimitRPS,
			RateLimitBurst:  envcfg.RateLimitBurst,
			ShutdownTimeout: envcfg.ShutdownTimeout,
		},
		Logger: loggerConfig.Config{
			LogLevel: envcfg.LogLevel,
		},
	}, nil
}
