package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iurnickita/tinyurl-front/internal/tinyurl/client"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/config"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/handlers"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/logger"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.GetConfig(args)
	if err != nil {
		return err
	}

	zaplog, err := logger.NewZapLog(cfg.Logger)
	if err != nil {
		return err
	}
	defer zaplog.Sync()

	api, err := client.NewClient(cfg.Client, zaplog)
	if err != nil {
		return err
	}

	sessions := service.NewSessions(api, zaplog, 0)

	return handlers.Serve(ctx, cfg.Handlers, sessions, zaplog)
}

// Запуск с сервисом сокращения на локальной машине
// go run ./cmd/tinyweb -e development -a localhost:3000
// Рабочее окружение
// APP_ENV=production API_PRODUCTION_URL=https://tiny.example.com go run ./cmd/tinyweb
//
// curl -v http://localhost:3000/ping
// curl -v -c jar -b jar -d username=alice http://localhost:3000/user
// curl -v -c jar -b jar -d username=alice -d longUrl=one.co.il http://localhost:3000/tiny
// curl -v -c jar -b jar -d username=alice http://localhost:3000/info
// curl -v -c jar -b jar -d username=alice http://localhost:3000/clicks
// curl -v -b jar http://localhost:3000/
