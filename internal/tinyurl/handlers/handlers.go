// Пакет handlers. Веб-интерфейс сервиса сокращения
package handlers

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/iurnickita/tinyurl-front/internal/common/datefmt"
	"github.com/iurnickita/tinyurl-front/internal/common/inflight"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/client"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/handlers/config"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/logger"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/service"
)

// cookieSession ключ cookie с идентификатором сессии
const cookieSession = "tinyurlSession"

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"formatDate": datefmt.FormatDate}).
		ParseFS(templatesFS, "templates/index.html"),
)

// Serve - запуск сервера. Работает до отмены ctx, затем останавливается,
// дожидаясь обработки текущих запросов
func Serve(ctx context.Context, cfg config.Config, sessions *service.Sessions, zaplog *zap.Logger) error {
	h := newHandlers(cfg, sessions, zaplog)

	addr := cfg.ServerAddr
	if addr == "" {
		addr = config.DefaultServerAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	zaplog.Info("HTTP server started", zap.String("addr", addr))

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	zaplog.Info("stopping HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	zaplog.Info("HTTP server stopped")
	return nil
}

func newRouter(h *handlers) chi.Router {
	router := chi.NewRouter()
	router.Use(rememberPeer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.RequestLogMdlw(h.zaplog))
	router.Use(middleware.Recoverer)

	router.Get("/", h.Index)
	router.Get("/ping", h.Ping)
	router.Group(func(r chi.Router) {
		r.Use(h.limiter.Limit)
		r.Post("/user", h.CreateUser)
		r.Post("/tiny", h.CreateTinyURL)
		r.Post("/info", h.GetUserInfo)
		r.Post("/clicks", h.GetUserClicks)
	})

	return router
}

type handlers struct {
	sessions *service.Sessions
	limiter  *rateLimiter
	zaplog   *zap.Logger
}

func newHandlers(cfg config.Config, sessions *service.Sessions, zaplog *zap.Logger) *handlers {
	rps, burst := cfg.RateLimitRPS, cfg.RateLimitBurst
	if rps <= 0 {
		rps = config.DefaultRateLimitRPS
	}
	if burst <= 0 {
		burst = config.DefaultRateLimitBurst
	}

	return &handlers{
		sessions: sessions,
		limiter:  newRateLimiter(rps, burst),
		zaplog:   zaplog,
	}
}

// Index выводит страницу с формами и результатами сессии.
// Сессия заводится только при отправке формы
func (h *handlers) Index(w http.ResponseWriter, r *http.Request) {
	var state service.State
	if panel, ok := h.sessions.Lookup(sessionID(r)); ok {
		state = panel.Snapshot()
	}

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, state); err != nil {
		h.zaplog.Error("render page", zap.Error(err))
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// Ping - проверка работоспособности
func (h *handlers) Ping(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// CreateUser - форма создания пользователя
func (h *handlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	panel := h.panel(w, r)
	err := panel.CreateUser(detach(r), formValue(r, "username"))
	h.finish(w, r, "create user", err)
}

// CreateTinyURL - форма создания короткой ссылки
func (h *handlers) CreateTinyURL(w http.ResponseWriter, r *http.Request) {
	panel := h.panel(w, r)
	err := panel.CreateTinyURL(detach(r), formValue(r, "longUrl"), formValue(r, "username"))
	h.finish(w, r, "create tiny url", err)
}

// GetUserInfo - форма статистики пользователя
func (h *handlers) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	panel := h.panel(w, r)
	err := panel.GetUserInfo(detach(r), formValue(r, "username"))
	h.finish(w, r, "get user info", err)
}

// GetUserClicks - форма списка переходов
func (h *handlers) GetUserClicks(w http.ResponseWriter, r *http.Request) {
	panel := h.panel(w, r)
	err := panel.GetUserClicks(detach(r), formValue(r, "username"))
	h.finish(w, r, "get user clicks", err)
}

// panel находит панель сессии, при необходимости заводит новую сессию
func (h *handlers) panel(w http.ResponseWriter, r *http.Request) *service.Panel {
	id := sessionID(r)
	panel, newID := h.sessions.Get(id)
	if newID != id {
		http.SetCookie(w, &http.Cookie{
			Name:     cookieSession,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return panel
}

func sessionID(r *http.Request) string {
	if cookie, err := r.Cookie(cookieSession); err == nil {
		return cookie.Value
	}
	return ""
}

// finish журналирует исход операции и возвращает пользователя на страницу
func (h *handlers) finish(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, inflight.ErrBusy), errors.Is(err, inflight.ErrStale):
		h.zaplog.Debug("operation result dropped", zap.String("op", op), zap.Error(err))
	case errors.Is(err, client.ErrValidation), errors.Is(err, client.ErrNotFound):
		h.zaplog.Debug("operation finished", zap.String("op", op), zap.Error(err))
	default:
		h.zaplog.Warn("operation failed", zap.String("op", op), zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// detach - запрос к API доводится до конца, даже если браузер отменил отправку формы
func detach(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

func formValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.PostFormValue(key))
}
