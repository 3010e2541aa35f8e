package handlers

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	netutils "github.com/iurnickita/tinyurl-front/internal/common/net_utils"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/client"
	clientConfig "github.com/iurnickita/tinyurl-front/internal/tinyurl/client/config"
	handlersConfig "github.com/iurnickita/tinyurl-front/internal/tinyurl/handlers/config"
	"github.com/iurnickita/tinyurl-front/internal/tinyurl/service"
)

// newBackend - тестовый сервис сокращения
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /user", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("name") == "taken" {
			http.Error(w, "User already exists", http.StatusConflict)
			return
		}
		io.WriteString(w, "ok")
	})
	mux.HandleFunc("POST /tiny", func(w http.ResponseWriter, r *http.Request) {
		// ответ с ошибкой: длинная ссылка приклеена к короткой
		io.WriteString(w, "http://x/abc/https://long.example.com")
	})
	mux.HandleFunc("GET /user/{name}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("name") != "alice" {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"name": "alice", "allUrlClicks": 3,
			"shorts": {"abc": {"clicks": {"2024-01-05 13:07:02": 3}}}}`)
	})
	mux.HandleFunc("GET /user/{name}/clicks", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("name") != "alice" {
			io.WriteString(w, "[]")
			return
		}
		io.WriteString(w, `[{"clickTime": "2024-01-05 13:07:02", "longUrl": "https://long.example.com", "tiny": "abc"}]`)
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// newTestServer - интерфейс, подключенный к тестовому сервису
func newTestServer(t *testing.T, cfg handlersConfig.Config) *httptest.Server {
	t.Helper()

	backend := newBackend(t)
	api, err := client.NewClient(clientConfig.Config{BaseURL: backend.URL}, zap.NewNop())
	require.NoError(t, err)

	sessions := service.NewSessions(api, zap.NewNop(), 0)
	ts := httptest.NewServer(newRouter(newHandlers(cfg, sessions, zap.NewNop())))
	t.Cleanup(ts.Close)
	return ts
}

// submit отправляет форму и возвращает страницу, на которую перенаправил сервер
func submit(t *testing.T, c *http.Client, ts *httptest.Server, path string, form url.Values) string {
	t.Helper()

	resp, err := c.PostForm(ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/", resp.Request.URL.Path)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func newBrowser(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func TestHandlers(t *testing.T) {
	tests := []struct {
		name string
		path string
		form url.Values
		want []string
	}{
		{
			name: "create user",
			path: "/user",
			form: url.Values{"username": {"alice"}},
			want: []string{`class="success-message">User created successfully`},
		}, {
			name: "create user conflict",
			path: "/user",
			form: url.Values{"username": {"taken"}},
			want: []string{`class="error-message">User already exists`},
		}, {
			name: "create user without name",
			path: "/user",
			form: url.Values{"username": {"  "}},
			want: []string{"Please enter a username"},
		}, {
			name: "create tiny url",
			path: "/tiny",
			form: url.Values{"username": {"alice"}, "longUrl": {"https://long.example.com"}},
			want: []string{`<a href="http://x/abc/"`},
		}, {
			name: "create tiny url without url",
			path: "/tiny",
			form: url.Values{"username": {"alice"}},
			want: []string{"Please fill all fields"},
		}, {
			name: "user info",
			path: "/info",
			form: url.Values{"username": {"alice"}},
			want: []string{"Name: alice", "Total Clicks: 3", "2024-01-05 13:07:02: 3 clicks"},
		}, {
			name: "unknown user info",
			path: "/info",
			form: url.Values{"username": {"nobody"}},
			want: []string{"User not found"},
		}, {
			name: "clicks",
			path: "/clicks",
			form: url.Values{"username": {"alice"}},
			want: []string{"05/01/2024 at 13:07:02 - https://long.example.com (Tiny: abc)"},
		}, {
			name: "no clicks",
			path: "/clicks",
			form: url.Values{"username": {"bob"}},
			want: []string{"No clicks found for this user"},
		},
	}

	ts := newTestServer(t, handlersConfig.Config{RateLimitRPS: 1000, RateLimitBurst: 1000})

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			page := submit(t, newBrowser(t), ts, test.path, test.form)
			for _, want := range test.want {
				require.Contains(t, page, want)
			}
		})
	}
}

func TestHandlers_SessionKeepsState(t *testing.T) {
	ts := newTestServer(t, handlersConfig.Config{RateLimitRPS: 1000, RateLimitBurst: 1000})
	browser := newBrowser(t)

	submit(t, browser, ts, "/user", url.Values{"username": {"alice"}})
	page := submit(t, browser, ts, "/clicks", url.Values{"username": {"alice"}})
	require.Contains(t, page, "User created successfully")
	require.Contains(t, page, "(Tiny: abc)")

	// другая сессия ничего не видит
	resp, err := newBrowser(t).Get(ts.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NotContains(t, string(body), "User created successfully")
}

func TestHandlers_IndexDoesNotCreateSessions(t *testing.T) {
	backend := newBackend(t)
	api, err := client.NewClient(clientConfig.Config{BaseURL: backend.URL}, zap.NewNop())
	require.NoError(t, err)
	sessions := service.NewSessions(api, zap.NewNop(), 2)
	ts := httptest.NewServer(newRouter(newHandlers(handlersConfig.Config{RateLimitRPS: 1000, RateLimitBurst: 1000}, sessions, zap.NewNop())))
	defer ts.Close()

	browser := newBrowser(t)
	submit(t, browser, ts, "/user", url.Values{"username": {"alice"}})
	require.Equal(t, 1, sessions.Len())

	// страницы без cookie не заводят сессий и не вытесняют существующие
	for i := 0; i < 5; i++ {
		resp, err := http.Get(ts.URL + "/")
		require.NoError(t, err)
		require.Empty(t, resp.Cookies())
		require.NoError(t, resp.Body.Close())
	}
	require.Equal(t, 1, sessions.Len())

	resp, err := browser.Get(ts.URL + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Contains(t, string(body), "User created successfully")
}

func TestHandlers_RateLimit(t *testing.T) {
	ts := newTestServer(t, handlersConfig.Config{RateLimitRPS: 0.001, RateLimitBurst: 1})
	c := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := c.PostForm(ts.URL+"/info", url.Values{"username": {"alice"}})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	resp, err = c.PostForm(ts.URL+"/info", url.Values{"username": {"alice"}})
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// страница не ограничивается
	resp, err = c.Get(ts.URL + "/")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandlers_Ping(t *testing.T) {
	ts := newTestServer(t, handlersConfig.Config{})

	resp, err := http.Get(ts.URL + "/ping")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServe(t *testing.T) {
	addr, err := netutils.GetFreeAddr()
	require.NoError(t, err)
	sessions := service.NewSessions(nil, zap.NewNop(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, handlersConfig.Config{ServerAddr: addr}, sessions, zap.NewNop())
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/ping")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_AddrInUse(t *testing.T) {
	l, err := net.Listen("tcp", "localhost:0")
	require.NoError(t, err)
	defer l.Close()

	err = Serve(context.Background(), handlersConfig.Config{ServerAddr: l.Addr().String()},
		service.NewSessions(nil, zap.NewNop(), 0), zap.NewNop())
	require.Error(t, err)
}

func BenchmarkHandlers_Index(b *testing.B) {
	sessions := service.NewSessions(nil, zap.NewNop(), 0)
	h := newHandlers(handlersConfig.Config{}, sessions, zap.NewNop())
	_, id := sessions.Get("")

	// Сброс таймера
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: cookieSession, Value: id})
		w := httptest.NewRecorder()
		h.Index(w, r)
	}
}

func TestFormValue(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/user", strings.NewReader("username=+bob+"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	require.Equal(t, "bob", formValue(r, "username"))
}
