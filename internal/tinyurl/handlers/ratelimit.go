package handlers

import (
	"context"
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// maxLimiters - предел числа отслеживаемых адресов
const maxLimiters = 10000

type peerKey struct{}

// rateLimiter ограничивает частоту запросов с одного IP
type rateLimiter struct {
	mux      sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
	max      int
}

func newRateLimiter(rps float64, burst int) *rateLimiter {
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(rps),
		b:        burst,
		max:      maxLimiters,
	}
}

func (rl *rateLimiter) limiter(ip string) *rate.Limiter {
	rl.mux.Lock()
	defer rl.mux.Unlock()

	limiter, ok := rl.limiters[ip]
	if !ok {
		if len(rl.limiters) >= rl.max {
			rl.evict()
		}
		limiter = rate.NewLimiter(rl.r, rl.b)
		rl.limiters[ip] = limiter
	}
	return limiter
}

// evict удаляет полностью восстановившиеся лимиты: они не отличаются от новых.
// Если таких нет, удаляется произвольный
func (rl *rateLimiter) evict() {
	for ip, limiter := range rl.limiters {
		if limiter.Tokens() >= float64(rl.b) {
			delete(rl.limiters, ip)
		}
	}
	if len(rl.limiters) < rl.max {
		return
	}
	for ip := range rl.limiters {
		delete(rl.limiters, ip)
		break
	}
}

func (rl *rateLimiter) len() int {
	rl.mux.Lock()
	defer rl.mux.Unlock()

	return len(rl.limiters)
}

// Limit - middleware ограничения частоты
func (rl *rateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter(clientIP(r)).Allow() {
			http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rememberPeer сохраняет адрес соединения до того, как middleware.RealIP
// заменит его значением из заголовков запроса
func rememberPeer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP - адрес соединения без порта. Заголовки X-Forwarded-For
// и X-Real-IP не учитываются
func clientIP(r *http.Request) string {
	addr, ok := r.Context().Value(peerKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
