package stubapi

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Rate limit tiers
const (
	// Payments and SMS confirmations (strict)
	limitPayment = rate.Limit(2)
	burstPayment = 5

	// Creates, deletes and status changes
	limitWrite = rate.Limit(10)
	burstWrite = 20

	// Lists and searches; search boxes fire often
	limitRead = rate.Limit(20)
	burstRead = 40
)

const visitorTTL = 3 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per client and tier.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	scale    float64
	stop     chan struct{}
	once     sync.Once
}

// NewLimiter starts a limiter whose tier rates are multiplied by scale.
// A scale of 0 or less disables limiting.
func NewLimiter(scale float64) *Limiter {
	l := &Limiter{
		visitors: make(map[string]*visitor),
		scale:    scale,
		stop:     make(chan struct{}),
	}
	if scale > 0 {
		go l.cleanup(time.Minute)
	}
	return l
}

func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) get(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r*rate.Limit(l.scale), max(1, int(float64(b)*l.scale)))}
		l.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *Limiter) cleanup(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evict(visitorTTL)
		}
	}
}

// evict drops clients not seen for longer than ttl.
func (l *Limiter) evict(ttl time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if time.Since(v.lastSeen) > ttl {
			delete(l.visitors, key)
		}
	}
}

// Middleware answers 429 once a client exhausts its bucket for the tier the
// request falls in.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if l.scale <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit, burst, tier := resolveTier(r)

		identity := r.Header.Get("X-Client-ID")
		if identity == "" {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		if !l.get(fmt.Sprintf("%s:%s", identity, tier), limit, burst).Allow() {
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func resolveTier(r *http.Request) (rate.Limit, int, string) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/paid"),
		strings.HasSuffix(r.URL.Path, "/match"),
		r.URL.Path == "/api/sms/webhook":
		return limitPayment, burstPayment, "payment"
	case r.Method == http.MethodGet:
		return limitRead, burstRead, "read"
	default:
		return limitWrite, burstWrite, "write"
	}
}
