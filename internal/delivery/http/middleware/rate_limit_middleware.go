package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"medical-appointments/config"
	"medical-appointments/pkg/response"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimiter is a fixed-window request counter per client IP and path kept in Redis.
// Requests pass when Redis is unreachable.
type RateLimiter struct {
	redisClient *redis.Client
	log         *logrus.Logger
	limit       int64
	window      time.Duration
	trusted     []*net.IPNet
}

func NewRateLimiter(redisClient *redis.Client, log *logrus.Logger, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		log:         log,
		limit:       int64(cfg.Limit),
		window:      cfg.Window,
		trusted:     parseTrusted(log, cfg.TrustedProxies),
	}
}

// parseTrusted accepts CIDRs and bare IPs; invalid entries are skipped.
func parseTrusted(log *logrus.Logger, entries []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(entries))
	for _, entry := range entries {
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				log.Warnf("Ignoring invalid trusted proxy %q", entry)
				continue
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(entry)
		if err != nil {
			log.Warnf("Ignoring invalid trusted proxy %q: %v", entry, err)
			continue
		}
		nets = append(nets, n)
	}
	return nets
}

func (l *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", r.URL.Path, l.clientIP(r))

		pipe := l.redisClient.Pipeline()
		incr := pipe.Incr(r.Context(), key)
		pipe.ExpireNX(r.Context(), key, l.window)
		if _, err := pipe.Exec(r.Context()); err != nil {
			l.log.Warnf("Failed to apply rate limit for %s: %+v", key, err)
			next.ServeHTTP(w, r)
			return
		}

		count := incr.Val()
		remaining := l.limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", fmt.Sprint(l.limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprint(remaining))

		if count > l.limit {
			w.Header().Set("Retry-After", fmt.Sprint(int(l.window.Seconds())))
			response.TooManyRequests(w, "Too many attempts, please try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP uses the direct peer address. When that peer is a trusted proxy it walks
// X-Forwarded-For from the right and returns the first hop that is not trusted.
func (l *RateLimiter) clientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !l.isTrusted(peer) {
		return peer
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !l.isTrusted(hop) {
			return hop
		}
	}
	return peer
}

func (l *RateLimiter) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range l.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}
