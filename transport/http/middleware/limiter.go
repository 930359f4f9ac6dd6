package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"unibook/shared"
	"unibook/shared/cache"
	"unibook/shared/constant"
	"unibook/transport/http/response"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownClient     = "unknown"
)

// RateLimit allows MaxRequests per client per fixed window. Each window has its own counter key so
// saving the count never extends the window. Cache failures let the request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable || limits.MaxRequests <= 0 || limits.WindowSeconds <= 0 {
				next.ServeHTTP(w, r)

				return
			}

			window := time.Duration(limits.WindowSeconds) * time.Second
			windowStart := time.Now().Truncate(window)
			cacheKey := rateLimitKey(clientIP(r), userAgent(r), windowStart)

			count := 0
			if err := a.cache.Get(r.Context(), cacheKey, &count); err != nil && !cache.IsMiss(err) {
				log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)

				return
			}

			count++

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limits.MaxRequests-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if count > limits.MaxRequests {
				retryAfter := int(time.Until(windowStart.Add(window)).Seconds()) + 1
				w.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(retryAfter))
				response.WithRequestLimitExceeded(w)

				return
			}

			if err := a.cache.Save(r.Context(), cacheKey, count, limits.WindowSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to persist rate limit counter")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func rateLimitKey(clientIP, userAgent string, windowStart time.Time) string {
	return shared.BuildCacheKey(cacheKeyRateLimit, clientIP, userAgent, strconv.FormatInt(windowStart.Unix(), 10))
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != constant.Empty {
		return ua
	}

	return unknownClient
}

// clientIP reads RemoteAddr, which chi's RealIP middleware has already resolved from proxy headers.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	if r.RemoteAddr != constant.Empty {
		return r.RemoteAddr
	}

	return unknownClient
}
