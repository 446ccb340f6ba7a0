package server

import (
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// uploadLimiter throttles document uploads across all clients. Analysis
// is CPU-bound, so one shared bucket bounds the work in flight.
type uploadLimiter struct {
	limiter atomic.Pointer[rate.Limiter]
}

func newUploadLimiter(perSecond float64, burst int) *uploadLimiter {
	l := &uploadLimiter{}
	l.set(perSecond, burst)
	return l
}

// set reconfigures the bucket; perSecond <= 0 disables limiting. A changed
// setting installs a new bucket, which starts full.
func (l *uploadLimiter) set(perSecond float64, burst int) {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		if burst < 1 {
			burst = 1
		}
	} else {
		burst = 0
	}
	if cur := l.limiter.Load(); cur != nil && cur.Limit() == limit && cur.Burst() == burst {
		return
	}
	l.limiter.Store(rate.NewLimiter(limit, burst))
}

func (l *uploadLimiter) middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := l.limiter.Load().Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(delay)))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"too many uploads; retry later"}`))
			return
		}
		next(w, r)
	}
}

func retryAfterSeconds(d time.Duration) int {
	return int(math.Max(1, math.Ceil(d.Seconds())))
}
