package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Header names Unsplash uses to report the hourly quota
const (
	HeaderLimit     = "X-Ratelimit-Limit"
	HeaderRemaining = "X-Ratelimit-Remaining"
)

// Quota is the server-side budget reported with a response
type Quota struct {
	Limit     int
	Remaining int
	Updated   time.Time
}

// Known reports whether any response carried quota headers yet
func (q Quota) Known() bool {
	return !q.Updated.IsZero()
}

// Low reports whether less than a tenth of the hourly limit is left
func (q Quota) Low() bool {
	return q.Known() && q.Limit > 0 && q.Remaining*10 < q.Limit
}

// Tracker remembers the last quota the server reported. The zero value is
// ready to use.
type Tracker struct {
	mu    sync.RWMutex
	quota Quota
}

// Observe records the quota headers of a response. Responses without them
// leave the tracker unchanged and report false.
func (t *Tracker) Observe(h http.Header) (Quota, bool) {
	limit, errL := strconv.Atoi(h.Get(HeaderLimit))
	remaining, errR := strconv.Atoi(h.Get(HeaderRemaining))
	if errL != nil || errR != nil {
		return t.Current(), false
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.quota = Quota{Limit: limit, Remaining: remaining, Updated: time.Now()}
	return t.quota, true
}

// Current returns the last observed quota
func (t *Tracker) Current() Quota {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.quota
}

// Reset forgets the observed quota
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.quota = Quota{}
}
