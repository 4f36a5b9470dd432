package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"testing"
)

func quotaHeaders(limit, remaining string) http.Header {
	h := http.Header{}
	h.Set(HeaderLimit, limit)
	h.Set(HeaderRemaining, remaining)
	return h
}

func TestTrackerObserve(t *testing.T) {
	var tracker Tracker

	if tracker.Current().Known() {
		t.Error("Expected no quota before any response")
	}

	q, ok := tracker.Observe(quotaHeaders("50", "4"))
	if !ok {
		t.Fatal("Expected headers to be recorded")
	}
	if q.Limit != 50 || q.Remaining != 4 {
		t.Errorf("Observe() = %+v", q)
	}
	if !q.Known() {
		t.Error("Expected quota to be known")
	}

	// A response without headers keeps the last known quota
	if _, ok := tracker.Observe(http.Header{}); ok {
		t.Error("Expected missing headers to be ignored")
	}
	if got := tracker.Current().Remaining; got != 4 {
		t.Errorf("Current().Remaining = %d, want 4", got)
	}

	tracker.Reset()
	if tracker.Current().Known() {
		t.Error("Expected quota to be forgotten after Reset")
	}
}

func TestTrackerIgnoresGarbage(t *testing.T) {
	var tracker Tracker

	for _, h := range []http.Header{
		quotaHeaders("fifty", "4"),
		quotaHeaders("50", ""),
	} {
		if _, ok := tracker.Observe(h); ok {
			t.Errorf("Expected %v to be ignored", h)
		}
	}
	if tracker.Current().Known() {
		t.Error("Expected no quota after unparsable headers")
	}
}

func TestQuotaLow(t *testing.T) {
	tests := []struct {
		limit, remaining int
		want             bool
	}{
		{50, 4, true},
		{50, 5, false},
		{50, 40, false},
		{5000, 499, true},
		{0, 0, false},
	}
	for _, tt := range tests {
		var tracker Tracker
		q, _ := tracker.Observe(quotaHeaders(strconv.Itoa(tt.limit), strconv.Itoa(tt.remaining)))
		if got := q.Low(); got != tt.want {
			t.Errorf("Low() with %d/%d = %v, want %v", tt.remaining, tt.limit, got, tt.want)
		}
	}

	if (Quota{Limit: 50, Remaining: 0}).Low() {
		t.Error("Expected an unobserved quota never to be low")
	}
}

func TestTrackerConcurrentUse(t *testing.T) {
	var tracker Tracker
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Observe(quotaHeaders("50", "25"))
			_ = tracker.Current()
		}()
	}
	wg.Wait()

	if got := tracker.Current().Remaining; got != 25 {
		t.Errorf("Current().Remaining = %d, want 25", got)
	}
}
