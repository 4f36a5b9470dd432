// Package ratelimit tracks the Unsplash hourly request quota.
//
// Every API response carries X-Ratelimit-Limit and X-Ratelimit-Remaining.
// Tracker keeps the latest pair so the client can warn when it runs low and
// the CLI can show what is left. Requests are never delayed or refused here;
// the server's own 403 is what the user sees when the quota is spent.
//
// Usage:
//
//	var quota ratelimit.Tracker
//	if q, ok := quota.Observe(resp.Header); ok && q.Low() {
//	    // warn the user
//	}
package ratelimit
