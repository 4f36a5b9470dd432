// Package gallery holds the search controller behind the photo browser.
//
// The controller keeps the submitted query, the page cursor, the
// accumulated result set, a single error message and whether a search has
// been run. User actions (Submit, NextPage, PreviousPage) update that state
// and return a Request capturing the query and page at that moment. The
// caller performs the request with Fetch, on any goroutine, and hands the
// Result back to Apply on the goroutine that owns the controller.
//
// There is no sequencing between in-flight requests: if several are
// outstanding they are applied in completion order, and each one replaces
// or appends based on its own captured page.
package gallery
