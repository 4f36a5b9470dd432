// Package unsplash is a small client for the Unsplash photo search API.
//
//	client := unsplash.NewClient(&cfg.Unsplash, log)
//	page, err := client.SearchPhotos(ctx, unsplash.SearchParams{
//	    Query:     "mountains",
//	    Page:      1,
//	    PerPage:   20,
//	    AccessKey: key,
//	})
//
// Failures come back as *errors.Error: remote for any non-2xx status (the
// status is in Code), network for transport failures, parsing for bodies
// that are not a search response.
package unsplash
