package gallery

import (
	"context"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/unsplash"
)

// Searcher runs one page of a photo search
type Searcher interface {
	SearchPhotos(ctx context.Context, params unsplash.SearchParams) (*unsplash.SearchResponse, error)
}

// Saver stores images locally; *downloader.Pool implements it
type Saver interface {
	Download(ctx context.Context, job downloader.Job) downloader.Result
	Run(ctx context.Context, jobs []downloader.Job, onResult func(downloader.Result)) []downloader.Result
}
