package gallery

import (
	"context"
	"strings"

	"github.com/rs/xid"

	"screenpapers/internal/downloader"
	"screenpapers/pkg/config"
	"screenpapers/pkg/errors"
	"screenpapers/pkg/logger"
	"screenpapers/pkg/metadata"
	"screenpapers/pkg/unsplash"
)

// Messages shown in the error area. Only one is visible at a time.
const (
	MsgEmptyQuery  = "Please enter a search term."
	MsgMissingKey  = "API key is missing. Please check your .env file."
	MsgNoImages    = "No images found. Please try a different search term."
	MsgFetchFailed = "An error occurred while fetching the images. Please try again later."
)

// ErrMissingKey is returned by Fetch when no access key was configured
var ErrMissingKey = errors.New(errors.ErrorTypeConfiguration, "access key is missing")

// Phase is the coarse lifecycle of the controller
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSearching
	PhaseSettled
)

func (p Phase) String() string {
	switch p {
	case PhaseSearching:
		return "searching"
	case PhaseSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Image is one search hit as the browser sees it
type Image struct {
	ID          string
	PreviewURL  string
	DownloadURL string
	AltText     string

	// Credit and details for the metadata sidecar
	Description  string
	Width        int
	Height       int
	Photographer string
	Username     string
	PageURL      string
}

func imageFromPhoto(p unsplash.Photo) Image {
	return Image{
		ID:           p.ID,
		PreviewURL:   p.URLs.Regular,
		DownloadURL:  p.Links.Download,
		AltText:      p.AltDescription,
		Description:  p.Description,
		Width:        p.Width,
		Height:       p.Height,
		Photographer: p.User.Name,
		Username:     p.User.Username,
		PageURL:      p.Links.HTML,
	}
}

// Metadata is what gets saved next to the downloaded photo
func (img Image) Metadata() *metadata.PhotoMetadata {
	return &metadata.PhotoMetadata{
		ID:          img.ID,
		Description: img.Description,
		AltText:     img.AltText,
		Width:       img.Width,
		Height:      img.Height,
		Photographer: metadata.Photographer{
			Name:     img.Photographer,
			Username: img.Username,
		},
		PageURL:   img.PageURL,
		SourceURL: img.DownloadURL,
	}
}

func jobFor(img Image) downloader.Job {
	job := downloader.NewJob(img.ID, img.DownloadURL)
	job.Meta = img.Metadata()
	return job
}

// Request is a fetch captured at dispatch time. Later edits to the
// controller's query or page do not affect a request already issued.
type Request struct {
	Query string
	Page  int
}

// Result is the outcome of one Fetch, waiting to be applied
type Result struct {
	Request    Request
	Images     []Image
	Total      int
	TotalPages int
	Err        error
}

// State is a read-only snapshot for rendering
type State struct {
	Query      string
	Page       int
	Images     []Image
	Error      string
	Searched   bool
	Pending    int
	Total      int
	TotalPages int
	Phase      Phase
}

// CanGoPrevious reports whether the Previous control is enabled
func (s State) CanGoPrevious() bool {
	return s.Page > 1
}

// ShowPagination reports whether the pagination bar is rendered at all.
// Next has no upper bound and is always enabled while it is shown.
func (s State) ShowPagination() bool {
	return s.Searched
}

// Controller owns the search state: query, page, results, error message
// and the searched flag.
//
// Every method except Fetch and the download helpers mutates state and
// must be called from a single goroutine (the UI loop). Fetch only reads
// its arguments and may run anywhere. Responses are applied in completion
// order; the last one to arrive wins.
type Controller struct {
	accessKey string
	perPage   int
	searcher  Searcher
	saver     Saver
	logger    logger.Logger

	query      string
	page       int
	images     []Image
	errMsg     string
	searched   bool
	settled    bool
	pending    int
	total      int
	totalPages int
}

// New creates a controller. The access key is injected once here and is
// never looked up again; an empty key surfaces as MsgMissingKey on the
// first fetch.
func New(accessKey string, searcher Searcher, saver Saver, log logger.Logger) *Controller {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Controller{
		accessKey: strings.TrimSpace(accessKey),
		perPage:   config.PerPage,
		searcher:  searcher,
		saver:     saver,
		logger:    log.WithField("component", "gallery"),
		page:      1,
	}
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	images := make([]Image, len(c.images))
	copy(images, c.images)

	phase := PhaseIdle
	switch {
	case c.pending > 0:
		phase = PhaseSearching
	case c.settled:
		phase = PhaseSettled
	}

	return State{
		Query:      c.query,
		Page:       c.page,
		Images:     images,
		Error:      c.errMsg,
		Searched:   c.searched,
		Pending:    c.pending,
		Total:      c.total,
		TotalPages: c.totalPages,
		Phase:      phase,
	}
}

// Submit handles an explicit search. Blank input sets MsgEmptyQuery and
// dispatches nothing. Otherwise the trimmed input becomes the query, the
// page resets to 1 and a page-1 request is returned for dispatch.
func (c *Controller) Submit(input string) (Request, bool) {
	query := strings.TrimSpace(input)
	if query == "" {
		c.errMsg = MsgEmptyQuery
		c.settled = true
		return Request{}, false
	}

	c.query = query
	c.page = 1
	c.searched = true

	return c.dispatch(), true
}

// NextPage advances the page unconditionally. A request is returned only
// once a search has been run.
func (c *Controller) NextPage() (Request, bool) {
	c.page++
	if !c.searched {
		return Request{}, false
	}
	return c.dispatch(), true
}

// PreviousPage steps back one page unless already on page 1
func (c *Controller) PreviousPage() (Request, bool) {
	if c.page <= 1 {
		return Request{}, false
	}
	c.page--
	if !c.searched {
		return Request{}, false
	}
	return c.dispatch(), true
}

func (c *Controller) dispatch() Request {
	c.pending++
	return Request{Query: c.query, Page: c.page}
}

// Fetch performs the network call for a request. It does not touch
// controller state and is safe to call from any goroutine.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	res := Result{Request: req}

	if c.accessKey == "" {
		res.Err = ErrMissingKey
		return res
	}

	resp, err := c.searcher.SearchPhotos(ctx, unsplash.SearchParams{
		Query:     req.Query,
		Page:      req.Page,
		PerPage:   c.perPage,
		AccessKey: c.accessKey,
	})
	if err != nil {
		res.Err = err
		return res
	}

	res.Images = make([]Image, 0, len(resp.Results))
	for _, p := range resp.Results {
		res.Images = append(res.Images, imageFromPhoto(p))
	}
	res.Total = resp.Total
	res.TotalPages = resp.TotalPages
	return res
}

// Apply folds a finished fetch into the state. A page-1 result replaces
// the result set, any later page appends to it; the decision uses the
// page captured in the request, not the current page.
func (c *Controller) Apply(res Result) {
	if c.pending > 0 {
		c.pending--
	}
	c.settled = true

	if res.Err != nil {
		c.errMsg = c.messageFor(res)
		return
	}

	if res.Request.Page <= 1 {
		c.images = res.Images
	} else {
		c.images = append(c.images, res.Images...)
	}
	c.total = res.Total
	c.totalPages = res.TotalPages
	c.errMsg = ""

	c.logger.DebugWithFields("search results applied", map[string]interface{}{
		"query":   res.Request.Query,
		"page":    res.Request.Page,
		"added":   len(res.Images),
		"showing": len(c.images),
	})
}

// messageFor maps a failed fetch to the one message the user sees
func (c *Controller) messageFor(res Result) string {
	fields := map[string]interface{}{
		"query": res.Request.Query,
		"page":  res.Request.Page,
	}

	switch errors.TypeOf(res.Err) {
	case errors.ErrorTypeConfiguration:
		c.logger.Warn("search attempted without an access key")
		return MsgMissingKey
	case errors.ErrorTypeRemote:
		c.logger.WithError(res.Err).WarnWithFields("search rejected by API", fields)
		return MsgNoImages
	default:
		guid := xid.New().String()
		fields["guid"] = guid
		c.logger.WithError(res.Err).ErrorWithFields("image search failed", fields)
		return MsgFetchFailed
	}
}

// Search runs Submit, Fetch and Apply in one go. It reports whether a
// fetch was attempted.
func (c *Controller) Search(ctx context.Context, input string) bool {
	req, ok := c.Submit(input)
	if !ok {
		return false
	}
	c.Apply(c.Fetch(ctx, req))
	return true
}

// Next is the synchronous form of NextPage
func (c *Controller) Next(ctx context.Context) bool {
	req, ok := c.NextPage()
	if !ok {
		return false
	}
	c.Apply(c.Fetch(ctx, req))
	return true
}

// Previous is the synchronous form of PreviousPage
func (c *Controller) Previous(ctx context.Context) bool {
	req, ok := c.PreviousPage()
	if !ok {
		return false
	}
	c.Apply(c.Fetch(ctx, req))
	return true
}

// Lookup finds an image in the current result set
func (c *Controller) Lookup(id string) (Image, bool) {
	for _, img := range c.images {
		if img.ID == id {
			return img, true
		}
	}
	return Image{}, false
}

// DownloadJob prepares the download of one image. An unknown id yields
// false and nothing else happens.
func (c *Controller) DownloadJob(id string) (downloader.Job, bool) {
	img, ok := c.Lookup(id)
	if !ok {
		return downloader.Job{}, false
	}
	return jobFor(img), true
}

// DownloadAllJobs prepares a job for every image currently shown
func (c *Controller) DownloadAllJobs() []downloader.Job {
	jobs := make([]downloader.Job, 0, len(c.images))
	for _, img := range c.images {
		jobs = append(jobs, jobFor(img))
	}
	return jobs
}

// SaveJob runs a prepared download. It does not touch controller state.
func (c *Controller) SaveJob(ctx context.Context, job downloader.Job) downloader.Result {
	return c.saver.Download(ctx, job)
}

// SaveJobs runs prepared downloads through the pool
func (c *Controller) SaveJobs(ctx context.Context, jobs []downloader.Job, onResult func(downloader.Result)) []downloader.Result {
	return c.saver.Run(ctx, jobs, onResult)
}

// DownloadImage saves the image with this id as <id>.jpg. It returns
// false without doing anything when the id is not in the result set.
// Failures are reported in the result, never through the error area.
func (c *Controller) DownloadImage(ctx context.Context, id string) (downloader.Result, bool) {
	job, ok := c.DownloadJob(id)
	if !ok {
		c.logger.DebugWithFields("download requested for unknown image", map[string]interface{}{
			"image_id": id,
		})
		return downloader.Result{}, false
	}
	return c.SaveJob(ctx, job), true
}

// DownloadAll saves every image in the result set
func (c *Controller) DownloadAll(ctx context.Context, onResult func(downloader.Result)) []downloader.Result {
	return c.SaveJobs(ctx, c.DownloadAllJobs(), onResult)
}
