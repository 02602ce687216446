// Package pipeline searches for the content of a user and saves it to disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/handsomefox/giphydl/api"
	"github.com/handsomefox/giphydl/downloader"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// maxLabelLength is the maximum length of an item title in progress updates.
const maxLabelLength = 18

var ErrAlreadyRunning = errors.New("a run is already in progress")

// Searcher returns every item of a category authored by the user, *api.Searcher implements it.
type Searcher interface {
	Search(ctx context.Context, category api.Category, username string) ([]api.Item, error)
}

// Fetcher saves a single file, *downloader.Downloader implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url, path string) (downloader.Result, error)
}

// Pipeline runs the search for every requested category, then downloads the items one by one.
type Pipeline struct {
	running atomic.Bool

	searcher Searcher
	fetcher  Fetcher
	observer Observer
}

func New(searcher Searcher, fetcher Fetcher, observer Observer) *Pipeline {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Pipeline{
		searcher: searcher,
		fetcher:  fetcher,
		observer: observer,
	}
}

// ForRequest returns a Pipeline talking to giphy with the api key of the request.
func ForRequest(req Request, observer Observer) *Pipeline {
	client := api.NewClient(req.APIKey)
	return New(api.NewSearcher(client), downloader.New(client), observer)
}

// Run executes a whole run and blocks until it is over.
//
// Cancelling ctx stops the run, it is checked between search pages, between items
// and between the chunks of a file. An error is returned only when the run could not
// be started, a run that found nothing ends in StateFailed.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRunning
	}
	defer p.running.Store(false)

	r := &run{
		observer: p.observer,
		outcome:  &Outcome{RunID: uuid.NewString(), State: StateIdle},
	}
	r.log = log.With().Str("run_id", r.outcome.RunID).Logger()
	r.setState(StateRunning)

	username := req.username()
	r.infof("searching content of user %q", username)

	items := p.search(ctx, r, &req, username)
	r.outcome.Found = len(items)

	if ctx.Err() != nil {
		return r.cancel(), nil
	}
	if len(items) == 0 {
		r.errorf("no content found for user %q", username)
		r.setState(StateFailed)
		return r.outcome, nil
	}

	r.infof("found %d file(s) in total, starting download", len(items))

	dest := filepath.Join(req.Root, username)
	for i := range items {
		if ctx.Err() != nil {
			return r.cancel(), nil
		}
		if !p.download(ctx, r, &items[i], dest, req.Quality) {
			return r.cancel(), nil
		}
		r.progress(float64(i+1)/float64(len(items)), label(&items[i]))
	}

	if ctx.Err() != nil {
		return r.cancel(), nil
	}

	r.progress(1, "")
	r.infof("download finished, %d file(s) downloaded (%s)", r.outcome.Downloaded, humanize.Bytes(uint64(r.outcome.Bytes)))
	r.infof("files saved to %s", dest)
	r.setState(StateCompleted)

	return r.outcome, nil
}

// search runs the Searcher for every category, keeping the order of the categories.
func (p *Pipeline) search(ctx context.Context, r *run, req *Request, username string) []api.Item {
	var items []api.Item
	for _, c := range req.categories() {
		if ctx.Err() != nil {
			break
		}

		r.progress(0, "searching "+c.Endpoint())
		found, err := p.searcher.Search(ctx, c, username)
		if err != nil {
			r.errorf("%s search failed: %s", c, err)
		}

		for i := range found {
			found[i].Category = c
		}
		items = append(items, found...)

		r.infof("found %d %s(s)", len(found), c)
	}
	return items
}

// download saves a single item, counting the result. It returns false when the
// download was interrupted by ctx.
func (p *Pipeline) download(ctx context.Context, r *run, item *api.Item, dest string, q api.QualityTier) bool {
	dir := filepath.Join(dest, item.Category.Dir())
	if err := downloader.EnsureDir(dir); err != nil {
		r.outcome.Failed++
		r.errorf("download failed %s: %s", item.ID, err)
		return true
	}

	u, ok := api.Resolve(item, q)
	if !ok {
		r.log.Debug().Str("id", item.ID).Msg("skipped an item without renditions")
		r.outcome.Skipped++
		return true
	}

	filename, err := downloader.Filename(item.ID, u)
	if err != nil {
		r.outcome.Failed++
		r.errorf("download failed %s: %s", item.ID, err)
		return true
	}

	res, err := p.fetcher.Fetch(ctx, u, filepath.Join(dir, filename))
	switch {
	case err != nil:
		r.outcome.Failed++
		r.errorf("download failed %s: %s", filename, err)
	case res.Cancelled:
		r.log.Debug().Str("file", filename).Msg("download interrupted")
		return false
	default:
		r.outcome.Downloaded++
		r.outcome.Bytes += res.Written
		r.successf("downloaded %s (%s quality, %s)", filename, q, humanize.Bytes(uint64(res.Written)))
	}
	return true
}

// label is the item title as shown next to the progress.
func label(item *api.Item) string {
	title := item.Title
	if title == "" {
		title = item.ID
	}
	runes := []rune(title)
	if len(runes) > maxLabelLength {
		return string(runes[:maxLabelLength])
	}
	return title
}

// run collects the outcome of a single run and forwards everything to the observer.
type run struct {
	observer Observer
	outcome  *Outcome
	log      zerolog.Logger
}

func (r *run) emit(level Level, msg string) {
	e := Event{Time: time.Now(), Level: level, Message: msg}
	r.outcome.Events = append(r.outcome.Events, e)

	r.log.Debug().Stringer("event", level).Msg(msg)
	r.observer.OnLog(e)
}

func (r *run) infof(format string, args ...any) {
	r.emit(LevelInfo, fmt.Sprintf(format, args...))
}

func (r *run) successf(format string, args ...any) {
	r.emit(LevelSuccess, fmt.Sprintf(format, args...))
}

func (r *run) errorf(format string, args ...any) {
	r.emit(LevelError, fmt.Sprintf(format, args...))
}

func (r *run) progress(fraction float64, label string) {
	r.observer.OnProgress(fraction, label)
}

func (r *run) setState(s State) {
	r.outcome.State = s
	r.log.Debug().Stringer("state", s).Msg("state changed")
	r.observer.OnStateChange(s)
}

func (r *run) cancel() *Outcome {
	r.infof("download stopped")
	r.setState(StateCancelled)
	return r.outcome
}
