package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultPageSize  = 50
	DefaultPageDelay = 500 * time.Millisecond
	DefaultRating    = "g"
)

var ErrEmptyUsername = errors.New("empty username provided")

// Searcher walks every page of a search until giphy runs out of results.
type Searcher struct {
	client *Client

	PageSize int
	Delay    time.Duration
	Rating   string
}

func NewSearcher(client *Client) *Searcher {
	return &Searcher{
		client:   client,
		PageSize: DefaultPageSize,
		Delay:    DefaultPageDelay,
		Rating:   DefaultRating,
	}
}

// Search returns every item of the category authored by the user.
//
// A page shorter than the page size ends the search. When ctx is done the items
// found so far are returned without an error. When a page fails the items found
// so far are returned together with the error.
func (s *Searcher) Search(ctx context.Context, category Category, username string) ([]Item, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	pageSize := s.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var (
		items = make([]Item, 0, pageSize)
		seen  = make(map[string]struct{})
		opts  = &SearchOptions{
			Category: category,
			Query:    "@" + username,
			Rating:   s.Rating,
			Limit:    pageSize,
			Offset:   0,
		}
	)

	for {
		if ctx.Err() != nil {
			log.Debug().Str("category", category.String()).Msg("search stopped")
			return items, nil
		}

		page, err := s.client.Search.Page(ctx, opts)
		if err != nil {
			if ctx.Err() != nil {
				return items, nil
			}
			return items, fmt.Errorf("search %s (offset=%d): %w", category.Endpoint(), opts.Offset, err)
		}

		for _, item := range page {
			if item.ID == "" {
				log.Debug().Str("title", item.Title).Msg("skipped an item without id")
				continue
			}
			if _, ok := seen[item.ID]; ok {
				log.Debug().Str("id", item.ID).Msg("skipped a duplicate item")
				continue
			}
			seen[item.ID] = struct{}{}
			item.Category = category
			items = append(items, item)
		}

		if len(page) < pageSize {
			return items, nil
		}
		opts.Offset += pageSize

		if !sleep(ctx, s.Delay) {
			return items, nil
		}
	}
}

// Client returns the client the searcher sends its requests with.
func (s *Searcher) Client() *Client {
	return s.client
}

// sleep pauses for d, returning false if ctx was done first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
