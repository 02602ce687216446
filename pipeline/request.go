package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/handsomefox/giphydl/api"
)

var (
	ErrEmptyAPIKey     = errors.New("empty api key provided")
	ErrEmptyUsername   = errors.New("empty username provided")
	ErrEmptyCategories = errors.New("no content category selected")
	ErrEmptyRoot       = errors.New("empty destination directory provided")
)

// Request describes a single run, it is not modified by the Pipeline.
type Request struct {
	// APIKey is the key ForRequest builds the client with. A Pipeline made with New
	// sends the key of the client it was given.
	APIKey     string
	Username   string
	Categories []api.Category
	Quality    api.QualityTier
	Root       string
}

// Validate checks that the run can be started.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.APIKey) == "" {
		return ErrEmptyAPIKey
	}
	if strings.TrimSpace(r.Username) == "" {
		return ErrEmptyUsername
	}
	if len(r.Categories) == 0 {
		return ErrEmptyCategories
	}
	for _, c := range r.Categories {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", api.ErrUnknownCategory, c)
		}
	}
	if strings.TrimSpace(r.Root) == "" {
		return ErrEmptyRoot
	}
	return nil
}

// username is the name used for the search and the destination directory.
func (r *Request) username() string {
	return strings.TrimPrefix(strings.TrimSpace(r.Username), "@")
}

// categories returns the requested categories without duplicates, keeping the order.
func (r *Request) categories() []api.Category {
	out := make([]api.Category, 0, len(r.Categories))
	seen := make(map[api.Category]bool, len(r.Categories))
	for _, c := range r.Categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
