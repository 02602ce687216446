package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// maxErrorBody limits how much of an error response is read.
const maxErrorBody = 64 << 10

type SearchService struct {
	client *Client
}

// StatusError is returned when giphy responds with a non-success status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %d %s (%s)", ErrInvalidStatusCode, e.Code, http.StatusText(e.Code), e.Message)
	}
	return fmt.Sprintf("%s: %d %s", ErrInvalidStatusCode, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error {
	return ErrInvalidStatusCode
}

// Page fetches a single page of search results.
func (s *SearchService) Page(ctx context.Context, opts *SearchOptions) ([]Item, error) {
	res, err := s.client.Do(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &StatusError{Code: res.StatusCode, Message: remoteMessage(b)}
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't read response body: %s", ErrMalformedResponse, err)
	}

	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("%w: body is not valid json", ErrMalformedResponse)
	}
	if data := gjson.GetBytes(b, "data"); !data.IsArray() {
		return nil, fmt.Errorf("%w: missing data array", ErrMalformedResponse)
	}

	var sr searchResponse
	if err := json.Unmarshal(b, &sr); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, err)
	}

	log.Debug().
		Str("category", opts.Category.String()).
		Int("offset", opts.Offset).
		Int("count", len(sr.Data)).
		Int64("total_count", gjson.GetBytes(b, "pagination.total_count").Int()).
		Msg("fetched search page")

	return sr.Data, nil
}

// remoteMessage extracts the error message giphy puts into error responses.
func remoteMessage(b []byte) string {
	for _, path := range []string{"meta.msg", "message"} {
		if r := gjson.GetBytes(b, path); r.Exists() && r.String() != "" {
			return r.String()
		}
	}
	return ""
}
