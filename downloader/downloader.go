// Package downloader streams a single remote file to disk.
package downloader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
)

// ChunkSize is the size of a single write to disk, cancellation is checked before every write.
const ChunkSize = 8 << 10

// sniffLen is the number of leading bytes the file type is detected from.
const sniffLen = 262

var (
	ErrInvalidStatusCode  = errors.New("invalid status code")
	ErrUnsupportedContent = errors.New("content is neither an image nor a video")
)

// Getter performs a GET request for the url, *api.Client implements it.
type Getter interface {
	GetURL(ctx context.Context, url string) (*http.Response, error)
}

// Result describes a finished Fetch.
type Result struct {
	Path      string
	MIME      string
	Written   int64
	Cancelled bool
}

// Completed reports whether the whole file was saved.
func (r Result) Completed() bool {
	return !r.Cancelled
}

type Downloader struct {
	client Getter
}

func New(client Getter) *Downloader {
	return &Downloader{client: client}
}

// Fetch saves the file at url to path.
//
// If ctx is done before the file is saved, the partial file is removed and
// a Result with Cancelled set is returned with a nil error. Any other failure
// also removes the partial file and returns an error naming the file.
// A body that is neither an image nor a video is rejected before the file is created.
func (d *Downloader) Fetch(ctx context.Context, url, path string) (Result, error) {
	name := filepath.Base(path)
	cancelled := Result{Path: path, Cancelled: true}

	if ctx.Err() != nil {
		return cancelled, nil
	}

	res, err := d.client.GetURL(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled, nil
		}
		return Result{}, fmt.Errorf("%w: couldn't fetch file(name=%s)", err, name)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return Result{}, fmt.Errorf("%w: %s: couldn't fetch file(name=%s)", ErrInvalidStatusCode, res.Status, name)
	}

	body := bufio.NewReaderSize(res.Body, ChunkSize)
	mime, err := sniff(body)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled, nil
		}
		return Result{}, fmt.Errorf("%w: couldn't fetch file(name=%s)", err, name)
	}

	file, err := os.Create(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: couldn't create file(name=%s)", err, name)
	}

	result, err := d.copy(ctx, file, body)
	if cerr := file.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("%w: couldn't close file", cerr)
	}

	if err != nil || result.Cancelled {
		if rerr := os.Remove(path); rerr != nil {
			log.Debug().Err(rerr).Str("path", path).Msg("couldn't remove a partial file")
		}
	}
	if err != nil {
		return Result{}, fmt.Errorf("%w: couldn't save file(name=%s)", err, name)
	}
	if result.Cancelled {
		return cancelled, nil
	}

	result.Path = path
	result.MIME = mime
	log.Debug().
		Int64("written_bytes", result.Written).
		Str("mime", result.MIME).
		Str("path", path).
		Msg("wrote to disk")

	return result, nil
}

// copy writes r to w in chunks of at most ChunkSize, stopping before a write once ctx is done.
func (d *Downloader) copy(ctx context.Context, w io.Writer, r io.Reader) (Result, error) {
	var (
		result Result
		buf    = make([]byte, ChunkSize)
	)

	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if ctx.Err() != nil {
				result.Cancelled = true
				return result, nil
			}
			if _, err := w.Write(buf[:n]); err != nil {
				return result, err
			}
			result.Written += int64(n)
		}

		switch {
		case rerr == nil:
			continue
		case errors.Is(rerr, io.EOF):
			return result, nil
		case ctx.Err() != nil:
			result.Cancelled = true
			return result, nil
		default:
			return result, rerr
		}
	}
}

// sniff detects the type of the file from its first bytes without consuming them.
func sniff(r *bufio.Reader) (string, error) {
	head, err := r.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	kind, _ := filetype.Match(head)
	if !filetype.IsImage(head) && !filetype.IsVideo(head) {
		if kind == filetype.Unknown {
			return "", ErrUnsupportedContent
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContent, kind.MIME.Value)
	}
	return kind.MIME.Value, nil
}
