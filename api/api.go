// package api contains the code required to search giphy.com for the content of a user
// and to pick the download URL of an item for the requested quality.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown content category")

// Category is the kind of content that can be searched for.
type Category string

const (
	CategoryGIF     Category = "gif"
	CategorySticker Category = "sticker"
)

// Categories lists every supported category in search order.
func Categories() []Category {
	return []Category{CategoryGIF, CategorySticker}
}

// ParseCategory parses the category name, ignoring case and a trailing "s".
func ParseCategory(s string) (Category, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s") {
	case "gif":
		return CategoryGIF, nil
	case "sticker":
		return CategorySticker, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Endpoint is the path segment of the search endpoint for the category.
func (c Category) Endpoint() string {
	return string(c) + "s"
}

// Dir is the name of the directory the category is saved to.
func (c Category) Dir() string {
	return string(c) + "s"
}

func (c Category) Valid() bool {
	return c == CategoryGIF || c == CategorySticker
}

func (c Category) String() string {
	return string(c)
}

// Item is a single gif or sticker returned by the search.
type Item struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Renditions Renditions `json:"images"`

	// Category is not a part of the response, it is set by the Searcher.
	Category Category `json:"-"`
}

// RenditionKind tells which of the fields of a tier was populated.
type RenditionKind uint8

const (
	RenditionNone RenditionKind = iota
	RenditionDirect
	RenditionVideo
	RenditionAnimated
)

func (k RenditionKind) String() string {
	switch k {
	case RenditionDirect:
		return "direct"
	case RenditionVideo:
		return "video"
	case RenditionAnimated:
		return "animated"
	default:
		return "none"
	}
}

// Rendition is a single tier of an item. URL is empty for RenditionNone.
type Rendition struct {
	Kind RenditionKind
	URL  string
}

// Available reports whether the rendition has a usable URL.
func (r Rendition) Available() bool {
	return r.Kind != RenditionNone && r.URL != ""
}

// Renditions maps the remote tier key (e.g. "fixed_height") to its rendition.
type Renditions map[string]Rendition

// rawRendition mimics a single entry of giphy's "images" object.
type rawRendition struct {
	URL  string `json:"url"`
	MP4  string `json:"mp4"`
	WebP string `json:"webp"`
}

// UnmarshalJSON picks the variant of every tier once, preferring url, then mp4, then webp.
func (rs *Renditions) UnmarshalJSON(b []byte) error {
	var raw map[string]rawRendition
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := make(Renditions, len(raw))
	for key, r := range raw {
		switch {
		case r.URL != "":
			out[key] = Rendition{Kind: RenditionDirect, URL: r.URL}
		case r.MP4 != "":
			out[key] = Rendition{Kind: RenditionVideo, URL: r.MP4}
		case r.WebP != "":
			out[key] = Rendition{Kind: RenditionAnimated, URL: r.WebP}
		default:
			out[key] = Rendition{Kind: RenditionNone}
		}
	}
	*rs = out

	return nil
}

// searchResponse mimics giphy's search response.
type searchResponse struct {
	Data []Item `json:"data"`
}
