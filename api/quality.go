package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownQuality = errors.New("unknown quality")

// QualityTier is the quality requested by the user.
type QualityTier uint8

const (
	QualityOriginal QualityTier = iota
	QualityHigh
	QualityMedium
	QualitySmall
)

// originalKey is the tier that is used as a fallback for every item.
const originalKey = "original"

var qualityKeys = [...]string{
	QualityOriginal: originalKey,
	QualityHigh:     "fixed_height",
	QualityMedium:   "downsized",
	QualitySmall:    "fixed_width_small",
}

var qualityNames = [...]string{
	QualityOriginal: "Original",
	QualityHigh:     "High",
	QualityMedium:   "Medium",
	QualitySmall:    "Small",
}

// QualityTiers lists every tier, best first.
func QualityTiers() []QualityTier {
	return []QualityTier{QualityOriginal, QualityHigh, QualityMedium, QualitySmall}
}

// ParseQualityTier accepts either the tier name ("high") or the remote key ("fixed_height").
func ParseQualityTier(s string) (QualityTier, error) {
	s = strings.TrimSpace(s)
	for _, q := range QualityTiers() {
		if strings.EqualFold(s, qualityNames[q]) || s == qualityKeys[q] {
			return q, nil
		}
	}
	return QualityOriginal, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}

// Key returns the remote tier key of the quality.
func (q QualityTier) Key() string {
	if int(q) < len(qualityKeys) {
		return qualityKeys[q]
	}
	return originalKey
}

func (q QualityTier) String() string {
	if int(q) < len(qualityNames) {
		return qualityNames[q]
	}
	return fmt.Sprintf("QualityTier(%d)", uint8(q))
}

func (q QualityTier) MarshalText() ([]byte, error) {
	if int(q) >= len(qualityNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownQuality, uint8(q))
	}
	return []byte(qualityNames[q]), nil
}

func (q *QualityTier) UnmarshalText(b []byte) error {
	parsed, err := ParseQualityTier(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// Resolve returns the best URL of the item for the requested quality.
//
// The requested tier is tried first, then the original tier, then every other tier
// in key order. The second return value is false only when the item has no usable
// rendition at all.
func Resolve(item *Item, q QualityTier) (string, bool) {
	if item == nil {
		return "", false
	}

	rs := item.Renditions
	if r, ok := rs[q.Key()]; ok && r.Available() {
		return r.URL, true
	}
	if r, ok := rs[originalKey]; ok && r.Available() {
		return r.URL, true
	}

	keys := make([]string, 0, len(rs))
	for k := range rs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if r := rs[k]; r.Available() {
			return r.URL, true
		}
	}

	return "", false
}
