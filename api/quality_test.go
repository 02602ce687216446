package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	full := &Item{ID: "a", Renditions: Renditions{
		"original":          {Kind: RenditionDirect, URL: "https://m/original.gif"},
		"fixed_height":      {Kind: RenditionVideo, URL: "https://m/200.mp4"},
		"downsized":         {Kind: RenditionAnimated, URL: "https://m/downsized.webp"},
		"fixed_width_small": {Kind: RenditionNone},
	}}

	tests := []struct {
		name    string
		item    *Item
		quality QualityTier
		want    string
		wantOK  bool
	}{
		{"original direct", full, QualityOriginal, "https://m/original.gif", true},
		{"high has only mp4", full, QualityHigh, "https://m/200.mp4", true},
		{"medium has only webp", full, QualityMedium, "https://m/downsized.webp", true},
		{"small falls back to original", full, QualitySmall, "https://m/original.gif", true},
		{
			"original without direct url",
			&Item{Renditions: Renditions{"original": {Kind: RenditionVideo, URL: "https://m/o.mp4"}}},
			QualitySmall, "https://m/o.mp4", true,
		},
		{
			"any other tier",
			&Item{Renditions: Renditions{
				"preview":       {Kind: RenditionVideo, URL: "https://m/preview.mp4"},
				"fixed_width":   {Kind: RenditionDirect, URL: "https://m/fw.gif"},
				"original":      {Kind: RenditionNone},
				"looping_still": {Kind: RenditionNone},
			}},
			QualityHigh, "https://m/fw.gif", true,
		},
		{"no renditions", &Item{}, QualityOriginal, "", false},
		{
			"only empty renditions",
			&Item{Renditions: Renditions{"original": {Kind: RenditionNone}, "fixed_height": {Kind: RenditionNone}}},
			QualityHigh, "", false,
		},
		{"nil item", nil, QualityOriginal, "", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Resolve(tt.item, tt.quality)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveSavedItem(t *testing.T) {
	t.Parallel()
	items := GetSavedItems(t)

	u, ok := Resolve(&items[0], QualityHigh)
	assert.True(t, ok)
	assert.Equal(t, "https://media.giphy.com/media/3o7TKSjRrfIPjeiVyM/200.mp4", u)

	u, ok = Resolve(&items[1], QualityMedium)
	assert.True(t, ok)
	assert.Equal(t, "https://media.giphy.com/media/l0MYt5jPR6QX5pnqM/giphy.gif", u)
}

func TestQualityTier(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "original", QualityOriginal.Key())
	assert.Equal(t, "fixed_height", QualityHigh.Key())
	assert.Equal(t, "downsized", QualityMedium.Key())
	assert.Equal(t, "fixed_width_small", QualitySmall.Key())
	assert.Equal(t, "original", QualityTier(42).Key())

	for _, q := range QualityTiers() {
		parsed, err := ParseQualityTier(q.String())
		assert.NoError(t, err)
		assert.Equal(t, q, parsed)

		parsed, err = ParseQualityTier(q.Key())
		assert.NoError(t, err)
		assert.Equal(t, q, parsed)
	}

	q, err := ParseQualityTier("HIGH")
	assert.NoError(t, err)
	assert.Equal(t, QualityHigh, q)

	_, err = ParseQualityTier("ultra")
	assert.ErrorIs(t, err, ErrUnknownQuality)
}

func TestQualityTierText(t *testing.T) {
	t.Parallel()
	var q QualityTier
	assert.NoError(t, q.UnmarshalText([]byte("small")))
	assert.Equal(t, QualitySmall, q)
	assert.Error(t, q.UnmarshalText([]byte("huge")))

	b, err := QualityMedium.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "Medium", string(b))

	_, err = QualityTier(9).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownQuality)
}
