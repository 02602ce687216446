package main

import (
	"fmt"
	"strings"

	"github.com/handsomefox/giphydl/api"
	"github.com/handsomefox/giphydl/config"
	"github.com/handsomefox/giphydl/pipeline"
)

type AppArguments struct {
	Username        string `arg:"-u,--user,required" help:"giphy username whose content will be downloaded"`
	APIKey          string `arg:"-k,--api-key,env:GIPHY_API_KEY" help:"giphy api key, defaults to the saved one" json:"-"`
	SaveDirectory   string `arg:"-d,--dir" help:"download directory, defaults to the saved one"`
	Quality         string `arg:"-q,--quality" help:"original, high, medium or small"`
	GIFs            bool   `arg:"--gifs" help:"download gifs"`
	Stickers        bool   `arg:"--stickers" help:"download stickers"`
	ProgressLogging bool   `arg:"-p,--progress" help:"show a progress bar"`
	VerboseLogging  bool   `arg:"-v,--verbose" help:"enable debug logging"`
	Save            bool   `arg:"--save" help:"remember the api key, directory and quality"`
	ConfigPath      string `arg:"--config" help:"settings file location"`
}

func (AppArguments) Description() string {
	return "Downloads every gif and sticker a giphy user has uploaded.\n" +
		"When neither --gifs nor --stickers is given, both are downloaded."
}

// Categories returns the selected categories, gifs first.
func (a *AppArguments) Categories() []api.Category {
	if a.GIFs == a.Stickers {
		return api.Categories()
	}
	if a.GIFs {
		return []api.Category{api.CategoryGIF}
	}
	return []api.Category{api.CategorySticker}
}

// Merge applies the arguments on top of the saved settings.
func (a *AppArguments) Merge(s config.Settings) (config.Settings, error) {
	if key := strings.TrimSpace(a.APIKey); key != "" {
		s.APIKey = key
	}
	if a.SaveDirectory != "" {
		s.DownloadPath = a.SaveDirectory
	}
	if a.Quality != "" {
		q, err := api.ParseQualityTier(a.Quality)
		if err != nil {
			return s, fmt.Errorf("invalid --quality: %w", err)
		}
		s.Quality = q
	}
	return s, nil
}

func (a *AppArguments) Request(s config.Settings) pipeline.Request {
	return pipeline.Request{
		APIKey:     s.APIKey,
		Username:   a.Username,
		Categories: a.Categories(),
		Quality:    s.Quality,
		Root:       s.DownloadPath,
	}
}
