package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/dustin/go-humanize"
	"github.com/handsomefox/giphydl/config"
	"github.com/handsomefox/giphydl/internal/logging"
	"github.com/handsomefox/giphydl/pipeline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	envErr := godotenv.Load()

	var args AppArguments
	p := arg.MustParse(&args)

	log.Logger = logging.New(args.VerboseLogging, os.Stderr)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		log.Warn().Err(envErr).Msg("failed to load .env")
	}

	path := args.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	settings, err := config.Load(path)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load settings, using defaults")
	}

	settings, err = args.Merge(settings)
	if err != nil {
		p.Fail(err.Error())
	}
	if settings.APIKey == "" {
		p.Fail("you must provide a giphy api key using -k, --api-key or GIPHY_API_KEY")
	}

	if args.Save {
		if err := settings.Save(path); err != nil {
			log.Error().Err(err).Msg("failed to save settings")
		}
	}

	req := args.Request(settings)
	log.Debug().Any("app_arguments", args).Str("settings", path).Send()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	outcome, err := run(ctx, req, args.ProgressLogging)
	stop()

	if err != nil {
		log.Fatal().Err(err).Msg("error running the app")
	}

	log.Info().
		Int("found", outcome.Found).
		Int("downloaded", outcome.Downloaded).
		Int("skipped", outcome.Skipped).
		Int("failed", outcome.Failed).
		Str("size", humanize.Bytes(uint64(outcome.Bytes))).
		Stringer("state", outcome.State).
		Msg("done")

	if outcome.State == pipeline.StateFailed {
		os.Exit(1)
	}
}

func run(ctx context.Context, req pipeline.Request, showProgress bool) (*pipeline.Outcome, error) {
	observer := newConsoleObserver(log.Logger, os.Stderr, showProgress)
	return pipeline.ForRequest(req, observer).Run(ctx, req)
}
