package main

import (
	"io"

	"github.com/handsomefox/giphydl/pipeline"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// progressSteps is the resolution of the progress bar.
const progressSteps = 1000

// consoleObserver prints the events of a run, and optionally a progress bar.
type consoleObserver struct {
	log zerolog.Logger
	bar *progressbar.ProgressBar
}

func newConsoleObserver(logger zerolog.Logger, w io.Writer, showProgress bool) *consoleObserver {
	o := &consoleObserver{log: logger}
	if showProgress {
		o.bar = progressbar.NewOptions(progressSteps,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("searching"),
			progressbar.OptionSetPredictTime(false),
			progressbar.OptionSetWidth(30),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}
	return o
}

func (o *consoleObserver) OnLog(e pipeline.Event) {
	if o.bar != nil {
		_ = o.bar.Clear()
	}

	var ev *zerolog.Event
	switch e.Level {
	case pipeline.LevelError:
		ev = o.log.Error()
	case pipeline.LevelSuccess:
		ev = o.log.Info().Bool("ok", true)
	default:
		ev = o.log.Info()
	}
	ev.Msg(e.Message)
}

func (o *consoleObserver) OnProgress(fraction float64, label string) {
	if o.bar == nil {
		o.log.Debug().Float64("progress", fraction).Str("item", label).Msg("progress")
		return
	}
	o.bar.Describe(label)
	_ = o.bar.Set(int(fraction * progressSteps))
}

func (o *consoleObserver) OnStateChange(s pipeline.State) {
	o.log.Debug().Stringer("state", s).Msg("run state changed")
	if o.bar == nil || !s.Terminal() {
		return
	}
	if s == pipeline.StateCompleted {
		_ = o.bar.Finish()
		return
	}
	_ = o.bar.Clear()
}
