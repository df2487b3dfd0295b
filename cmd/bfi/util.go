package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/deepnoodle-ai/bfc/errz"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red("fatal: "+s))
	if err, ok := msg.(error); ok && viper.GetBool("verbose") {
		var se *errz.StructuredError
		if errors.As(err, &se) && !se.Location.IsZero() {
			fmt.Fprint(os.Stderr, errz.NewFormatter(!color.NoColor).Format(se))
		}
	}
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") || !isTerminal(os.Stderr) {
		color.NoColor = true
	}
	level := zerolog.WarnLevel
	if viper.GetBool("verbose") || viper.GetBool("trace") {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    color.NoColor,
		TimeFormat: time.TimeOnly,
	}).With().Timestamp().Logger()
}
