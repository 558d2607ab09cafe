package logger

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Init initializes the logger
func Init(debug, noColor bool) {
	log.SetDefault(log.NewWithOptions(os.Stderr,
		log.Options{
			ReportCaller:    debug,
			ReportTimestamp: false,
			TimeFormat:      time.RFC3339,
			Prefix:          "BAGUETTE",
		}))

	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	log.SetColorProfile(termenv.ANSI256)
	if noColor || !isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetColorProfile(termenv.Ascii)
	}
}
