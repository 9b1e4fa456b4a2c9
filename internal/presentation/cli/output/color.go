package output

import "os"

// style is an ANSI escape sequence applied to a span of text.
type style string

const (
	styleReset  style = "\033[0m"
	styleBold   style = "\033[1m"
	styleDim    style = "\033[2m"
	styleRed    style = "\033[31m"
	styleGreen  style = "\033[32m"
	styleYellow style = "\033[33m"
	styleBlue   style = "\033[34m"
	styleCyan   style = "\033[36m"
)

// DetectColor reports whether stdout should receive ANSI styling.
// NO_COLOR disables it (https://no-color.org/), FORCE_COLOR enables
// it, and otherwise stdout must be a terminal with a capable TERM.
func DetectColor() bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if _, set := os.LookupEnv("FORCE_COLOR"); set {
		return true
	}

	stat, err := os.Stdout.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice == 0 {
		return false
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
