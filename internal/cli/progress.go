package cli

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

const (
	progressDescription = "Mapping signatures"
	progressItsString   = "files/s"
	progressSpinnerType = 14
	progressThrottle    = 65 * time.Millisecond
)

// progressReporter shows an indeterminate spinner while files are visited.
// A nil reporter is silent.
type progressReporter struct {
	bar *progressbar.ProgressBar
}

// stderrIsTerminal reports whether progress output would reach a person.
func stderrIsTerminal() bool {
	descriptor := os.Stderr.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}

func newProgressReporter(writer io.Writer, enabled bool) *progressReporter {
	if !enabled || writer == nil {
		return nil
	}
	return &progressReporter{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(writer),
			progressbar.OptionSetDescription(progressDescription),
			progressbar.OptionSpinnerType(progressSpinnerType),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString(progressItsString),
			progressbar.OptionThrottle(progressThrottle),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// fileVisited advances the spinner; it is installed as the tree builder observer.
func (reporter *progressReporter) fileVisited(relativePath string) {
	if reporter == nil {
		return
	}
	reporter.bar.Describe(relativePath)
	_ = reporter.bar.Add(1)
}

func (reporter *progressReporter) finish() {
	if reporter == nil {
		return
	}
	_ = reporter.bar.Finish()
}

// observer returns the callback for commands.TreeBuilder, nil when silent.
func (reporter *progressReporter) observer() func(string) {
	if reporter == nil {
		return nil
	}
	return reporter.fileVisited
}
