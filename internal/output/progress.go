package output

import (
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress renders a live progress bar on stderr. It advances once per
// completed probe regardless of outcome. Disabled in simple mode so the bar
// never mixes with reduced-verbosity output.
type Progress struct {
	bar     *progressbar.ProgressBar
	enabled bool
}

// NewProgress creates a progress bar for total probes. When enabled is
// false every method is a no-op.
func NewProgress(total int, enabled bool) *Progress {
	if !enabled {
		return &Progress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("scanning"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("probes"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Progress{bar: bar, enabled: true}
}

// Increment records one completed probe.
func (p *Progress) Increment() {
	if p.enabled {
		_ = p.bar.Add(1)
	}
}

// Clear erases the bar so a console line can be printed without tearing;
// the bar redraws on the next Increment.
func (p *Progress) Clear() {
	if p.enabled {
		_ = p.bar.Clear()
	}
}

// Finish completes and removes the bar.
func (p *Progress) Finish() {
	if p.enabled {
		_ = p.bar.Finish()
	}
}
