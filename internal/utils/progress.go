package utils

import (
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Standard progress bar descriptions
const (
	DescDownloading = "Downloading"
	DescCopying     = "Copying"
	DescDone        = "Done"
)

// NewByteProgressBar creates a consistently styled byte counter.
//
// Parameters:
//   - total: Content length in bytes. Use -1 when unknown (spinner mode).
//   - description: Initial text shown before the bar.
//   - out: Destination of the rendering, os.Stderr when nil.
func NewByteProgressBar(total int64, description string, out io.Writer) *progressbar.ProgressBar {
	if out == nil {
		out = os.Stderr
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowBytes(true),
		progressbar.OptionThrottle(65 * time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(out, "\n")
		}),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts,
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
		)
	}

	return progressbar.NewOptions64(total, opts...)
}

// BarObserver renders archive progress on a terminal.
// It implements domain.ProgressObserver.
type BarObserver struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewBarObserver creates an observer writing to out (os.Stderr when nil)
func NewBarObserver(out io.Writer) *BarObserver {
	return &BarObserver{out: out}
}

// Wrap counts bytes read from r against total
func (o *BarObserver) Wrap(r io.Reader, total int64) io.Reader {
	o.bar = NewByteProgressBar(total, DescDownloading, o.out)
	reader := progressbar.NewReader(r, o.bar)
	return &reader
}

// Entry shows the last written path as the bar description
func (o *BarObserver) Entry(path string) {
	if o.bar == nil {
		o.bar = NewByteProgressBar(-1, DescCopying, o.out)
	}
	o.bar.Describe("> " + path)
}

// Done completes the bar
func (o *BarObserver) Done() {
	if o.bar == nil {
		return
	}
	o.bar.Describe(DescDone)
	_ = o.bar.Finish()
}

// NopObserver ignores all progress events
type NopObserver struct{}

func (NopObserver) Wrap(r io.Reader, _ int64) io.Reader {
	return r
}

func (NopObserver) Entry(string) {}

func (NopObserver) Done() {}
