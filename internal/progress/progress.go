// Package progress reports per-file progress, either on a terminal bar or
// through a callback carried in a context.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress from the file-processing layer.
type Reporter interface {
	// Add grows the expected total by n.
	Add(n int)
	// Tick marks one item done.
	Tick(path string)
}

type reporterKey struct{}

// WithReporter returns a context carrying r.
func WithReporter(ctx context.Context, r Reporter) context.Context {
	return context.WithValue(ctx, reporterKey{}, r)
}

// FromContext returns the reporter carried by ctx, or nil.
func FromContext(ctx context.Context) Reporter {
	if r, ok := ctx.Value(reporterKey{}).(Reporter); ok {
		return r
	}
	return nil
}

// Tracker wraps a progress bar for file processing.
type Tracker struct {
	bar   *progressbar.ProgressBar
	label string
	out   io.Writer
}

// NewTracker creates a progress bar on stderr with the given label and
// initial total. The total grows with Add.
func NewTracker(label string, total int) *Tracker {
	return newTracker(os.Stderr, label, total)
}

func newTracker(out io.Writer, label string, total int) *Tracker {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription(label),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Tracker{bar: bar, label: label, out: out}
}

// Add implements Reporter.
func (t *Tracker) Add(n int) {
	t.bar.ChangeMax(t.bar.GetMax() + n)
}

// Tick implements Reporter. Safe for concurrent use.
func (t *Tracker) Tick(string) {
	_ = t.bar.Add(1)
}

// FinishSuccess clears the bar completely (no output).
func (t *Tracker) FinishSuccess() {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
}

// FinishError clears the bar and prints an error message.
func (t *Tracker) FinishError(err error) {
	_ = t.bar.Finish()
	_ = t.bar.Clear()
	fmt.Fprintf(t.out, "  %s error: %v\n", t.label, err)
}

// Func is called on each Tick with the completed count, the current total
// and the completed path.
type Func func(current, total int, path string)

// Counter is a Reporter that counts atomically and forwards ticks to a
// callback. It is safe for concurrent use.
type Counter struct {
	total    atomic.Int64
	current  atomic.Int64
	callback Func
}

// NewCounter returns a Counter invoking fn on each tick; fn may be nil.
func NewCounter(fn Func) *Counter {
	return &Counter{callback: fn}
}

// Add implements Reporter.
func (c *Counter) Add(n int) {
	c.total.Add(int64(n))
}

// Tick implements Reporter.
func (c *Counter) Tick(path string) {
	current := int(c.current.Add(1))
	if c.callback != nil {
		c.callback(current, int(c.total.Load()), path)
	}
}

// Current returns the number of ticks so far.
func (c *Counter) Current() int { return int(c.current.Load()) }

// Total returns the expected total.
func (c *Counter) Total() int { return int(c.total.Load()) }
