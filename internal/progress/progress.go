// Package progress shows a per-sample progress bar on an interactive stderr.
package progress

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

// Bar counts finished units of work. The zero value and a nil *Bar are no-ops.
type Bar struct {
	bar *pb.ProgressBar
}

// Start shows a bar of total units on w. When enabled is false, or total is
// not positive, it returns a no-op bar.
func Start(w io.Writer, total int, enabled bool) *Bar {
	if !enabled || total <= 0 {
		return &Bar{}
	}
	b := pb.Simple.New(total).SetWriter(w)
	b.Set(pb.CleanOnFinish, true)
	return &Bar{bar: b.Start()}
}

// Increment marks one unit done. Safe for concurrent use.
func (b *Bar) Increment() {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.Increment()
}

// Finish stops rendering.
func (b *Bar) Finish() {
	if b == nil || b.bar == nil {
		return
	}
	b.bar.Finish()
}
