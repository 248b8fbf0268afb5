package resource

import (
	"context"
	"io"
)

// ThrottledWriter charges every write against the controller's upload budget.
type ThrottledWriter struct {
	ctx context.Context
	w   io.Writer
	rc  *Controller
}

// NewThrottledWriter wraps w. Writes fail once ctx is done.
func NewThrottledWriter(ctx context.Context, w io.Writer, rc *Controller) *ThrottledWriter {
	return &ThrottledWriter{ctx: ctx, w: w, rc: rc}
}

func (w *ThrottledWriter) Write(p []byte) (int, error) {
	if err := w.rc.WaitUpload(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}
