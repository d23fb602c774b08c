package output

import (
	"io"

	"github.com/pkg/errors"
)

// errWriter keeps returning the first write error so formatters can check once
// at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err = w.w.Write(p)
	if err != nil {
		w.err = errors.Wrap(err, "write failed")
	}
	return n, w.err
}

func newErrWriter(w io.Writer) *errWriter {
	return &errWriter{w: w}
}
