package vos

import (
	"io"
	"os"
)

// NewVIOAdapter bundles the given streams into a VIO. Nil readers become
// /dev/null style always-closed readers; nil writers discard.
func NewVIOAdapter(stdin io.Reader, stdout, stderr io.Writer) *VIOAdapter {
	return &VIOAdapter{
		IStdin:  toReadCloserOrClosed(stdin),
		IStdout: toWriteCloserOrDiscard(stdout),
		IStderr: toWriteCloserOrDiscard(stderr),
	}
}

// NewNullIO creates a valid /dev/null style I/O, reads fail and writes are
// discarded.
func NewNullIO() VIO {
	return NewVIOAdapter(nil, nil, nil)
}

type VIOAdapter struct {
	IStdin  io.ReadCloser
	IStdout io.WriteCloser
	IStderr io.WriteCloser
}

var _ VIO = (*VIOAdapter)(nil)

func (v *VIOAdapter) Stdin() io.ReadCloser {
	return v.IStdin
}

func (v *VIOAdapter) Stdout() io.WriteCloser {
	return v.IStdout
}

func (v *VIOAdapter) Stderr() io.WriteCloser {
	return v.IStderr
}

func toWriteCloserOrDiscard(w io.Writer) io.WriteCloser {
	if w == nil {
		return &devNull{}
	}
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{w}
}

func toReadCloserOrClosed(r io.Reader) io.ReadCloser {
	if r == nil {
		return &devNull{}
	}
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NopCloseVIO shields the endpoints of wrapped from Close calls. Pipeline
// stages close their streams on completion; the terminal's streams must
// survive that.
func NopCloseVIO(wrapped VIO) VIO {
	return NewVIOAdapter(
		io.NopCloser(wrapped.Stdin()),
		nopWriteCloser{wrapped.Stdout()},
		nopWriteCloser{wrapped.Stderr()},
	)
}

// devNull implements io.ReadCloser and io.WriteCloser, always closed for
// reads and discarding writes.
type devNull struct{}

var _ io.ReadCloser = (*devNull)(nil)
var _ io.WriteCloser = (*devNull)(nil)

func (*devNull) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}

func (*devNull) Write(b []byte) (int, error) {
	return len(b), nil
}

func (*devNull) Close() error {
	return nil
}
