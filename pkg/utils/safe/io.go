package safe

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	utilerrors "github.com/m-mizutani/imgbb/pkg/utils/errors"
)

// Close closes c and logs a failure. Closing an already closed file is not
// reported.
func Close(ctx context.Context, c io.Closer) {
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		utilerrors.Handle(ctx, goerr.Wrap(err, "failed to close"))
	}
}

// Write writes data to w and logs a failure, for response bodies where the
// status line is already sent.
func Write(ctx context.Context, w io.Writer, data []byte) {
	if _, err := w.Write(data); err != nil {
		utilerrors.Handle(ctx, goerr.Wrap(err, "failed to write", goerr.V("size", len(data))))
	}
}

// Remove deletes a file, ignoring one that is already gone
func Remove(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		utilerrors.Handle(ctx, goerr.Wrap(err, "failed to remove file", goerr.V("path", path)))
	}
}
