package errors

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
)

// Handle logs err with the request-scoped logger. Rejected input is a
// warning; ImgBB API failures carry the upstream status code.
func Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	logger := ctxlog.From(ctx)
	switch {
	case imgbb.IsValidationError(err):
		logger.Warn("invalid input", "error", err)
	case imgbb.IsAPIError(err):
		logger.Error("ImgBB API error", "error", err, "status_code", imgbb.StatusCode(err))
	default:
		logger.Error("error occurred", "error", err)
	}
}
