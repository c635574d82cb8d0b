package apperr

import (
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
)

// HTTPStatusFromError maps an error to the status the HTTP server answers
// with. Upstream ImgBB failures become 502 and 504; anything unrecognized is
// a 500.
func HTTPStatusFromError(err error) int {
	switch {
	case goerr.HasTag(err, ErrTagReceiptNotFound):
		return http.StatusNotFound

	case imgbb.IsValidationError(err),
		goerr.HasTag(err, ErrTagValidation),
		goerr.HasTag(err, ErrTagInvalidInput),
		goerr.HasTag(err, ErrTagRequiredField):
		return http.StatusBadRequest

	case imgbb.IsTimeoutError(err):
		return http.StatusGatewayTimeout

	case imgbb.IsAPIError(err):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
