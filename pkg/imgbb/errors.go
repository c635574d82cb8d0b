package imgbb

import (
	"github.com/m-mizutani/goerr/v2"
)

// Error tags. Every error returned by this package carries ErrTagImgBB plus
// exactly one of the kind tags below.
var (
	ErrTagImgBB      = goerr.NewTag("imgbb")
	ErrTagValidation = goerr.NewTag("imgbb_validation")
	ErrTagAPI        = goerr.NewTag("imgbb_api")
	ErrTagTimeout    = goerr.NewTag("imgbb_timeout")
)

// Keys attached to API errors
var (
	StatusCodeKey   = goerr.NewTypedKey[int]("status_code")
	ResponseBodyKey = goerr.NewTypedKey[string]("response_body")
)

func validationError(msg string, opts ...goerr.Option) *goerr.Error {
	opts = append(opts, goerr.T(ErrTagImgBB), goerr.T(ErrTagValidation))
	return goerr.New(msg, opts...)
}

func wrapValidationError(cause error, msg string, opts ...goerr.Option) *goerr.Error {
	opts = append(opts, goerr.T(ErrTagImgBB), goerr.T(ErrTagValidation))
	return goerr.Wrap(cause, msg, opts...)
}

func apiError(cause error, msg string, statusCode int, body string) *goerr.Error {
	opts := []goerr.Option{
		goerr.T(ErrTagImgBB),
		goerr.T(ErrTagAPI),
		goerr.TV(StatusCodeKey, statusCode),
		goerr.TV(ResponseBodyKey, body),
	}
	if cause != nil {
		return goerr.Wrap(cause, msg, opts...)
	}
	return goerr.New(msg, opts...)
}

func timeoutError(cause error, msg string) *goerr.Error {
	return goerr.Wrap(cause, msg, goerr.T(ErrTagImgBB), goerr.T(ErrTagTimeout))
}

// IsError reports whether err was produced by this package.
func IsError(err error) bool {
	return goerr.HasTag(err, ErrTagImgBB)
}

// IsValidationError reports whether err is a caller-correctable input problem
// detected before any network call.
func IsValidationError(err error) bool {
	return goerr.HasTag(err, ErrTagValidation)
}

// IsAPIError reports whether the remote service rejected the upload or the
// request failed in transport for a reason other than a timeout.
func IsAPIError(err error) bool {
	return goerr.HasTag(err, ErrTagAPI)
}

// IsTimeoutError reports whether the upload did not complete in time.
func IsTimeoutError(err error) bool {
	return goerr.HasTag(err, ErrTagTimeout)
}

// StatusCode returns the HTTP status code carried by an API error. It returns
// 0 for transport failures and for errors of other kinds.
func StatusCode(err error) int {
	code, ok := goerr.GetTypedValue(err, StatusCodeKey)
	if !ok {
		return 0
	}
	return code
}

// ResponseBody returns the raw response text carried by an API error.
func ResponseBody(err error) string {
	body, ok := goerr.GetTypedValue(err, ResponseBodyKey)
	if !ok {
		return ""
	}
	return body
}
