package apperr

import "github.com/m-mizutani/goerr/v2"

// Request errors, answered with 400 or 404
var (
	ErrTagReceiptNotFound = goerr.NewTag("receipt_not_found")
	ErrTagValidation      = goerr.NewTag("validation")
	ErrTagInvalidInput    = goerr.NewTag("invalid_input")
	ErrTagRequiredField   = goerr.NewTag("required_field")
)

// Server side errors, answered with 500
var (
	ErrTagNotConfigured = goerr.NewTag("not_configured")
	ErrTagStorage       = goerr.NewTag("storage")
)
