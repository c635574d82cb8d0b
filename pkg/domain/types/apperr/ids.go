package apperr

import "github.com/m-mizutani/goerr/v2"

var (
	ErrReceiptNotFound = goerr.New("receipt not found",
		goerr.T(ErrTagReceiptNotFound)).ID("ERR_RECEIPT_NOT_FOUND")

	ErrInvalidReceiptID = goerr.New("invalid receipt ID format",
		goerr.T(ErrTagValidation)).ID("ERR_INVALID_RECEIPT_ID")

	ErrAPIKeyNotConfigured = goerr.New("ImgBB API key not configured",
		goerr.T(ErrTagNotConfigured)).ID("ERR_API_KEY_NOT_CONFIGURED")

	ErrStorageNotConfigured = goerr.New("receipt storage not configured",
		goerr.T(ErrTagNotConfigured)).ID("ERR_STORAGE_NOT_CONFIGURED")
)
