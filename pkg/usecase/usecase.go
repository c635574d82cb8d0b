package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
	"github.com/m-mizutani/imgbb/pkg/utils/errors"
)

// Upload holds the upload use cases
type Upload struct {
	uploader interfaces.Uploader
	receipts interfaces.ReceiptRepository
	apiKey   string
}

// Option is a functional option for Upload
type Option func(*Upload)

// WithUploader sets the image uploader
func WithUploader(uploader interfaces.Uploader) Option {
	return func(uc *Upload) {
		uc.uploader = uploader
	}
}

// WithStorage enables receipts
func WithStorage(repo interfaces.ReceiptRepository) Option {
	return func(uc *Upload) {
		uc.receipts = repo
	}
}

// WithAPIKey sets the ImgBB API key
func WithAPIKey(apiKey string) Option {
	return func(uc *Upload) {
		uc.apiKey = apiKey
	}
}

// New creates a new Upload instance. Without WithUploader, a client with the
// default endpoint and timeout is used.
func New(opts ...Option) *Upload {
	uc := &Upload{}
	for _, opt := range opts {
		opt(uc)
	}

	if uc.uploader == nil {
		uc.uploader = imgbb.New()
	}

	return uc
}

// APIKeyConfigured reports whether an API key was given
func (uc *Upload) APIKeyConfigured() bool {
	return uc.apiKey != ""
}

// UploadImage uploads the image and, when storage is configured, saves a
// receipt before returning. Result.Receipt is set only when the receipt was
// stored. A failed write is logged and does not fail the upload, since the
// image is already hosted.
func (uc *Upload) UploadImage(ctx context.Context, req *interfaces.UploadImageRequest) (*interfaces.UploadImageResult, error) {
	if !uc.APIKeyConfigured() {
		return nil, apperr.ErrAPIKeyNotConfigured
	}

	logger := ctxlog.From(ctx)

	var opts []imgbb.UploadOption
	if req.Name != "" {
		opts = append(opts, imgbb.WithName(req.Name))
	}
	if req.Expiration != 0 {
		opts = append(opts, imgbb.WithExpiration(req.Expiration))
	}

	resp, err := uc.uploader.Upload(ctx, uc.apiKey, req.Source, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload image",
			goerr.TV(apperr.SourceKindKey, req.Source.Kind().String()),
		)
	}

	logger.Info("image uploaded",
		"image_id", resp.Data.ID,
		"source_kind", req.Source.Kind().String(),
		"url", resp.Data.URL,
	)

	result := &interfaces.UploadImageResult{Response: resp}
	if uc.receipts == nil {
		return result, nil
	}

	r := receipt.New(ctx, req.Source, req.Name, req.Expiration, resp)
	if err := uc.receipts.PutReceipt(ctx, r); err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to save upload receipt",
			goerr.TV(apperr.ReceiptIDKey, r.ID),
			goerr.V("image_id", r.ImageID),
		))
		return result, nil
	}
	logger.Debug("receipt saved", "receipt_id", r.ID)
	result.Receipt = r

	return result, nil
}

// GetReceipt returns a stored receipt
func (uc *Upload) GetReceipt(ctx context.Context, id types.ReceiptID) (*receipt.Receipt, error) {
	if uc.receipts == nil {
		return nil, apperr.ErrStorageNotConfigured
	}
	if !id.IsValid() {
		return nil, goerr.Wrap(apperr.ErrInvalidReceiptID, "invalid receipt ID",
			goerr.TV(apperr.ReceiptIDKey, id))
	}

	r, err := uc.receipts.GetReceipt(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get receipt",
			goerr.TV(apperr.ReceiptIDKey, id))
	}

	return r, nil
}

// ListReceipts returns all stored receipts
func (uc *Upload) ListReceipts(ctx context.Context) ([]*receipt.Receipt, error) {
	if uc.receipts == nil {
		return nil, apperr.ErrStorageNotConfigured
	}

	receipts, err := uc.receipts.ListReceipts(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list receipts")
	}

	return receipts, nil
}

// Ensure Upload implements required interfaces
var _ interfaces.UploadUseCases = (*Upload)(nil)
