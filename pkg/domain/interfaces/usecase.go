package interfaces

import (
	"context"

	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
)

// UploadImageRequest is an upload issued by the CLI or the HTTP server
type UploadImageRequest struct {
	Source     imgbb.Source
	Name       string
	Expiration int
}

// UploadImageResult holds the API response and, when receipts are enabled,
// the stored receipt.
type UploadImageResult struct {
	Response *imgbb.Response
	Receipt  *receipt.Receipt
}

type UploadUseCases interface {
	UploadImage(ctx context.Context, req *UploadImageRequest) (*UploadImageResult, error)
	GetReceipt(ctx context.Context, id types.ReceiptID) (*receipt.Receipt, error)
	ListReceipts(ctx context.Context) ([]*receipt.Receipt, error)
	APIKeyConfigured() bool
}
