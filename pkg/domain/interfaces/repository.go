package interfaces

import (
	"context"

	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
)

type ReceiptRepository interface {
	PutReceipt(ctx context.Context, r *receipt.Receipt) error
	GetReceipt(ctx context.Context, id types.ReceiptID) (*receipt.Receipt, error)
	ListReceipts(ctx context.Context) ([]*receipt.Receipt, error)
}
