package types

import (
	"context"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/utils/errors"
)

// ReceiptID identifies a stored upload receipt. New IDs are UUIDv7, so
// receipt keys sort by creation time.
type ReceiptID string

func NewReceiptID(ctx context.Context) ReceiptID {
	id, err := uuid.NewV7()
	if err != nil {
		errors.Handle(ctx, goerr.Wrap(err, "failed to generate UUIDv7 receipt ID, using v4"))
		return ReceiptID(uuid.NewString())
	}
	return ReceiptID(id.String())
}

func (id ReceiptID) String() string {
	return string(id)
}

// IsValid reports whether id is a canonical UUID. IDs reach storage keys,
// so anything else is refused before a lookup.
func (id ReceiptID) IsValid() bool {
	parsed, err := uuid.Parse(string(id))
	return err == nil && parsed.String() == string(id)
}
