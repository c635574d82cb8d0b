package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/adapters/memory"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/repository/storage"
)

func newReceipt(ctx context.Context, name string) *receipt.Receipt {
	return &receipt.Receipt{
		ID:         types.NewReceiptID(ctx),
		CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		SourceKind: "path",
		Source:     "/tmp/" + name + ".png",
		Name:       name,
		Expiration: 600,
		ImageID:    "2ndCYJK",
		URL:        "https://i.ibb.co/w04Prt6/" + name + ".png",
		DeleteURL:  "https://ibb.co/2ndCYJK/670a7e48ddcb85ac340c717a41047e5c",
		Width:      "1",
		Height:     "1",
		Size:       "42",
	}
}

func TestStorageClient_PutAndGetReceipt(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	client := storage.New(adapter)

	r := newReceipt(ctx, "cat")
	gt.NoError(t, client.PutReceipt(ctx, r)).Required()

	// Stored compressed under the receipts prefix
	keys, err := adapter.List(ctx, "receipts/")
	gt.NoError(t, err)
	gt.Equal(t, keys, []string{"receipts/" + r.ID.String() + ".json.gz"})

	loaded, err := client.GetReceipt(ctx, r.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, loaded, r)
}

func TestStorageClient_GetReceiptNotFound(t *testing.T) {
	ctx := context.Background()
	client := storage.New(memory.New())

	_, err := client.GetReceipt(ctx, types.NewReceiptID(ctx))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, apperr.ErrReceiptNotFound))
	gt.True(t, goerr.HasTag(err, apperr.ErrTagReceiptNotFound))
}

func TestStorageClient_InvalidReceiptID(t *testing.T) {
	ctx := context.Background()
	client := storage.New(memory.New())

	_, err := client.GetReceipt(ctx, types.ReceiptID("../../etc/passwd"))
	gt.Error(t, err)
	gt.True(t, errors.Is(err, apperr.ErrInvalidReceiptID))

	r := newReceipt(ctx, "dog")
	r.ID = ""
	gt.Error(t, client.PutReceipt(ctx, r))
}

func TestStorageClient_ListReceipts(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	client := storage.New(adapter)

	empty, err := client.ListReceipts(ctx)
	gt.NoError(t, err)
	gt.A(t, empty).Length(0)

	r1 := newReceipt(ctx, "one")
	r2 := newReceipt(ctx, "two")
	gt.NoError(t, client.PutReceipt(ctx, r1)).Required()
	gt.NoError(t, client.PutReceipt(ctx, r2)).Required()

	// Unrelated objects are ignored
	gt.NoError(t, adapter.Put(ctx, "receipts/README", []byte("not a receipt"))).Required()
	gt.NoError(t, adapter.Put(ctx, "other/x.json.gz", []byte("x"))).Required()

	receipts, err := client.ListReceipts(ctx)
	gt.NoError(t, err).Required()
	gt.A(t, receipts).Length(2)

	names := map[string]bool{}
	for _, r := range receipts {
		names[r.Name] = true
	}
	gt.True(t, names["one"])
	gt.True(t, names["two"])
}

func TestStorageClient_CorruptedReceipt(t *testing.T) {
	ctx := context.Background()
	adapter := memory.New()
	client := storage.New(adapter)

	id := types.NewReceiptID(ctx)
	gt.NoError(t, adapter.Put(ctx, "receipts/"+id.String()+".json.gz", []byte("not gzip"))).Required()

	_, err := client.GetReceipt(ctx, id)
	gt.Error(t, err)
}
