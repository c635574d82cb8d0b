package firestore_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/repository/database/firestore"
)

func newTestClient(t *testing.T) *firestore.Client {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT is not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE")

	// Each run gets its own collection so parallel runs never see each other
	collection := fmt.Sprintf("imgbb-test-%d", time.Now().UnixNano())
	client, err := firestore.New(context.Background(), projectID, databaseID, firestore.WithCollection(collection))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}

func newReceipt(ctx context.Context, name string, createdAt time.Time) *receipt.Receipt {
	return &receipt.Receipt{
		ID:         types.NewReceiptID(ctx),
		CreatedAt:  createdAt,
		SourceKind: "url",
		Source:     "https://example.com/" + name + ".png",
		Name:       name,
		ImageID:    "2ndCYJK",
		URL:        "https://i.ibb.co/w04Prt6/" + name + ".png",
		DeleteURL:  "https://ibb.co/2ndCYJK/670a7e48ddcb85ac340c717a41047e5c",
		Width:      "1",
		Height:     "1",
		Size:       "42",
	}
}

func TestNew_RequiresProjectID(t *testing.T) {
	_, err := firestore.New(context.Background(), "", "")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, apperr.ErrTagNotConfigured))
}

func TestFirestoreClient_InvalidReceiptID(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.GetReceipt(ctx, types.ReceiptID("../escape"))
	gt.True(t, errors.Is(err, apperr.ErrInvalidReceiptID))

	r := newReceipt(ctx, "bad", time.Now().UTC())
	r.ID = "not-a-uuid"
	gt.True(t, errors.Is(client.PutReceipt(ctx, r), apperr.ErrInvalidReceiptID))
}

func TestFirestoreClient_PutGetList(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := newReceipt(ctx, "older", base)
	newer := newReceipt(ctx, "newer", base.Add(time.Minute))

	gt.NoError(t, client.PutReceipt(ctx, newer)).Required()
	gt.NoError(t, client.PutReceipt(ctx, older)).Required()

	loaded, err := client.GetReceipt(ctx, older.ID)
	gt.NoError(t, err).Required()
	gt.Equal(t, loaded, older)

	receipts, err := client.ListReceipts(ctx)
	gt.NoError(t, err)
	gt.A(t, receipts).Length(2)
	gt.Equal(t, receipts[0].ID, older.ID)
	gt.Equal(t, receipts[1].ID, newer.ID)

	_, err = client.GetReceipt(ctx, types.NewReceiptID(ctx))
	gt.True(t, errors.Is(err, apperr.ErrReceiptNotFound))
}
