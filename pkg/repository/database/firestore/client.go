package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultDatabaseID = "(default)"
	defaultCollection = "receipts"
)

// Client keeps one Firestore document per receipt, keyed by receipt ID
type Client struct {
	client     *firestore.Client
	projectID  string
	databaseID string
	collection string
}

// Option is a functional option for Client
type Option func(*Client)

// WithCollection overrides the "receipts" collection name
func WithCollection(name string) Option {
	return func(c *Client) {
		c.collection = name
	}
}

// New connects with Application Default Credentials. An empty databaseID
// selects the default database.
func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Client, error) {
	if projectID == "" {
		return nil, goerr.New("firestore project ID is required", goerr.T(apperr.ErrTagNotConfigured))
	}
	if databaseID == "" {
		databaseID = defaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	c := &Client{
		client:     client,
		projectID:  projectID,
		databaseID: databaseID,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

type receiptDoc struct {
	ID         string    `firestore:"id"`
	CreatedAt  time.Time `firestore:"created_at"`
	SourceKind string    `firestore:"source_kind"`
	Source     string    `firestore:"source"`
	Name       string    `firestore:"name"`
	Expiration int       `firestore:"expiration"`
	ImageID    string    `firestore:"image_id"`
	URL        string    `firestore:"url"`
	DisplayURL string    `firestore:"display_url"`
	ViewerURL  string    `firestore:"viewer_url"`
	DeleteURL  string    `firestore:"delete_url"`
	Width      string    `firestore:"width"`
	Height     string    `firestore:"height"`
	Size       string    `firestore:"size"`
}

func toDoc(r *receipt.Receipt) *receiptDoc {
	return &receiptDoc{
		ID:         r.ID.String(),
		CreatedAt:  r.CreatedAt,
		SourceKind: r.SourceKind,
		Source:     r.Source,
		Name:       r.Name,
		Expiration: r.Expiration,
		ImageID:    r.ImageID,
		URL:        r.URL,
		DisplayURL: r.DisplayURL,
		ViewerURL:  r.ViewerURL,
		DeleteURL:  r.DeleteURL,
		Width:      r.Width,
		Height:     r.Height,
		Size:       r.Size,
	}
}

func (d *receiptDoc) receipt() *receipt.Receipt {
	return &receipt.Receipt{
		ID:         types.ReceiptID(d.ID),
		CreatedAt:  d.CreatedAt.UTC(),
		SourceKind: d.SourceKind,
		Source:     d.Source,
		Name:       d.Name,
		Expiration: d.Expiration,
		ImageID:    d.ImageID,
		URL:        d.URL,
		DisplayURL: d.DisplayURL,
		ViewerURL:  d.ViewerURL,
		DeleteURL:  d.DeleteURL,
		Width:      d.Width,
		Height:     d.Height,
		Size:       d.Size,
	}
}

// PutReceipt creates or replaces the document for r.ID
func (c *Client) PutReceipt(ctx context.Context, r *receipt.Receipt) error {
	if !r.ID.IsValid() {
		return goerr.Wrap(apperr.ErrInvalidReceiptID, "cannot save receipt",
			goerr.TV(apperr.ReceiptIDKey, r.ID))
	}

	if _, err := c.client.Collection(c.collection).Doc(r.ID.String()).Set(ctx, toDoc(r)); err != nil {
		return goerr.Wrap(err, "failed to save receipt to firestore",
			goerr.TV(apperr.ReceiptIDKey, r.ID),
			goerr.V("collection", c.collection),
			goerr.T(apperr.ErrTagStorage),
		)
	}
	return nil
}

// GetReceipt loads the document for id
func (c *Client) GetReceipt(ctx context.Context, id types.ReceiptID) (*receipt.Receipt, error) {
	if !id.IsValid() {
		return nil, goerr.Wrap(apperr.ErrInvalidReceiptID, "cannot load receipt",
			goerr.TV(apperr.ReceiptIDKey, id))
	}

	snap, err := c.client.Collection(c.collection).Doc(id.String()).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, goerr.Wrap(apperr.ErrReceiptNotFound, "receipt not found in firestore",
			goerr.TV(apperr.ReceiptIDKey, id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load receipt from firestore",
			goerr.TV(apperr.ReceiptIDKey, id),
			goerr.T(apperr.ErrTagStorage),
		)
	}

	var doc receiptDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, goerr.Wrap(err, "corrupted receipt", goerr.TV(apperr.ReceiptIDKey, id))
	}
	return doc.receipt(), nil
}

// ListReceipts returns every receipt, oldest first
func (c *Client) ListReceipts(ctx context.Context) ([]*receipt.Receipt, error) {
	iter := c.client.Collection(c.collection).OrderBy("created_at", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var receipts []*receipt.Receipt
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list receipts from firestore",
				goerr.V("collection", c.collection),
				goerr.T(apperr.ErrTagStorage),
			)
		}

		var doc receiptDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, goerr.Wrap(err, "corrupted receipt", goerr.V("document", snap.Ref.ID))
		}
		receipts = append(receipts, doc.receipt())
	}
	return receipts, nil
}

var _ interfaces.ReceiptRepository = (*Client)(nil)
