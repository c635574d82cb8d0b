package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
)

const (
	receiptPrefix = "receipts/"
	receiptSuffix = ".json.gz"
)

// Client stores upload receipts as gzip compressed JSON objects named
// receipts/<id>.json.gz on any StorageAdapter.
type Client struct {
	adapter interfaces.StorageAdapter
}

// New creates a new storage client
func New(adapter interfaces.StorageAdapter) *Client {
	return &Client{
		adapter: adapter,
	}
}

// PutReceipt saves a receipt, overwriting any receipt with the same ID
func (c *Client) PutReceipt(ctx context.Context, r *receipt.Receipt) error {
	if !r.ID.IsValid() {
		return goerr.Wrap(apperr.ErrInvalidReceiptID, "cannot save receipt",
			goerr.TV(apperr.ReceiptIDKey, r.ID))
	}

	data, err := encodeReceipt(r)
	if err != nil {
		return goerr.Wrap(err, "cannot save receipt", goerr.TV(apperr.ReceiptIDKey, r.ID))
	}

	key := receiptKey(r.ID)
	if err := c.adapter.Put(ctx, key, data); err != nil {
		return goerr.Wrap(err, "failed to save receipt to storage",
			goerr.TV(apperr.ReceiptIDKey, r.ID),
			goerr.TV(apperr.StorageKeyKey, key),
			goerr.T(apperr.ErrTagStorage),
		)
	}

	return nil
}

// GetReceipt loads a receipt by ID
func (c *Client) GetReceipt(ctx context.Context, id types.ReceiptID) (*receipt.Receipt, error) {
	if !id.IsValid() {
		return nil, goerr.Wrap(apperr.ErrInvalidReceiptID, "cannot load receipt",
			goerr.TV(apperr.ReceiptIDKey, id))
	}

	return c.loadReceipt(ctx, receiptKey(id))
}

// ListReceipts loads every stored receipt, ordered by storage key
func (c *Client) ListReceipts(ctx context.Context) ([]*receipt.Receipt, error) {
	keys, err := c.adapter.List(ctx, receiptPrefix)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list receipts",
			goerr.TV(apperr.StorageKeyKey, receiptPrefix),
			goerr.T(apperr.ErrTagStorage),
		)
	}

	receipts := make([]*receipt.Receipt, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, receiptSuffix) {
			continue
		}
		r, err := c.loadReceipt(ctx, key)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, r)
	}

	return receipts, nil
}

func (c *Client) loadReceipt(ctx context.Context, key string) (*receipt.Receipt, error) {
	data, err := c.adapter.Get(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrStorageKeyNotFound) {
			return nil, goerr.Wrap(apperr.ErrReceiptNotFound, "receipt not found in storage",
				goerr.TV(apperr.StorageKeyKey, key))
		}
		return nil, goerr.Wrap(err, "failed to load receipt from storage",
			goerr.TV(apperr.StorageKeyKey, key),
			goerr.T(apperr.ErrTagStorage),
		)
	}

	r, err := decodeReceipt(data)
	if err != nil {
		return nil, goerr.Wrap(err, "corrupted receipt", goerr.TV(apperr.StorageKeyKey, key))
	}
	return r, nil
}

func receiptKey(id types.ReceiptID) string {
	return receiptPrefix + id.String() + receiptSuffix
}

func encodeReceipt(r *receipt.Receipt) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(r); err != nil {
		_ = gz.Close()
		return nil, goerr.Wrap(err, "failed to encode receipt")
	}
	if err := gz.Close(); err != nil {
		return nil, goerr.Wrap(err, "failed to flush gzip stream")
	}
	return buf.Bytes(), nil
}

func decodeReceipt(data []byte) (*receipt.Receipt, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, goerr.Wrap(err, "receipt is not gzip compressed")
	}
	defer gz.Close()

	var r receipt.Receipt
	if err := json.NewDecoder(gz).Decode(&r); err != nil {
		return nil, goerr.Wrap(err, "failed to decode receipt")
	}
	return &r, nil
}

var _ interfaces.ReceiptRepository = (*Client)(nil)
