package cs

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"google.golang.org/api/iterator"
)

// Client stores receipts in a Google Cloud Storage bucket. Credentials come
// from Application Default Credentials.
type Client struct {
	client *storage.Client
	bucket string
	prefix string
}

// Option is a functional option for Client
type Option func(*Client)

// WithPrefix prepends prefix to every object name
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}

// New creates a new Cloud Storage client
func New(ctx context.Context, bucket string, opts ...Option) (*Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client", goerr.V("bucket", bucket))
	}

	c := &Client{client: client, bucket: bucket}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying client
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) object(key string) *storage.ObjectHandle {
	return c.client.Bucket(c.bucket).Object(c.prefix + key)
}

func (c *Client) values(key string) []goerr.Option {
	return []goerr.Option{
		goerr.V("bucket", c.bucket),
		goerr.V("object", c.prefix+key),
	}
}

// Put uploads data as a single object. The object is only committed when
// the writer closes without error.
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	w := c.object(key).NewWriter(ctx)
	w.ContentType = interfaces.ContentType(key)

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write Cloud Storage object", c.values(key)...)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to commit Cloud Storage object", c.values(key)...)
	}
	return nil
}

// Get downloads the object at key
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	r, err := c.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, interfaces.ErrStorageKeyNotFound
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open Cloud Storage object", c.values(key)...)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read Cloud Storage object", c.values(key)...)
	}
	return data, nil
}

// List returns keys (without the client prefix) that start with prefix
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	query := &storage.Query{Prefix: c.prefix + prefix}
	if err := query.SetAttrSelection([]string{"Name"}); err != nil {
		return nil, goerr.Wrap(err, "failed to build Cloud Storage query")
	}

	var keys []string
	it := c.client.Bucket(c.bucket).Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list Cloud Storage objects", c.values(prefix)...)
		}
		keys = append(keys, strings.TrimPrefix(attrs.Name, c.prefix))
	}
	slices.Sort(keys)
	return keys, nil
}

var _ interfaces.StorageAdapter = (*Client)(nil)
