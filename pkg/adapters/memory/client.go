package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
)

// Client keeps objects in a map. It backs tests and "imgbb serve" when no
// other receipt storage is configured, so receipts vanish on restart.
type Client struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates an empty store
func New() *Client {
	return &Client{objects: map[string][]byte{}}
}

// Put stores a copy of data
func (c *Client) Put(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objects[key] = slices.Clone(data)
	return nil
}

// Get returns a copy of the stored data
func (c *Client) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.objects[key]
	if !ok {
		return nil, interfaces.ErrStorageKeyNotFound
	}
	return slices.Clone(data), nil
}

func (c *Client) List(_ context.Context, prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := slices.DeleteFunc(slices.Collect(maps.Keys(c.objects)), func(k string) bool {
		return !strings.HasPrefix(k, prefix)
	})
	slices.Sort(keys)
	return keys, nil
}

var _ interfaces.StorageAdapter = (*Client)(nil)
