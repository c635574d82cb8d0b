package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/utils/safe"
)

const tmpSuffix = ".tmp"

// Client stores each object as a file below a base directory. Writes go to
// a temporary file in the same directory and are renamed into place, so a
// reader sees either the old receipt or the new one.
type Client struct {
	baseDir     string
	permissions os.FileMode
}

// New creates a new filesystem storage client
func New(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid file storage config")
	}
	if err := config.EnsureDirectory(); err != nil {
		return nil, err
	}

	return &Client{
		baseDir:     config.BaseDirectory,
		permissions: config.Permissions,
	}, nil
}

// Put writes data atomically
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	path, err := c.path(key)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, c.permissions); err != nil {
		return goerr.Wrap(err, "failed to create directory", goerr.V("key", key))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*"+tmpSuffix)
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("key", key))
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		safe.Close(ctx, tmp)
		safe.Remove(ctx, tmpPath)
		return goerr.Wrap(err, "failed to write file", goerr.V("key", key))
	}
	if err := tmp.Close(); err != nil {
		safe.Remove(ctx, tmpPath)
		return goerr.Wrap(err, "failed to close file", goerr.V("key", key))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		safe.Remove(ctx, tmpPath)
		return goerr.Wrap(err, "failed to rename file", goerr.V("key", key))
	}

	return nil
}

// Get reads the file for key
func (c *Client) Get(_ context.Context, key string) ([]byte, error) {
	path, err := c.path(key)
	if err != nil {
		return nil, err
	}

	// #nosec G304 - path is confined to baseDir by c.path
	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, interfaces.ErrStorageKeyNotFound
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read file", goerr.V("key", key))
	}
	return data, nil
}

// List walks the base directory. In-flight temporary files are skipped.
func (c *Client) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(c.baseDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(path, tmpSuffix) {
			return nil
		}

		rel, err := filepath.Rel(c.baseDir, path)
		if err != nil {
			return err
		}
		if key := filepath.ToSlash(rel); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list files", goerr.V("prefix", prefix))
	}

	slices.Sort(keys)
	return keys, nil
}

// path maps a "/"-separated key to a file below baseDir. Absolute keys,
// ".." elements, backslashes and control characters are rejected.
func (c *Client) path(key string) (string, error) {
	invalid := func(reason string) error {
		return goerr.Wrap(interfaces.ErrStorageInvalidKey, reason, goerr.V("key", key))
	}

	if key == "" {
		return "", invalid("key cannot be empty")
	}
	if strings.ContainsRune(key, '\\') {
		return "", invalid("key must use / as separator")
	}
	if strings.ContainsFunc(key, func(r rune) bool { return r < 32 || r == 127 }) {
		return "", invalid("key contains control characters")
	}

	local := filepath.FromSlash(key)
	if !filepath.IsLocal(local) {
		return "", invalid("key escapes the storage directory")
	}

	return filepath.Join(c.baseDir, local), nil
}

var _ interfaces.StorageAdapter = (*Client)(nil)
