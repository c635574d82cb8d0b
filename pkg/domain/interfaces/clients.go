package interfaces

import (
	"context"

	"github.com/m-mizutani/imgbb/pkg/imgbb"
)

// Uploader sends an image to the hosting API. *imgbb.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, key string, src imgbb.Source, opts ...imgbb.UploadOption) (*imgbb.Response, error)
}

var _ Uploader = (*imgbb.Client)(nil)
