package receipt

import (
	"context"
	"time"

	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
)

// Receipt records a successful upload. It keeps the delete URL, which is the
// only handle for removing the hosted image later.
type Receipt struct {
	ID         types.ReceiptID `json:"id" yaml:"id"`
	CreatedAt  time.Time       `json:"created_at" yaml:"created_at"`
	SourceKind string          `json:"source_kind" yaml:"source_kind"`
	Source     string          `json:"source" yaml:"source"`
	Name       string          `json:"name,omitempty" yaml:"name,omitempty"`
	Expiration int             `json:"expiration" yaml:"expiration"`

	ImageID    string `json:"image_id" yaml:"image_id"`
	URL        string `json:"url" yaml:"url"`
	DisplayURL string `json:"display_url" yaml:"display_url"`
	ViewerURL  string `json:"viewer_url" yaml:"viewer_url"`
	DeleteURL  string `json:"delete_url" yaml:"delete_url"`
	Width      string `json:"width" yaml:"width"`
	Height     string `json:"height" yaml:"height"`
	Size       string `json:"size" yaml:"size"`
}

// New builds a receipt from an upload response
func New(ctx context.Context, src imgbb.Source, name string, expiration int, resp *imgbb.Response) *Receipt {
	r := &Receipt{
		ID:         types.NewReceiptID(ctx),
		CreatedAt:  time.Now().UTC(),
		SourceKind: src.Kind().String(),
		Name:       name,
		Expiration: expiration,
	}

	// Only URL and path sources have a meaningful description
	switch src.Kind() {
	case imgbb.SourceURL, imgbb.SourcePath:
		r.Source = src.String()
	}

	if resp != nil {
		r.ImageID = resp.Data.ID
		r.URL = resp.Data.URL
		r.DisplayURL = resp.Data.DisplayURL
		r.ViewerURL = resp.Data.URLViewer
		r.DeleteURL = resp.Data.DeleteURL
		r.Width = resp.Data.Width.String()
		r.Height = resp.Data.Height.String()
		r.Size = resp.Data.Size.String()
	}

	return r
}

// ExpiresAt returns when the hosted image is removed, or the zero time if
// the image is permanent.
func (r *Receipt) ExpiresAt() time.Time {
	if r.Expiration == 0 {
		return time.Time{}
	}
	return r.CreatedAt.Add(time.Duration(r.Expiration) * time.Second)
}
