package receipt_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
)

func TestNew(t *testing.T) {
	ctx := context.Background()
	resp := &imgbb.Response{
		Data: imgbb.ImageData{
			ID:         "2ndCYJK",
			URL:        "https://i.ibb.co/w04Prt6/test-image.png",
			DisplayURL: "https://i.ibb.co/98W13PY/test-image.png",
			URLViewer:  "https://ibb.co/2ndCYJK",
			DeleteURL:  "https://ibb.co/2ndCYJK/670a7e48ddcb85ac340c717a41047e5c",
			Width:      json.Number("1920"),
			Height:     json.Number("1080"),
			Size:       json.Number("42000"),
		},
		Success: true,
		Status:  200,
	}

	t.Run("path source", func(t *testing.T) {
		r := receipt.New(ctx, imgbb.FromPath("/tmp/a.png"), "a", 3600, resp)
		gt.True(t, r.ID.IsValid())
		gt.V(t, r.SourceKind).Equal("path")
		gt.V(t, r.Source).Equal("/tmp/a.png")
		gt.V(t, r.ImageID).Equal("2ndCYJK")
		gt.V(t, r.DeleteURL).Equal("https://ibb.co/2ndCYJK/670a7e48ddcb85ac340c717a41047e5c")
		gt.V(t, r.Width).Equal("1920")
		gt.V(t, r.ExpiresAt()).Equal(r.CreatedAt.Add(time.Hour))
	})

	t.Run("bytes source has no description", func(t *testing.T) {
		r := receipt.New(ctx, imgbb.FromBytes([]byte("abc")), "", 0, resp)
		gt.V(t, r.SourceKind).Equal("bytes")
		gt.V(t, r.Source).Equal("")
		gt.True(t, r.ExpiresAt().IsZero())
	})

	t.Run("ids are unique", func(t *testing.T) {
		r1 := receipt.New(ctx, imgbb.FromURL("https://example.com/a.png"), "", 0, resp)
		r2 := receipt.New(ctx, imgbb.FromURL("https://example.com/a.png"), "", 0, resp)
		gt.V(t, r1.ID).NotEqual(r2.ID)
	})
}
