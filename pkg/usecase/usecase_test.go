package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/adapters/memory"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
	"github.com/m-mizutani/imgbb/pkg/repository/storage"
	"github.com/m-mizutani/imgbb/pkg/usecase"
)

// Mock for Uploader
type UploaderMock struct {
	UploadFunc func(ctx context.Context, key string, src imgbb.Source, opts ...imgbb.UploadOption) (*imgbb.Response, error)
}

func (m *UploaderMock) Upload(ctx context.Context, key string, src imgbb.Source, opts ...imgbb.UploadOption) (*imgbb.Response, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, key, src, opts...)
	}
	return newResponse(), nil
}

// Mock for ReceiptRepository
type ReceiptRepositoryMock struct {
	PutReceiptFunc   func(ctx context.Context, r *receipt.Receipt) error
	GetReceiptFunc   func(ctx context.Context, id types.ReceiptID) (*receipt.Receipt, error)
	ListReceiptsFunc func(ctx context.Context) ([]*receipt.Receipt, error)
}

func (m *ReceiptRepositoryMock) PutReceipt(ctx context.Context, r *receipt.Receipt) error {
	if m.PutReceiptFunc != nil {
		return m.PutReceiptFunc(ctx, r)
	}
	return nil
}

func (m *ReceiptRepositoryMock) GetReceipt(ctx context.Context, id types.ReceiptID) (*receipt.Receipt, error) {
	if m.GetReceiptFunc != nil {
		return m.GetReceiptFunc(ctx, id)
	}
	return nil, apperr.ErrReceiptNotFound
}

func (m *ReceiptRepositoryMock) ListReceipts(ctx context.Context) ([]*receipt.Receipt, error) {
	if m.ListReceiptsFunc != nil {
		return m.ListReceiptsFunc(ctx)
	}
	return nil, nil
}

func newResponse() *imgbb.Response {
	return &imgbb.Response{
		Success: true,
		Status:  200,
		Data: imgbb.ImageData{
			ID:         "2ndCYJK",
			URL:        "https://i.ibb.co/w04Prt6/c1f64245afb2.gif",
			DisplayURL: "https://i.ibb.co/98W13PY/c1f64245afb2.gif",
			URLViewer:  "https://ibb.co/2ndCYJK",
			DeleteURL:  "https://ibb.co/2ndCYJK/670a7e48ddcb85ac340c717a41047e5c",
			Width:      json.Number("1"),
			Height:     json.Number("1"),
			Size:       json.Number("42"),
		},
	}
}

func TestUploadImage(t *testing.T) {
	ctx := context.Background()
	repo := storage.New(memory.New())

	var gotKey string
	var gotSrc imgbb.Source
	var gotOpts int
	uploader := &UploaderMock{
		UploadFunc: func(ctx context.Context, key string, src imgbb.Source, opts ...imgbb.UploadOption) (*imgbb.Response, error) {
			gotKey = key
			gotSrc = src
			gotOpts = len(opts)
			return newResponse(), nil
		},
	}

	uc := usecase.New(
		usecase.WithUploader(uploader),
		usecase.WithStorage(repo),
		usecase.WithAPIKey("test-key"),
	)

	result, err := uc.UploadImage(ctx, &interfaces.UploadImageRequest{
		Source:     imgbb.FromURL("https://example.com/cat.png"),
		Name:       "cat",
		Expiration: 600,
	})
	gt.NoError(t, err).Required()

	gt.V(t, gotKey).Equal("test-key")
	gt.V(t, gotSrc.Kind()).Equal(imgbb.SourceURL)
	gt.V(t, gotOpts).Equal(2)
	gt.V(t, result.Response.Data.ID).Equal("2ndCYJK")
	gt.V(t, result.Receipt).NotNil()
	gt.V(t, result.Receipt.Source).Equal("https://example.com/cat.png")
	gt.V(t, result.Receipt.DeleteURL).Equal("https://ibb.co/2ndCYJK/670a7e48ddcb85ac340c717a41047e5c")

	stored, err := uc.GetReceipt(ctx, result.Receipt.ID)
	gt.NoError(t, err).Required()
	gt.V(t, stored.ImageID).Equal("2ndCYJK")
	gt.V(t, stored.Expiration).Equal(600)

	list, err := uc.ListReceipts(ctx)
	gt.NoError(t, err)
	gt.A(t, list).Length(1)
}

func TestUploadImage_NoOptionalFields(t *testing.T) {
	ctx := context.Background()

	var gotOpts int
	uc := usecase.New(
		usecase.WithUploader(&UploaderMock{
			UploadFunc: func(ctx context.Context, key string, src imgbb.Source, opts ...imgbb.UploadOption) (*imgbb.Response, error) {
				gotOpts = len(opts)
				return newResponse(), nil
			},
		}),
		usecase.WithAPIKey("test-key"),
	)

	result, err := uc.UploadImage(ctx, &interfaces.UploadImageRequest{
		Source: imgbb.FromBytes([]byte("data")),
	})
	gt.NoError(t, err).Required()
	gt.V(t, gotOpts).Equal(0)
	// No storage configured
	gt.V(t, result.Receipt).Nil()
}

func TestUploadImage_APIKeyNotConfigured(t *testing.T) {
	called := false
	uc := usecase.New(usecase.WithUploader(&UploaderMock{
		UploadFunc: func(ctx context.Context, key string, src imgbb.Source, opts ...imgbb.UploadOption) (*imgbb.Response, error) {
			called = true
			return newResponse(), nil
		},
	}))

	gt.False(t, uc.APIKeyConfigured())
	_, err := uc.UploadImage(context.Background(), &interfaces.UploadImageRequest{
		Source: imgbb.FromBytes([]byte("data")),
	})
	gt.True(t, errors.Is(err, apperr.ErrAPIKeyNotConfigured))
	gt.False(t, called)
}

func TestUploadImage_UploadError(t *testing.T) {
	ctx := context.Background()
	putCalled := false

	// Real client against an unreachable endpoint yields a validation error first
	uc := usecase.New(
		usecase.WithUploader(imgbb.New(imgbb.WithEndpoint("http://127.0.0.1:0/upload"))),
		usecase.WithStorage(&ReceiptRepositoryMock{
			PutReceiptFunc: func(ctx context.Context, r *receipt.Receipt) error {
				putCalled = true
				return nil
			},
		}),
		usecase.WithAPIKey("test-key"),
	)

	_, err := uc.UploadImage(ctx, &interfaces.UploadImageRequest{
		Source:     imgbb.FromBytes([]byte("data")),
		Expiration: 30,
	})
	gt.Error(t, err)
	gt.True(t, imgbb.IsValidationError(err))
	gt.V(t, apperr.HTTPStatusFromError(err)).Equal(400)

	kind, ok := goerr.GetTypedValue(err, apperr.SourceKindKey)
	gt.True(t, ok)
	gt.V(t, kind).Equal("bytes")
	gt.False(t, putCalled)
}

func TestUploadImage_StorageFailureDoesNotFailUpload(t *testing.T) {
	ctx := context.Background()

	uc := usecase.New(
		usecase.WithUploader(&UploaderMock{}),
		usecase.WithStorage(&ReceiptRepositoryMock{
			PutReceiptFunc: func(ctx context.Context, r *receipt.Receipt) error {
				return goerr.New("bucket unavailable")
			},
		}),
		usecase.WithAPIKey("test-key"),
	)

	result, err := uc.UploadImage(ctx, &interfaces.UploadImageRequest{
		Source: imgbb.FromURL("https://example.com/cat.png"),
	})
	gt.NoError(t, err)
	gt.V(t, result.Response.Data.URL).Equal("https://i.ibb.co/w04Prt6/c1f64245afb2.gif")
	// No receipt ID is handed out for a receipt that was never stored
	gt.V(t, result.Receipt).Nil()
}

func TestUploadImage_ReceiptStoredBeforeReturn(t *testing.T) {
	ctx := context.Background()
	repo := storage.New(memory.New())

	uc := usecase.New(
		usecase.WithUploader(&UploaderMock{}),
		usecase.WithStorage(repo),
		usecase.WithAPIKey("test-key"),
	)

	result, err := uc.UploadImage(ctx, &interfaces.UploadImageRequest{
		Source: imgbb.FromURL("https://example.com/cat.png"),
	})
	gt.NoError(t, err).Required()
	gt.V(t, result.Receipt).NotNil()

	stored, err := repo.GetReceipt(ctx, result.Receipt.ID)
	gt.NoError(t, err).Required()
	gt.V(t, stored.DeleteURL).Equal(result.Response.Data.DeleteURL)
}

func TestGetReceipt(t *testing.T) {
	ctx := context.Background()

	t.Run("storage not configured", func(t *testing.T) {
		uc := usecase.New()
		_, err := uc.GetReceipt(ctx, types.NewReceiptID(ctx))
		gt.True(t, errors.Is(err, apperr.ErrStorageNotConfigured))

		_, err = uc.ListReceipts(ctx)
		gt.True(t, errors.Is(err, apperr.ErrStorageNotConfigured))
	})

	t.Run("invalid id", func(t *testing.T) {
		uc := usecase.New(usecase.WithStorage(&ReceiptRepositoryMock{}))
		_, err := uc.GetReceipt(ctx, types.ReceiptID("not-a-uuid"))
		gt.True(t, errors.Is(err, apperr.ErrInvalidReceiptID))
		gt.V(t, apperr.HTTPStatusFromError(err)).Equal(400)
	})

	t.Run("not found", func(t *testing.T) {
		uc := usecase.New(usecase.WithStorage(storage.New(memory.New())))
		_, err := uc.GetReceipt(ctx, types.NewReceiptID(ctx))
		gt.True(t, errors.Is(err, apperr.ErrReceiptNotFound))
		gt.V(t, apperr.HTTPStatusFromError(err)).Equal(404)
	})
}
