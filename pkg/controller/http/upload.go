package http

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/domain/model/receipt"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
	"github.com/m-mizutani/imgbb/pkg/utils/safe"
)

const (
	// Multipart overhead allowed on top of the image size limit
	maxFormOverhead = 1 << 20
	maxFormMemory   = 10 << 20
)

// UploadController handles image upload HTTP requests
type UploadController struct {
	uploadUC interfaces.UploadUseCases
}

// NewUploadController creates a new upload controller
func NewUploadController(uploadUC interfaces.UploadUseCases) *UploadController {
	return &UploadController{
		uploadUC: uploadUC,
	}
}

// UploadImageResponse represents the response for image upload
type UploadImageResponse struct {
	Success    bool        `json:"success"`
	URL        string      `json:"url"`
	DisplayURL string      `json:"display_url"`
	DeleteURL  string      `json:"delete_url"`
	Width      json.Number `json:"width"`
	Height     json.Number `json:"height"`
	Size       json.Number `json:"size"`
	ReceiptID  string      `json:"receipt_id,omitempty"`
}

// ReceiptListResponse wraps stored receipts
type ReceiptListResponse struct {
	Receipts []*receipt.Receipt `json:"receipts"`
}

// HandleUpload accepts a multipart form with either a "file" part or a "url"
// field, plus optional "name" and "expiration" fields.
func (c *UploadController) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !c.uploadUC.APIKeyConfigured() {
		handleError(w, r, apperr.ErrAPIKeyNotConfigured)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imgbb.MaxFileSize+maxFormOverhead)
	// URL uploads may come as a plain urlencoded form
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		handleError(w, r, goerr.Wrap(err, "failed to parse multipart form", goerr.T(apperr.ErrTagInvalidInput)))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	expiration, err := parseExpiration(r.FormValue("expiration"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	req := &interfaces.UploadImageRequest{
		Name:       r.FormValue("name"),
		Expiration: expiration,
	}

	file, fileHeader, err := formFile(r)
	switch {
	case err == nil:
		defer safe.Close(ctx, file)
		if fileHeader.Filename == "" {
			handleError(w, r, goerr.New("no file selected", goerr.T(apperr.ErrTagRequiredField)))
			return
		}
		req.Source = imgbb.FromReader(file)
		if req.Name == "" {
			req.Name = fileHeader.Filename
		}
		ctxlog.From(ctx).Debug("received image file",
			"filename", fileHeader.Filename,
			"size", fileHeader.Size,
		)

	case errors.Is(err, http.ErrMissingFile):
		imageURL := r.FormValue("url")
		if imageURL == "" {
			handleError(w, r, goerr.New("no image provided", goerr.T(apperr.ErrTagRequiredField)))
			return
		}
		// Only remote URLs; a bare string would be read as a server-side path
		src := imgbb.FromString(imageURL)
		if src.Kind() != imgbb.SourceURL {
			handleError(w, r, goerr.New("url must be an http or https URL",
				goerr.TV(apperr.SourceKey, imageURL),
				goerr.T(apperr.ErrTagInvalidInput)))
			return
		}
		req.Source = src

	default:
		handleError(w, r, goerr.Wrap(err, "failed to get file from form", goerr.T(apperr.ErrTagInvalidInput)))
		return
	}

	result, err := c.uploadUC.UploadImage(ctx, req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	data := result.Response.Data
	resp := &UploadImageResponse{
		Success:    true,
		URL:        data.URL,
		DisplayURL: data.DisplayURL,
		DeleteURL:  data.DeleteURL,
		Width:      data.Width,
		Height:     data.Height,
		Size:       data.Size,
	}
	if result.Receipt != nil {
		resp.ReceiptID = result.Receipt.ID.String()
	}

	writeJSON(w, r, http.StatusOK, resp)
}

// HandleGetReceipt returns a stored receipt
func (c *UploadController) HandleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id := types.ReceiptID(chi.URLParam(r, "receiptID"))

	rcpt, err := c.uploadUC.GetReceipt(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, rcpt)
}

// HandleListReceipts returns all stored receipts
func (c *UploadController) HandleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := c.uploadUC.ListReceipts(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, &ReceiptListResponse{Receipts: receipts})
}

// formFile returns the "file" part, falling back to "image"
func formFile(r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	if r.MultipartForm == nil {
		return nil, nil, http.ErrMissingFile
	}
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return r.FormFile("image")
	}
	return file, header, err
}

func parseExpiration(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	expiration, err := strconv.Atoi(v)
	if err != nil {
		return 0, goerr.Wrap(err, "expiration must be an integer number of seconds",
			goerr.V("expiration", v),
			goerr.T(apperr.ErrTagInvalidInput))
	}
	return expiration, nil
}
