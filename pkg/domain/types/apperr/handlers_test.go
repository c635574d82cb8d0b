package apperr_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/imgbb"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func uploadErr(t *testing.T, rt roundTripFunc) error {
	t.Helper()
	client := imgbb.New(imgbb.WithHTTPClient(&http.Client{Transport: rt}))
	_, err := client.Upload(context.Background(), "key", imgbb.FromBytes([]byte("x")))
	if err == nil {
		t.Fatal("expected upload to fail")
	}
	return err
}

func TestHTTPStatusFromError(t *testing.T) {
	// API key validation error straight from the library
	_, validationErr := imgbb.New().Upload(context.Background(), "", imgbb.FromBytes([]byte("x")))

	apiErr := uploadErr(t, func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusForbidden,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"Invalid API key"}}`)),
		}, nil
	})
	timeout := uploadErr(t, func(*http.Request) (*http.Response, error) {
		return nil, timeoutErr{}
	})

	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"receipt not found", goerr.Wrap(apperr.ErrReceiptNotFound, "lookup"), http.StatusNotFound},
		{"invalid receipt id", apperr.ErrInvalidReceiptID, http.StatusBadRequest},
		{"imgbb validation", goerr.Wrap(validationErr, "upload"), http.StatusBadRequest},
		{"imgbb API error", goerr.Wrap(apiErr, "upload"), http.StatusBadGateway},
		{"imgbb timeout", goerr.Wrap(timeout, "upload"), http.StatusGatewayTimeout},
		{"api key missing", apperr.ErrAPIKeyNotConfigured, http.StatusInternalServerError},
		{"untagged", goerr.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gt.V(t, apperr.HTTPStatusFromError(tc.err)).Equal(tc.status)
		})
	}
}
