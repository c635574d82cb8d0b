package interfaces_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
)

func TestContentType(t *testing.T) {
	gt.Equal(t, interfaces.ContentType("receipts/x.json.gz"), "application/gzip")
	gt.Equal(t, interfaces.ContentType("receipts/x.json"), "application/json")
	gt.Equal(t, interfaces.ContentType("receipts/x"), "application/octet-stream")
}
