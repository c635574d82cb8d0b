package apperr

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/types"
)

// Receipt related keys
var (
	ReceiptIDKey  = goerr.NewTypedKey[types.ReceiptID]("receipt_id")
	StorageKeyKey = goerr.NewTypedKey[string]("storage_key")
)

// Upload related keys
var (
	SourceKindKey = goerr.NewTypedKey[string]("source_kind")
	SourceKey     = goerr.NewTypedKey[string]("source")
)
