package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/imgbb/pkg/adapters/fs"
	"github.com/m-mizutani/imgbb/pkg/adapters/memory"
	"github.com/m-mizutani/imgbb/pkg/cli/config"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
)

func TestStorage_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     config.Storage
		wantErr bool
	}{
		{"none", config.Storage{}, false},
		{"file", config.Storage{FSPath: "/tmp/receipts"}, false},
		{"cloud storage", config.Storage{Bucket: "b"}, false},
		{"s3", config.Storage{S3Bucket: "b", S3AccessKey: "a", S3SecretKey: "s"}, false},
		{"firestore", config.Storage{FirestoreProjectID: "p", FirestoreDatabaseID: "(default)"}, false},
		{"two backends", config.Storage{Bucket: "b", FSPath: "/tmp/receipts"}, true},
		{"firestore and s3", config.Storage{FirestoreProjectID: "p", S3Bucket: "b"}, true},
		{"secret without access key", config.Storage{S3Bucket: "b", S3SecretKey: "s"}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				gt.Error(t, err)
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestStorage_CreateAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("memory when nothing configured", func(t *testing.T) {
		cfg := config.Storage{}
		gt.False(t, cfg.IsConfigured())

		adapter, cleanup, err := cfg.CreateAdapter(ctx)
		gt.NoError(t, err).Required()
		defer cleanup()

		_, ok := adapter.(*memory.Client)
		gt.True(t, ok)
	})

	t.Run("file storage", func(t *testing.T) {
		cfg := config.Storage{FSPath: t.TempDir()}
		gt.True(t, cfg.IsConfigured())

		adapter, cleanup, err := cfg.CreateAdapter(ctx)
		gt.NoError(t, err).Required()
		defer cleanup()

		_, ok := adapter.(*fs.Client)
		gt.True(t, ok)
	})

	t.Run("repository round trip on file storage", func(t *testing.T) {
		cfg := config.Storage{FSPath: t.TempDir()}
		repo, cleanup, err := cfg.CreateRepository(ctx)
		gt.NoError(t, err).Required()
		defer cleanup()

		receipts, err := repo.ListReceipts(ctx)
		gt.NoError(t, err)
		gt.A(t, receipts).Length(0)
	})

	t.Run("firestore has no object adapter", func(t *testing.T) {
		cfg := config.Storage{FirestoreProjectID: "p"}
		gt.True(t, cfg.IsConfigured())

		_, _, err := cfg.CreateAdapter(ctx)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, apperr.ErrTagNotConfigured))
	})

	t.Run("repository rejects conflicting backends", func(t *testing.T) {
		cfg := config.Storage{FirestoreProjectID: "p", FSPath: t.TempDir()}
		_, _, err := cfg.CreateRepository(ctx)
		gt.Error(t, err)
	})
}
