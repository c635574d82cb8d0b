package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/adapters/cs"
	"github.com/m-mizutani/imgbb/pkg/adapters/fs"
	"github.com/m-mizutani/imgbb/pkg/adapters/memory"
	"github.com/m-mizutani/imgbb/pkg/adapters/s3"
	"github.com/m-mizutani/imgbb/pkg/domain/interfaces"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/repository/database/firestore"
	"github.com/m-mizutani/imgbb/pkg/repository/storage"
	"github.com/urfave/cli/v3"
)

// Storage contains configuration for receipt storage adapters
type Storage struct {
	// Cloud Storage configuration
	Bucket string
	Prefix string

	// File System storage configuration
	FSPath string

	// S3 (or S3 compatible) storage configuration
	S3Bucket    string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string `masq:"secret"`
	S3Prefix    string

	// Firestore keeps receipts as documents instead of objects
	FirestoreProjectID  string
	FirestoreDatabaseID string
}

// Flags returns CLI flags for Storage configuration
func (s *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "cloud-storage-bucket",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_CLOUD_STORAGE_BUCKET"),
			Usage:       "Cloud Storage bucket for receipts",
			Destination: &s.Bucket,
		},
		&cli.StringFlag{
			Name:        "cloud-storage-prefix",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_CLOUD_STORAGE_PREFIX"),
			Usage:       "Prefix for Cloud Storage objects",
			Destination: &s.Prefix,
		},
		&cli.StringFlag{
			Name:        "file-storage-path",
			Category:    "storage",
			Usage:       "Directory for file system receipt storage",
			Sources:     cli.EnvVars("IMGBB_FILE_STORAGE_PATH"),
			Destination: &s.FSPath,
		},
		&cli.StringFlag{
			Name:        "s3-bucket",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_S3_BUCKET"),
			Usage:       "S3 bucket for receipts",
			Destination: &s.S3Bucket,
		},
		&cli.StringFlag{
			Name:        "s3-endpoint",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_S3_ENDPOINT"),
			Usage:       "Custom S3 endpoint, e.g. a MinIO server",
			Destination: &s.S3Endpoint,
		},
		&cli.StringFlag{
			Name:        "s3-region",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_S3_REGION", "AWS_REGION"),
			Usage:       "S3 region",
			Value:       "us-east-1",
			Destination: &s.S3Region,
		},
		&cli.StringFlag{
			Name:        "s3-access-key",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_S3_ACCESS_KEY"),
			Usage:       "S3 access key (default credential chain if empty)",
			Destination: &s.S3AccessKey,
		},
		&cli.StringFlag{
			Name:        "s3-secret-key",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_S3_SECRET_KEY"),
			Usage:       "S3 secret key",
			Destination: &s.S3SecretKey,
		},
		&cli.StringFlag{
			Name:        "s3-prefix",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_S3_PREFIX"),
			Usage:       "Prefix for S3 objects",
			Destination: &s.S3Prefix,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_FIRESTORE_PROJECT_ID"),
			Usage:       "Google Cloud project ID for Firestore receipt storage",
			Destination: &s.FirestoreProjectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Category:    "storage",
			Sources:     cli.EnvVars("IMGBB_FIRESTORE_DATABASE_ID"),
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Destination: &s.FirestoreDatabaseID,
		},
	}
}

// LogValue returns the storage configuration without secrets
func (s Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", s.backend()),
		slog.String("cloud_storage_bucket", s.Bucket),
		slog.String("file_storage_path", s.FSPath),
		slog.String("s3_bucket", s.S3Bucket),
		slog.String("s3_endpoint", s.S3Endpoint),
		slog.String("firestore_project_id", s.FirestoreProjectID),
		slog.String("firestore_database_id", s.FirestoreDatabaseID),
	)
}

func (s *Storage) backend() string {
	switch {
	case s.Bucket != "":
		return "cloud_storage"
	case s.S3Bucket != "":
		return "s3"
	case s.FSPath != "":
		return "file"
	case s.FirestoreProjectID != "":
		return "firestore"
	default:
		return "none"
	}
}

// Validate validates the Storage configuration
func (s *Storage) Validate() error {
	configured := 0
	for _, v := range []string{s.Bucket, s.S3Bucket, s.FSPath, s.FirestoreProjectID} {
		if v != "" {
			configured++
		}
	}
	if configured > 1 {
		return goerr.New("only one receipt storage backend can be configured",
			goerr.V("storage", s))
	}
	if s.S3SecretKey != "" && s.S3AccessKey == "" {
		return goerr.New("--s3-secret-key requires --s3-access-key")
	}
	return nil
}

// IsConfigured returns true if a persistent backend is configured
func (s *Storage) IsConfigured() bool {
	return s.backend() != "none"
}

// CreateAdapter creates the storage adapter selected by the configuration.
// With nothing configured it returns an in-memory adapter.
func (s *Storage) CreateAdapter(ctx context.Context) (interfaces.StorageAdapter, func(), error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	switch s.backend() {
	case "cloud_storage":
		opts := []cs.Option{}
		if s.Prefix != "" {
			opts = append(opts, cs.WithPrefix(s.Prefix))
		}

		csClient, err := cs.New(ctx, s.Bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create Cloud Storage client")
		}

		cleanup := func() {
			_ = csClient.Close() // #nosec G104 - Close error handled gracefully in cleanup
		}

		return csClient, cleanup, nil

	case "s3":
		opts := []s3.Option{s3.WithRegion(s.S3Region)}
		if s.S3Prefix != "" {
			opts = append(opts, s3.WithPrefix(s.S3Prefix))
		}
		if s.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(s.S3Endpoint))
		}
		if s.S3AccessKey != "" {
			opts = append(opts, s3.WithStaticCredentials(s.S3AccessKey, s.S3SecretKey))
		}

		s3Client, err := s3.New(ctx, s.S3Bucket, opts...)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create S3 client")
		}

		return s3Client, func() {}, nil

	case "file":
		fsClient, err := fs.New(&fs.Config{BaseDirectory: s.FSPath})
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create file system storage adapter")
		}

		return fsClient, func() {}, nil

	case "firestore":
		return nil, nil, goerr.New("firestore stores documents, not objects",
			goerr.T(apperr.ErrTagNotConfigured))

	default:
		return memory.New(), func() {}, nil
	}
}

// CreateRepository creates the receipt repository. Firestore is used directly;
// every other backend goes through a storage adapter.
func (s *Storage) CreateRepository(ctx context.Context) (interfaces.ReceiptRepository, func(), error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}

	if s.backend() == "firestore" {
		client, err := firestore.New(ctx, s.FirestoreProjectID, s.FirestoreDatabaseID)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create Firestore receipt repository")
		}
		return client, func() { _ = client.Close() }, nil
	}

	adapter, cleanup, err := s.CreateAdapter(ctx)
	if err != nil {
		return nil, nil, err
	}
	return storage.New(adapter), cleanup, nil
}
