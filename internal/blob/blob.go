// =============================================================================
// salesdocs - Document Storage
// =============================================================================
//
// Rendered documents are put into a blob store and referenced from the
// document record by URL. Two drivers exist:
//   fs : a local directory (default); URLs are file:// paths
//   s3 : an S3-compatible bucket (AWS S3 or MinIO)
//
// =============================================================================

package blob

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ginjaninja78/salesdocs/internal/config"
)

// Driver names a blob store implementation.
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// Store stores rendered documents.
type Store interface {
	// Put writes data under key, replacing any existing object, and returns
	// the URL recorded on the document.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)

	// Get reads the object stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	Driver() Driver
}

// Open builds the store selected by the storage configuration.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch Driver(cfg.Driver) {
	case DriverFilesystem, "":
		return NewFilesystem(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// ContentType returns the MIME type of a rendered format.
func ContentType(format string) string {
	switch format {
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "xml":
		return "application/xml"
	case "json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// cleanKey rejects keys that would escape the store root.
func cleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid absolute key %q", key)
	}
	clean := path.Clean(strings.ReplaceAll(key, `\`, "/"))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("invalid key traversal %q", key)
	}
	return clean, nil
}
