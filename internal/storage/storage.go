package storage

import (
	"context"
	"time"
)

// DefaultPresignedURLExpiry is used when the caller passes a non-positive expiry.
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage abstracts the object store holding exercise demonstration media.
// Plans store object keys; handlers exchange them for presigned URLs at read
// time so links stay short-lived.
type FileStorage interface {
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}
