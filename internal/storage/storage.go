package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignExpiry = 15 * time.Minute

// ObjectStorage defines the interface for the object store holding plan cover
// images. Clients upload and download directly via presigned URLs; the API
// never proxies image bytes.
type ObjectStorage interface {
	// PresignUpload creates a temporary URL allowing a direct PUT of the
	// object. The uploader must send the same Content-Type header.
	PresignUpload(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// PresignDownload creates a temporary URL allowing a direct GET of the object.
	PresignDownload(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the store.
	DeleteObject(ctx context.Context, objectKey string) error
}
