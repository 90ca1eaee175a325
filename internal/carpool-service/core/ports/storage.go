package ports

import "context"

// IContentStore is the content-addressed snapshot store. Not on the
// booking critical path; used for profile snapshots only.
type IContentStore interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, contentID string) ([]byte, error)
}
