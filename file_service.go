package inkwell

import "context"

// FileService is the opaque image-hosting collaborator. The platform hands
// out URLs and stores the resulting location string on the post; it never
// touches file bytes itself.
type FileService interface {
	IsExists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	GetURL(ctx context.Context, path string) (string, error)
	GetURLWithExpiry(ctx context.Context, path string, expireSeconds int) (string, error)
	GetUploadURL(ctx context.Context, path string) (string, error)
}
