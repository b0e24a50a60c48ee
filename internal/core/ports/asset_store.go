package ports

import "context"

// ImageUpload is a raw image received from the client, ready to be handed to
// the asset host.
type ImageUpload struct {
	ContentType string
	Data        []byte
}

// AssetStore abstracts the external image host. Upload returns the hosted
// URL, which is the only reference the catalog keeps.
type AssetStore interface {
	Upload(ctx context.Context, img ImageUpload) (string, error)
	Delete(ctx context.Context, url string) error
}
