// Package media describes the blob host used for avatars and product images.
package media

import "context"

type Storage interface {
	// Upload stores the file at localPath and returns its public URL. The local
	// file is removed whether or not the upload succeeds.
	Upload(ctx context.Context, localPath string) (string, error)

	Delete(ctx context.Context, url string) error
}
