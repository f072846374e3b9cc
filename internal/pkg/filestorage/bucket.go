package filestorage

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"

	"github.com/emblabrowall/donosti-guide/internal/pkg/logger"
)

// BucketStorage saves photos to the Firebase (Cloud Storage) bucket
type BucketStorage struct {
	bucket     *storage.BucketHandle
	bucketName string
}

// NewBucketStorage opens bucketName through the Firebase app
func NewBucketStorage(ctx context.Context, app *firebase.App, bucketName string) (*BucketStorage, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase storage: %w", err)
	}
	handle, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", bucketName, err)
	}
	return &BucketStorage{bucket: handle, bucketName: bucketName}, nil
}

// SavePhoto implements PhotoStorage
func (bs *BucketStorage) SavePhoto(ctx context.Context, name string, photo *Photo) (string, error) {
	name, err := cleanObjectName(name)
	if err != nil {
		return "", err
	}

	obj := bs.bucket.Object(name)
	w := obj.NewWriter(ctx)
	w.ContentType = photo.MimeType
	w.CacheControl = "public, max-age=31536000"
	if _, err := w.Write(photo.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	// buckets with uniform access control reject object ACLs; their
	// visibility is configured on the bucket
	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		logger.Debug().Err(err).Str("object", name).Msg("Could not make photo public")
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, url.PathEscape(name)), nil
}

// DeletePhoto implements PhotoStorage
func (bs *BucketStorage) DeletePhoto(ctx context.Context, name string) error {
	name, err := cleanObjectName(name)
	if err != nil {
		return err
	}
	if err := bs.bucket.Object(name).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}
