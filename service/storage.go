package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/veralix/certgen/config"
	"github.com/veralix/certgen/model"
	"github.com/veralix/certgen/pkg/logger"
)

// ObjectDownloader fetches raw object bytes from the image bucket.
type ObjectDownloader interface {
	Download(ctx context.Context, path string) ([]byte, error)
}

// MinioStore reads jewelry images from object storage.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioStore{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Download fetches an object and returns its contents.
func (s *MinioStore) Download(ctx context.Context, path string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}
	return data, nil
}

// fallbackImageNames are the conventional filenames probed when the item has
// no usable main image pointer.
var fallbackImageNames = []string{"main.jpg", "main.png", "main.jpeg", "image-0.jpg", "image-0.png"}

// ImageResolver locates an item's representative image in object storage.
type ImageResolver struct {
	store ObjectDownloader
}

func NewImageResolver(store ObjectDownloader) *ImageResolver {
	return &ImageResolver{store: store}
}

// Resolve returns the item's image bytes, or nil when no image exists.
// A missing image is not an error: the certificate renders a placeholder.
func (r *ImageResolver) Resolve(ctx context.Context, item *model.JewelryItem) []byte {
	// Primary path: the stored main image pointer
	if item.MainImageURL != "" {
		if path, ok := storagePathFromURL(item.MainImageURL); ok {
			data, err := r.store.Download(ctx, path)
			if err == nil && len(data) > 0 {
				return data
			}
			logger.Debug(ctx, "main image pointer did not resolve", "path", path, "error", err)
		}
	}

	// Fallback: probe conventional filenames under the owner/item prefix
	for _, name := range fallbackImageNames {
		path := fmt.Sprintf("%s/%s/%s", item.UserID, item.ID, name)
		data, err := r.store.Download(ctx, path)
		if err == nil && len(data) > 0 {
			logger.Debug(ctx, "found image via filename probe", "path", path)
			return data
		}
	}

	logger.Warn(ctx, "no image found in storage", "jewelry_item_id", item.ID)
	return nil
}

// storagePathFromURL extracts the bucket-relative path from a stored image
// URL of the form .../jewelry-images/<owner>/<item>/<file>.
func storagePathFromURL(url string) (string, bool) {
	parts := strings.SplitN(url, "/jewelry-images/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
