package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FirebaseBlobStore writes assets to a Firebase Storage bucket.
type FirebaseBlobStore struct {
	Bucket     *gcs.BucketHandle
	BucketName string
}

func NewFirebaseBlobStore(bucket *gcs.BucketHandle, bucketName string) *FirebaseBlobStore {
	return &FirebaseBlobStore{Bucket: bucket, BucketName: bucketName}
}

func (s *FirebaseBlobStore) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string, progress ProgressFunc) (string, error) {
	if s.Bucket == nil {
		return "", ErrBlobUnavailable
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The download token is what makes the Firebase URL publicly readable
	token := uuid.NewString()

	w := s.Bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}
	if progress != nil && size > 0 {
		w.ProgressFunc = func(written int64) { progress(written, size) }
	}

	if _, err := io.Copy(w, r); err != nil {
		cancel()
		_ = w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object: %w", err)
	}
	if progress != nil && size > 0 {
		progress(size, size)
	}

	return firebaseDownloadURL(s.BucketName, path, token), nil
}

func firebaseDownloadURL(bucket, path, token string) string {
	escaped := strings.ReplaceAll(url.PathEscape(path), "/", "%2F")
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s", bucket, escaped, token)
}
