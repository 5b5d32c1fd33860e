// internal/adapters/out/gcs/profile_photo_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

const DefaultProfilePhotoBucket = "botparts-profile-photos"

// ProfilePhotoRepositoryGCS stores buyer profile photos on GCS.
//
// Object layout:
// - bucket: PROFILE_PHOTO_BUCKET (default above)
// - object: <uid>/photo (one current photo per user; uploads overwrite)
type ProfilePhotoRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewProfilePhotoRepositoryGCS(client *storage.Client, bucket string) *ProfilePhotoRepositoryGCS {
	b := strings.TrimSpace(bucket)
	if b == "" {
		b = DefaultProfilePhotoBucket
	}
	return &ProfilePhotoRepositoryGCS{Client: client, Bucket: b}
}

func (r *ProfilePhotoRepositoryGCS) effectiveBucket() (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("profile_photo_repository_gcs: storage client is nil")
	}
	b := strings.TrimSpace(r.Bucket)
	if b == "" {
		return "", errors.New("profile_photo_repository_gcs: bucket is empty")
	}
	return b, nil
}

// Upload writes the photo bytes and returns the public object URL.
// The bucket is expected to allow public reads (storefront avatars).
func (r *ProfilePhotoRepositoryGCS) Upload(ctx context.Context, uid, contentType string, body io.Reader) (string, error) {
	bucket, err := r.effectiveBucket()
	if err != nil {
		return "", err
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", errors.New("profile_photo_repository_gcs: uid is empty")
	}
	if body == nil {
		return "", errors.New("profile_photo_repository_gcs: body is nil")
	}

	objName := uid + "/photo"

	w := r.Client.Bucket(bucket).Object(objName).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("profile_photo_repository_gcs: upload failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("profile_photo_repository_gcs: upload close failed: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, objName), nil
}
