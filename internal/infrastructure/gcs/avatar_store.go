// Package gcs stores user avatars in a Google Cloud Storage bucket.
package gcs

import (
	"context"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/devconnector/pkg/helpers"
)

type AvatarStore struct {
	Client *storage.Client
	Bucket string
}

func NewAvatarStore(client *storage.Client, bucket string) *AvatarStore {
	return &AvatarStore{Client: client, Bucket: bucket}
}

// ObjectPath is avatars/<user>/<random><ext>; a fresh name per upload keeps
// CDN caches from serving a stale image.
func ObjectPath(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("avatars", userID, uuid.NewString()+ext)
}

func (s *AvatarStore) Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, ObjectPath(userID, filename), contentType, r)
}
