package storage

import (
	"context"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"

	"github.com/oksasatya/employee-management-api/pkg/helpers"
)

// GCSStore keeps images in a bucket and returns their public URL as the reference.
type GCSStore struct {
	Client *gcs.Client
	Bucket string
	Folder string
}

func NewGCSStore(client *gcs.Client, bucket string) *GCSStore {
	return &GCSStore{Client: client, Bucket: bucket, Folder: "employees"}
}

func (s *GCSStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	return helpers.UploadObject(ctx, s.Client, s.Bucket, path.Join(s.Folder, objectName(filename)), contentType, r)
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	objectPath, ok := strings.CutPrefix(ref, helpers.PublicURL(s.Bucket, ""))
	if !ok || objectPath == "" {
		return nil
	}
	return helpers.DeleteObject(ctx, s.Client, s.Bucket, objectPath)
}
