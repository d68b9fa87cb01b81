// Package filestore keeps uploaded work order and assignment documents either on
// the local disk or in an S3 compatible bucket.
package filestore

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Store interface {
	// Save stores the content under a fresh name and returns the path clients
	// should keep on the row.
	Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error)
}

func objectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

type Local struct {
	dir    string
	prefix string
}

// NewLocal stores files in dir; returned paths start with prefix (e.g. /uploads).
func NewLocal(dir, prefix string) (*Local, error) {
	const op = "filestore.NewLocal"

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Local{dir: dir, prefix: "/" + strings.Trim(prefix, "/")}, nil
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Save(ctx context.Context, filename, _ string, r io.Reader, _ int64) (string, error) {
	const op = "filestore.Local.Save"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	name := objectName(filename)
	f, err := os.OpenFile(filepath.Join(l.dir, name), os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("%s: create: %w", op, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%s: write: %w", op, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%s: close: %w", op, err)
	}

	return path.Join(l.prefix, name), nil
}

type Minio struct {
	client *minio.Client
	bucket string
}

func NewMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*Minio, error) {
	const op = "filestore.NewMinio"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: bucket exists: %w", op, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: make bucket: %w", op, err)
		}
	}

	return &Minio{client: client, bucket: bucket}, nil
}

// Save returns the object key, e.g. documents/<uuid>.pdf.
func (m *Minio) Save(ctx context.Context, filename, contentType string, r io.Reader, size int64) (string, error) {
	const op = "filestore.Minio.Save"

	key := "documents/" + objectName(filename)
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"filename": filename},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return key, nil
}

// SaveUpload stores one file of a parsed multipart form.
func SaveUpload(ctx context.Context, s Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("filestore.SaveUpload: open: %w", err)
	}
	defer f.Close()

	return s.Save(ctx, fh.Filename, fh.Header.Get("Content-Type"), f, fh.Size)
}
