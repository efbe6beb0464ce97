// Package archivesvc keeps a copy of every relayed document in an S3-compatible bucket.
package archivesvc

import (
	"bytes"
	"context"
	"mime"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/akademflow/backend/core"
	"github.com/akademflow/backend/core/relay"
)

const defaultRegion = "us-east-1"

type MinioArchive struct {
	client *minio.Client
	bucket string
}

var _ relay.Archiver = (*MinioArchive)(nil)

func NewMinioArchive(conf *core.Config) (*MinioArchive, error) {
	client, err := minio.New(conf.Archive.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.Archive.AccessKey, conf.Archive.SecretKey, ""),
		Secure: conf.Archive.UseSSL,
		Region: defaultRegion,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating minio client")
	}
	return &MinioArchive{client: client, bucket: conf.Archive.Bucket}, nil
}

// EnsureBucket creates the archive bucket when it does not exist yet.
func (a *MinioArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return errors.Wrapf(err, "checking bucket %s", a.bucket)
	}
	if exists {
		return nil
	}
	err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: defaultRegion})
	return errors.Wrapf(err, "creating bucket %s", a.bucket)
}

func (a *MinioArchive) Archive(ctx context.Context, key string, doc core.OutgoingDocument) error {
	contentType := mime.TypeByExtension(filepath.Ext(doc.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(doc.Content), int64(len(doc.Content)), minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"chat-id":  doc.ChatID,
			"topic-id": doc.TopicID,
		},
	})
	return errors.Wrapf(err, "archiving %s", key)
}
