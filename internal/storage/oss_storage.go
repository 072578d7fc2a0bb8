package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"repairorder/internal/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

type ossStorage struct {
	bucket *oss.Bucket
	prefix string
	now    func() time.Time
}

// NewOSSStorage targets an Aliyun OSS bucket.
func NewOSSStorage(cfg config.Config) (Storage, error) {
	endpoint := strings.TrimSpace(cfg.StorageOSSEndpoint)
	bucketName := strings.TrimSpace(cfg.StorageOSSBucket)
	if endpoint == "" || bucketName == "" {
		return nil, errors.New("storage: missing OSS endpoint or bucket")
	}
	accessKey := strings.TrimSpace(cfg.StorageOSSAccessKeyID)
	secretKey := strings.TrimSpace(cfg.StorageOSSAccessKeySecret)
	if accessKey == "" || secretKey == "" {
		return nil, errors.New("storage: missing OSS credentials")
	}

	client, err := oss.New(endpoint, accessKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("storage: create OSS client: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("storage: open OSS bucket: %w", err)
	}

	return &ossStorage{bucket: bucket, prefix: cfg.StorageOSSPrefix, now: time.Now}, nil
}

func (s *ossStorage) Save(ctx context.Context, data []byte, opts SaveOptions) (string, error) {
	if len(data) == 0 {
		return "", errEmptyPayload
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := objectKey(s.prefix, opts.Category, opts.FileName, s.now())
	options := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentTypeFor(opts)),
	}
	if name := sanitizeFileName(opts.FileName); name != "" {
		options = append(options, oss.ContentDisposition(fmt.Sprintf("attachment; filename=%q", name)))
	}

	if err := s.bucket.PutObject(key, bytes.NewReader(data), options...); err != nil {
		var svcErr oss.ServiceError
		if errors.As(err, &svcErr) {
			return "", fmt.Errorf("put object: %s: %w", svcErr.Code, err)
		}
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

var _ Storage = (*ossStorage)(nil)
