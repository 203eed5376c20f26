// Package storage keeps result images and avatars in S3-compatible object storage.
// Пакет storage хранит изображения результатов и аватары в S3-совместимом хранилище.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/andrewhigh08/audit-tracker/internal/config"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// Key prefixes.
const (
	PrefixResults = "results"
	PrefixAudits  = "audits"
	PrefixAvatars = "avatars"
)

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

type presignAPI interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Storage implements port.ObjectStorage on top of aws-sdk-go-v2.
// S3Storage реализует port.ObjectStorage на aws-sdk-go-v2.
type S3Storage struct {
	bucket    string
	objects   objectAPI
	presigner presignAPI
}

// NewS3Storage builds a client with static credentials and a custom endpoint
// (MinIO in development). Path-style addressing is forced for MinIO.
// NewS3Storage создаёт клиента со статическими учётными данными и своим
// адресом (MinIO при разработке). Для MinIO включена адресация path-style.
func NewS3Storage(ctx context.Context, cfg config.StorageConfig) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Storage{
		bucket:    cfg.Bucket,
		objects:   client,
		presigner: s3.NewPresignClient(client),
	}, nil
}

// Ping checks that the bucket is reachable. Used by the readiness check.
// Ping проверяет доступность бакета. Используется readiness пробой.
func (s *S3Storage) Ping(ctx context.Context) error {
	if _, err := s.objects.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Put uploads body under key.
func (s *S3Storage) Put(ctx context.Context, key, contentType string, size int64, body io.Reader) error {
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size > 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.objects.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing object is not an error.
// Delete удаляет key. Удаление отсутствующего объекта не считается ошибкой.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PresignGet returns a temporary download URL for key.
// PresignGet возвращает временную ссылку на скачивание key.
func (s *S3Storage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}

// NewObjectKey returns "<prefix>/<owner>/<uuid><ext>", keeping the extension of filename.
// NewObjectKey возвращает "<prefix>/<owner>/<uuid><ext>", сохраняя расширение filename.
func NewObjectKey(prefix string, ownerID int64, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("%s/%d/%s%s", prefix, ownerID, uuid.NewString(), ext)
}

var _ port.ObjectStorage = (*S3Storage)(nil)
