package storage

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/config"
)

type fakeObjects struct {
	put     *s3.PutObjectInput
	body    string
	deleted *s3.DeleteObjectInput
	headed  *s3.HeadBucketInput
	err     error
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	data, _ := io.ReadAll(in.Body)
	f.body = string(data)
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.err
}

func (f *fakeObjects) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.headed = in
	return &s3.HeadBucketOutput{}, f.err
}

func storageConfig() config.StorageConfig {
	return config.StorageConfig{
		Endpoint:  "http://127.0.0.1:9000",
		Region:    "us-east-1",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "audit-tracker",
	}
}

func TestS3Storage_Put(t *testing.T) {
	fake := &fakeObjects{}
	s := &S3Storage{bucket: "audit-tracker", objects: fake}

	err := s.Put(context.Background(), "results/7/a.jpg", "image/jpeg", 5, strings.NewReader("bytes"))
	require.NoError(t, err)

	require.NotNil(t, fake.put)
	assert.Equal(t, "audit-tracker", aws.ToString(fake.put.Bucket))
	assert.Equal(t, "results/7/a.jpg", aws.ToString(fake.put.Key))
	assert.Equal(t, "image/jpeg", aws.ToString(fake.put.ContentType))
	assert.Equal(t, int64(5), aws.ToInt64(fake.put.ContentLength))
	assert.Equal(t, "bytes", fake.body)
}

func TestS3Storage_PutUnknownSize(t *testing.T) {
	fake := &fakeObjects{}
	s := &S3Storage{bucket: "b", objects: fake}

	require.NoError(t, s.Put(context.Background(), "k", "image/png", 0, strings.NewReader("x")))
	assert.Nil(t, fake.put.ContentLength)
}

func TestS3Storage_Errors(t *testing.T) {
	fake := &fakeObjects{err: errors.New("no such bucket")}
	s := &S3Storage{bucket: "b", objects: fake}

	err := s.Put(context.Background(), "avatars/1/x.png", "image/png", 1, strings.NewReader("x"))
	assert.ErrorContains(t, err, "avatars/1/x.png")

	err = s.Delete(context.Background(), "avatars/1/x.png")
	assert.ErrorContains(t, err, "no such bucket")
}

func TestS3Storage_Delete(t *testing.T) {
	fake := &fakeObjects{}
	s := &S3Storage{bucket: "audit-tracker", objects: fake}

	require.NoError(t, s.Delete(context.Background(), "avatars/3/old.png"))
	assert.Equal(t, "avatars/3/old.png", aws.ToString(fake.deleted.Key))
}

func TestS3Storage_Ping(t *testing.T) {
	fake := &fakeObjects{}
	s := &S3Storage{bucket: "audit-tracker", objects: fake}

	require.NoError(t, s.Ping(context.Background()))
	assert.Equal(t, "audit-tracker", aws.ToString(fake.headed.Bucket))

	fake.err = errors.New("forbidden")
	err := s.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit-tracker")
}

func TestS3Storage_PresignGet(t *testing.T) {
	s, err := NewS3Storage(context.Background(), storageConfig())
	require.NoError(t, err)

	raw, err := s.PresignGet(context.Background(), "results/7/photo.jpg", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.Equal(t, "/audit-tracker/results/7/photo.jpg", u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewObjectKey(t *testing.T) {
	key := NewObjectKey(PrefixResults, 42, "Photo.JPG")
	assert.True(t, strings.HasPrefix(key, "results/42/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	other := NewObjectKey(PrefixResults, 42, "Photo.JPG")
	assert.NotEqual(t, key, other)

	noExt := NewObjectKey(PrefixAvatars, 1, "avatar")
	assert.Len(t, strings.TrimPrefix(noExt, "avatars/1/"), 36)
}
