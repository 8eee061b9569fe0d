package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3API struct {
	mock.Mock
}

func (m *mockS3API) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockS3API) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *mockS3API) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, in)
	return &s3.DeleteObjectOutput{}, args.Error(0)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	args := m.Called(ctx, in)
	return &manager.UploadOutput{}, args.Error(0)
}

func TestS3PutUsesPrefix(t *testing.T) {
	api, up := new(mockS3API), new(mockUploader)
	c := newS3Client(api, up, "docs", "signed")
	ctx := context.Background()

	up.On("Upload", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "docs" &&
			aws.ToString(in.Key) == "signed/1-a.pdf" &&
			aws.ToString(in.ContentType) == "application/pdf"
	})).Return(nil)

	require.NoError(t, c.Put(ctx, "1-a.pdf", []byte("pdf"), "application/pdf"))
	up.AssertExpectations(t)
}

func TestS3GetNotFound(t *testing.T) {
	api := new(mockS3API)
	c := newS3Client(api, new(mockUploader), "docs", "")
	ctx := context.Background()

	api.On("GetObject", ctx, mock.Anything).Return(nil, &types.NoSuchKey{})

	_, err := c.Get(ctx, "missing.pdf")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestS3GetReadsBody(t *testing.T) {
	api := new(mockS3API)
	c := newS3Client(api, new(mockUploader), "docs", "")
	ctx := context.Background()

	api.On("GetObject", ctx, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "1-a.pdf"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("pdf")))}, nil)

	data, err := c.Get(ctx, "1-a.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf"), data)
}

func TestS3Exists(t *testing.T) {
	api := new(mockS3API)
	c := newS3Client(api, new(mockUploader), "docs", "")
	ctx := context.Background()

	api.On("HeadObject", ctx, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "present.pdf"
	})).Return(&s3.HeadObjectOutput{}, nil)
	api.On("HeadObject", ctx, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "absent.pdf"
	})).Return(nil, &types.NotFound{})
	api.On("HeadObject", ctx, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == "broken.pdf"
	})).Return(nil, errors.New("timeout"))

	ok, err := c.Exists(ctx, "present.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Exists(ctx, "absent.pdf")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.Exists(ctx, "broken.pdf")
	assert.Error(t, err)
}

func TestNewS3ClientRequiresBucket(t *testing.T) {
	_, err := NewS3Client(context.Background(), S3Options{Region: "us-east-1"})
	assert.Error(t, err)
}
