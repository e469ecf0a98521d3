package storage

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore() *S3Store {
	return NewS3Store(Config{
		AccessKey:    "admin",
		SecretKey:    "secret",
		Bucket:       "videos",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
}

func TestRandomVideoKey(t *testing.T) {
	key := RandomVideoKey("mp4")

	assert.Regexp(t, regexp.MustCompile(`^swings/\d{4}/\d{2}/\d{2}/[0-9a-f-]{36}\.mp4$`), key)
	assert.NotEqual(t, key, RandomVideoKey("mp4"))
}

func TestUpload_PutObjectCalled(t *testing.T) {
	origPut := putObject
	defer func() { putObject = origPut }()

	var gotKey, gotBucket string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		gotKey = aws.ToString(in.Key)
		gotBucket = aws.ToString(in.Bucket)
		return &s3.PutObjectOutput{}, nil
	}

	err := testStore().Upload(context.Background(), "swings/k", strings.NewReader("data"), 4, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "swings/k", gotKey)
	assert.Equal(t, "videos", gotBucket)
}

func TestUpload_PutObjectError(t *testing.T) {
	origPut := putObject
	defer func() { putObject = origPut }()

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return nil, errors.New("denied")
	}

	err := testStore().Upload(context.Background(), "k", strings.NewReader(""), 0, "video/mp4")
	assert.Error(t, err)
}

func TestPresignedGetURL(t *testing.T) {
	origPresign := presignGetObject
	defer func() { presignGetObject = origPresign }()

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + aws.ToString(in.Key)}, nil
	}

	url, err := testStore().PresignedGetURL(context.Background(), "swings/k")
	require.NoError(t, err)
	assert.Equal(t, "http://signed/swings/k", url)
}

func TestPresignedGetURL_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	defer func() { loadDefaultAWSConfig = origLoad }()

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("bad creds")
	}

	_, err := testStore().PresignedGetURL(context.Background(), "k")
	assert.Error(t, err)
}
