//go:build integration
// +build integration

package s3_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/localstack"

	"github.com/williamokano/img_uploader/pkg/storage"
	"github.com/williamokano/img_uploader/pkg/storage/s3"
)

const (
	localstackAccessKey = "test"
	localstackSecretKey = "test"
	integrationBucket   = "test-images"
)

func TestUploadToLocalStack(t *testing.T) {
	// Skip in short mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Setup LocalStack (S3) container
	container, endpoint, err := setupLocalStackContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start LocalStack: %v", err)
	}
	defer container.Terminate(ctx)

	client, err := newSDKClient(ctx, endpoint)
	require.NoError(t, err)

	_, err = client.CreateBucket(ctx, &awss3.CreateBucketInput{Bucket: aws.String(integrationBucket)})
	require.NoError(t, err)

	cfg := s3.Config{
		Bucket:                integrationBucket,
		Region:                "us-east-1",
		AccessKeyID:           localstackAccessKey,
		SecretAccessKey:       localstackSecretKey,
		Endpoint:              endpoint,
		PathStyle:             true,
		PublicURLFromEndpoint: true,
	}

	t.Run("upload_and_download", func(t *testing.T) {
		payload := []byte("\x89PNG\r\n\x1a\n integration payload")

		url, err := s3.UploadObject(ctx, cfg, payload, "hello world.png", "image/png", s3.WithLogger(zerolog.Nop()))
		require.NoError(t, err)

		prefix := endpoint + "/" + integrationBucket + "/uploads/"
		require.True(t, strings.HasPrefix(url, prefix), url)
		key := strings.TrimPrefix(url, endpoint+"/"+integrationBucket+"/")

		// Read the object back through the SDK
		buf := manager.NewWriteAtBuffer(nil)
		n, err := manager.NewDownloader(client).Download(ctx, buf, &awss3.GetObjectInput{
			Bucket: aws.String(integrationBucket),
			Key:    aws.String(key),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), n)
		assert.Equal(t, payload, buf.Bytes())

		head, err := client.HeadObject(ctx, &awss3.HeadObjectInput{
			Bucket: aws.String(integrationBucket),
			Key:    aws.String(key),
		})
		require.NoError(t, err)
		assert.Equal(t, "image/png", aws.ToString(head.ContentType))
	})

	t.Run("wrong_secret_is_rejected", func(t *testing.T) {
		bad := cfg
		bad.SecretAccessKey = "not-the-secret"
		bad.Bucket = "missing-bucket"

		_, err := s3.UploadObject(ctx, bad, []byte("x"), "a.png", "image/png", s3.WithLogger(zerolog.Nop()))
		require.Error(t, err)
		assert.ErrorIs(t, err, storage.ErrUploadRejected)
	})
}

func setupLocalStackContainer(ctx context.Context) (*localstack.LocalStackContainer, string, error) {
	lsContainer, err := localstack.RunContainer(ctx,
		testcontainers.WithImage("localstack/localstack:3.0"),
		testcontainers.WithEnv(map[string]string{
			"SERVICES": "s3",
		}),
	)
	if err != nil {
		return nil, "", err
	}

	// Get S3 endpoint from container
	mappedPort, err := lsContainer.MappedPort(ctx, "4566/tcp")
	if err != nil {
		lsContainer.Terminate(ctx)
		return nil, "", err
	}

	host, err := lsContainer.Host(ctx)
	if err != nil {
		lsContainer.Terminate(ctx)
		return nil, "", err
	}

	return lsContainer, fmt.Sprintf("http://%s:%s", host, mappedPort.Port()), nil
}

func newSDKClient(ctx context.Context, endpoint string) (*awss3.Client, error) {
	cfg, err := awsConfig.LoadDefaultConfig(ctx,
		awsConfig.WithRegion("us-east-1"),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(localstackAccessKey, localstackSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	}), nil
}
