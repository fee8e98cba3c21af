package sigv4_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/img_uploader/pkg/sigv4"
)

// The SDK signer is only used here, to check that both implementations
// agree on the same request
func TestSign_MatchesSDKSigner(t *testing.T) {
	creds, err := credentials.NewStaticCredentialsProvider(exampleAccessKeyID, exampleSecretAccessKey, "").
		Retrieve(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name        string
		rawURL      string
		host        string
		uri         string
		contentType string
		payload     []byte
		region      string
		at          time.Time
	}{
		{
			name:        "aws_virtual_hosted",
			rawURL:      "https://examplebucket.s3.us-east-1.amazonaws.com/uploads/photo.png",
			host:        "examplebucket.s3.us-east-1.amazonaws.com",
			uri:         "/uploads/photo.png",
			contentType: "image/png",
			payload:     []byte("png bytes"),
			region:      "us-east-1",
			at:          time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:        "minio_path_style",
			rawURL:      "http://localhost:9000/b/uploads/my%20photo.jpg",
			host:        "localhost:9000",
			uri:         "/b/uploads/my%20photo.jpg",
			contentType: "image/jpeg",
			payload:     []byte{0xff, 0xd8, 0xff, 0xe0},
			region:      "us-east-1",
			at:          time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:        "empty_payload_other_region",
			rawURL:      "https://b.r2.example.com/uploads/empty.bin",
			host:        "b.r2.example.com",
			uri:         "/uploads/empty.bin",
			contentType: "application/octet-stream",
			payload:     nil,
			region:      "auto",
			at:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payloadHash := sigv4.HashHex(tt.payload)

			req, err := http.NewRequest(http.MethodPut, tt.rawURL, nil)
			require.NoError(t, err)
			req.Header.Set("Content-Type", tt.contentType)
			req.Header.Set("X-Amz-Content-Sha256", payloadHash)

			signer := v4.NewSigner()
			err = signer.SignHTTP(context.Background(), creds, req, payloadHash, sigv4.ServiceS3, tt.region, tt.at,
				func(o *v4.SignerOptions) { o.DisableURIPathEscaping = true })
			require.NoError(t, err)

			amzDate, _ := sigv4.FormatAmzDate(tt.at)
			ours := sigv4.Sign(sigv4.Input{
				Method:       http.MethodPut,
				CanonicalURI: tt.uri,
				Headers: []sigv4.Header{
					{Name: "x-amz-date", Value: amzDate},
					{Name: "content-type", Value: tt.contentType},
					{Name: "x-amz-content-sha256", Value: payloadHash},
					{Name: "host", Value: tt.host},
				},
				PayloadHash:     payloadHash,
				AccessKeyID:     exampleAccessKeyID,
				SecretAccessKey: exampleSecretAccessKey,
				Region:          tt.region,
				Time:            tt.at,
			})

			assert.Equal(t, req.Header.Get("X-Amz-Date"), ours.AmzDate)
			assert.Equal(t, req.Header.Get("Authorization"), ours.Authorization)
		})
	}
}
