package storage

import (
	"context"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestS3(t *testing.T) *S3 {
	t.Helper()
	// minio.New only builds the client, it does not dial
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Secure: false,
	})
	require.NoError(t, err)
	return &S3{
		client:     client,
		http:       resty.New(),
		endpoint:   "localhost:9000",
		accessKey:  "access",
		secretKey:  "secret",
		bucket:     "uploads",
		publicBase: "http://localhost:9000/uploads",
	}
}

func TestS3RemoveRejectsForeignReference(t *testing.T) {
	s := newTestS3(t)

	// a ref from another host must never be turned into a delete
	err := s.Remove(context.Background(), "http://evil.example/uploads/key.png")
	assert.ErrorIs(t, err, ErrProviderRejected)

	// the bare base with no key is not a stored object either
	err = s.Remove(context.Background(), "http://localhost:9000/uploads")
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestS3ObjectKeyPrefersUniqueID(t *testing.T) {
	s := newTestS3(t)

	assert.Equal(t, "abc-123.jpg", s.objectKey("cat.jpg", StoreOptions{UniqueID: "abc-123"}))

	s.folder = "pins"
	assert.Equal(t, "pins/abc-123.jpg", s.objectKey("cat.jpg", StoreOptions{UniqueID: "abc-123"}))
}
