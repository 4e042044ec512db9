package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pinspire/backend/internal/logger"
)

// S3 stores uploads in any S3-compatible object store (MinIO locally,
// Supabase Storage or AWS S3 in production). The SDK is tried first; on
// failure a single raw REST call with the same credentials is attempted
// before giving up.
type S3 struct {
	client     *minio.Client
	http       *resty.Client
	endpoint   string
	accessKey  string
	secretKey  string
	bucket     string
	folder     string
	useSSL     bool
	publicBase string
}

// S3Options configures the S3 backend.
type S3Options struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	Folder     string
	UseSSL     bool
	PublicBase string
}

// NewS3 creates the client and ensures the bucket exists. Returns an
// error when the credentials are incomplete; callers degrade to the
// Unconfigured backend in that case.
func NewS3(ctx context.Context, opts S3Options) (*S3, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, ErrUnconfigured
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", opts.Bucket, err)
		}
		logger.Log.Infof("storage: created bucket %q", opts.Bucket)
	}

	publicBase := strings.TrimRight(opts.PublicBase, "/")
	if publicBase == "" {
		scheme := "http"
		if opts.UseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s/%s", scheme, opts.Endpoint, opts.Bucket)
	}

	return &S3{
		client:     client,
		http:       resty.New(),
		endpoint:   opts.Endpoint,
		accessKey:  opts.AccessKey,
		secretKey:  opts.SecretKey,
		bucket:     opts.Bucket,
		folder:     strings.Trim(opts.Folder, "/"),
		useSSL:     opts.UseSSL,
		publicBase: publicBase,
	}, nil
}

func (s *S3) Configured() bool { return s.client != nil }

// objectKey derives an opaque key for an upload, preferring the caller's
// unique id over the original filename.
func (s *S3) objectKey(filename string, opts StoreOptions) string {
	id := opts.UniqueID
	if id == "" {
		id = uuid.NewString()
	}
	key := id + "." + extension(filename)
	if s.folder != "" {
		key = s.folder + "/" + key
	}
	return key
}

func (s *S3) restURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/storage/v1/object/%s/%s", scheme, s.endpoint, s.bucket, key)
}

// Store uploads data under an opaque key and returns the public URL.
func (s *S3) Store(ctx context.Context, data []byte, filename string, opts StoreOptions) (string, FileKind, error) {
	if !s.Configured() {
		return "", KindNone, ErrUnconfigured
	}

	kind := Classify(filename)
	if kind == KindNone {
		return "", KindNone, fmt.Errorf("%w: file type not allowed: %q", ErrProviderRejected, filename)
	}

	key := s.objectKey(filename, opts)
	contentType := mime.TypeByExtension("." + extension(filename))

	err := withFallback("upload "+key,
		func() error {
			_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
				minio.PutObjectOptions{ContentType: contentType})
			return err
		},
		func() error {
			resp, err := s.http.R().
				SetContext(ctx).
				SetHeader("Authorization", "Bearer "+s.secretKey).
				SetHeader("Content-Type", contentType).
				SetBody(data).
				Post(s.restURL(key))
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("%w: status %d: %s", ErrProviderRejected, resp.StatusCode(), resp.String())
			}
			return nil
		},
	)
	if err != nil {
		return "", KindNone, err
	}

	logger.Log.Infow("file uploaded", "key", key)
	return s.publicBase + "/" + key, kind, nil
}

// Remove deletes the object behind a reference returned by Store.
func (s *S3) Remove(ctx context.Context, ref string) error {
	if !s.Configured() {
		return ErrUnconfigured
	}

	if !strings.HasPrefix(ref, s.publicBase+"/") {
		return fmt.Errorf("%w: reference %q does not belong to this backend", ErrProviderRejected, ref)
	}
	key := strings.TrimPrefix(ref, s.publicBase+"/")
	if key == "" {
		return fmt.Errorf("%w: reference %q does not belong to this backend", ErrProviderRejected, ref)
	}

	return withFallback("delete "+key,
		func() error {
			return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
		},
		func() error {
			resp, err := s.http.R().
				SetContext(ctx).
				SetHeader("Authorization", "Bearer "+s.secretKey).
				Delete(s.restURL(key))
			if err != nil {
				return err
			}
			if resp.IsError() {
				return fmt.Errorf("%w: status %d: %s", ErrProviderRejected, resp.StatusCode(), resp.String())
			}
			return nil
		},
	)
}
