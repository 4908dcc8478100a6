package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/indieinfra/imageupload/config"
	"github.com/indieinfra/imageupload/storage/disk"
)

// s3Client is the subset of the minio client used by Disk.
type s3Client interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// minioClient adapts *minio.Client so GetObject can be stubbed in tests.
type minioClient struct {
	*minio.Client
}

func (c minioClient) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	obj, err := c.Client.GetObject(ctx, bucketName, objectName, opts)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

var newMinioClient = func(endpoint string, opts *minio.Options) (s3Client, error) {
	c, err := minio.New(endpoint, opts)
	if err != nil {
		return nil, err
	}
	return minioClient{c}, nil
}

// Disk stores objects in S3 or any compatible service (R2, Backblaze, MinIO).
// Directories are key prefixes and exist only while they hold objects.
type Disk struct {
	client         s3Client
	bucket         string
	prefix         string
	publicBase     string
	forcePathStyle bool
	endpointHost   string
	secure         bool
	region         string
}

func NewS3Disk(cfg *config.S3Disk) (*Disk, error) {
	if cfg == nil {
		return nil, fmt.Errorf("s3 disk config is nil")
	}

	region := strings.TrimSpace(cfg.Region)
	if strings.EqualFold(region, "auto") {
		region = ""
	}

	secure := !cfg.DisableSSL
	endpointHost := strings.TrimSpace(cfg.Endpoint)
	if endpointHost == "" {
		if region == "" {
			endpointHost = "s3.amazonaws.com"
		} else {
			endpointHost = fmt.Sprintf("s3.%s.amazonaws.com", region)
		}
	} else if parsed, err := url.Parse(endpointHost); err == nil && parsed.Host != "" {
		endpointHost = parsed.Host
		if parsed.Scheme == "http" {
			secure = false
		}
	}

	lookup := minio.BucketLookupAuto
	if cfg.ForcePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := newMinioClient(endpointHost, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyId, cfg.SecretKeyId, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to verify s3 bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		return nil, fmt.Errorf("s3 bucket %q does not exist or is not accessible", cfg.Bucket)
	}

	return &Disk{
		client:         client,
		bucket:         cfg.Bucket,
		prefix:         strings.Trim(cfg.Prefix, "/"),
		publicBase:     strings.TrimSuffix(cfg.PublicUrl, "/"),
		forcePathStyle: cfg.ForcePathStyle,
		endpointHost:   endpointHost,
		secure:         secure,
		region:         cfg.Region,
	}, nil
}

func (s *Disk) objectKey(p string) string {
	key := disk.Key(p)
	if s.prefix == "" {
		return key
	}
	if key == "" {
		return s.prefix
	}
	return s.prefix + "/" + key
}

func (s *Disk) dirPrefix(p string) string {
	key := s.objectKey(p)
	if key == "" {
		return ""
	}
	return key + "/"
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

func (s *Disk) Exists(ctx context.Context, p string) (bool, error) {
	key := s.objectKey(p)
	if key != "" {
		_, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
		if err == nil {
			return true, nil
		}
		if !isNotFound(err) {
			return false, fmt.Errorf("stat s3 object failed: %w", err)
		}
	}

	// Fall back to treating the path as a directory prefix.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.dirPrefix(p), MaxKeys: 1}) {
		if obj.Err != nil {
			return false, fmt.Errorf("list s3 objects failed: %w", obj.Err)
		}
		return true, nil
	}

	return false, nil
}

// MakeDirectory is a no-op: object stores have no directories.
func (s *Disk) MakeDirectory(ctx context.Context, p string) error {
	return nil
}

func (s *Disk) Put(ctx context.Context, p string, data []byte) error {
	return s.put(ctx, s.objectKey(p), bytes.NewReader(data), int64(len(data)))
}

func (s *Disk) PutFileAs(ctx context.Context, dir string, r io.Reader, name string) error {
	if r == nil {
		return fmt.Errorf("file reader is required")
	}
	return s.put(ctx, s.objectKey(path.Join(dir, name)), r, -1)
}

func (s *Disk) put(ctx context.Context, key string, r io.Reader, size int64) error {
	if key == "" {
		return fmt.Errorf("object key is required")
	}

	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(path.Ext(key))}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, opts); err != nil {
		return fmt.Errorf("upload to s3 failed: %w", err)
	}

	return nil
}

func (s *Disk) Get(ctx context.Context, p string) ([]byte, error) {
	key := s.objectKey(p)
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", disk.ErrNotFound, key)
		}
		return nil, fmt.Errorf("download from s3 failed: %w", err)
	}
	defer obj.Close()

	// minio reports missing objects lazily on the first read
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", disk.ErrNotFound, key)
		}
		return nil, fmt.Errorf("download from s3 failed: %w", err)
	}

	return data, nil
}

func (s *Disk) Delete(ctx context.Context, p string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, s.objectKey(p), minio.RemoveObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete from s3 failed: %w", err)
	}

	return nil
}

func (s *Disk) DeleteDirectory(ctx context.Context, p string) error {
	prefix := s.dirPrefix(p)
	if prefix == "" {
		return fmt.Errorf("refusing to delete disk root")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var errs []error
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list s3 objects failed: %w", obj.Err)
		}
		if err := s.client.RemoveObject(ctx, s.bucket, obj.Key, minio.RemoveObjectOptions{}); err != nil {
			errs = append(errs, fmt.Errorf("delete %q from s3 failed: %w", obj.Key, err))
		}
	}

	return errors.Join(errs...)
}

func (s *Disk) URL(p string) string {
	return s.objectURL(s.objectKey(p))
}

func (s *Disk) objectURL(key string) string {
	if s.publicBase != "" {
		return fmt.Sprintf("%s/%s", s.publicBase, key)
	}

	scheme := "https"
	if !s.secure {
		scheme = "http"
	}

	if s.forcePathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpointHost, s.bucket, key)
	}

	return fmt.Sprintf("%s://%s.%s/%s", scheme, s.bucket, s.endpointHost, key)
}
