package s3

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/storage/object"
	"github.com/sudhanshuwaa2810-lang/healthease-prototype1/internal/shared/util"
)

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store implements ObjectStore using Amazon S3.
type Store struct {
	api      s3API
	bucket   string
	prefix   string
	kmsKeyID string
}

// New creates a new S3-backed object store.
func New(ctx context.Context, region, bucket, prefix, kmsKeyID string) (object.ObjectStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Store{
		api:      s3.NewFromConfig(cfg),
		bucket:   bucket,
		prefix:   strings.Trim(strings.TrimSpace(prefix), "/"),
		kmsKeyID: strings.TrimSpace(kmsKeyID),
	}, nil
}

// Save validates the upload and writes it under the owner's key prefix
// with a generated name. Validation failures happen before any object
// is put.
func (s *Store) Save(ctx context.Context, ownerID string, fileName string, r io.Reader) (object.StoredFile, error) {
	kind, ext, err := object.ValidateUpload(fileName)
	if err != nil {
		return object.StoredFile{}, err
	}
	if err := ctx.Err(); err != nil {
		return object.StoredFile{}, err
	}

	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return object.StoredFile{}, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return object.StoredFile{}, object.ErrEmptyUpload
	}

	storedName := newStoredName(ext)
	body := io.MultiReader(bytes.NewReader(head[:n]), r)
	size, err := s.put(ctx, s.key(ownerID, storedName), contentTypes[ext], body)
	if err != nil {
		return object.StoredFile{}, err
	}
	return object.StoredFile{Name: storedName, Size: size, Kind: kind}, nil
}

// Open downloads a stored object under the owner's key prefix for reading.
func (s *Store) Open(ctx context.Context, ownerID string, storedName string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.ContainsAny(storedName, `/\`) || strings.Contains(storedName, "..") {
		return nil, fmt.Errorf("invalid stored name")
	}

	key := s.key(ownerID, storedName)
	out, err := s.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}

// put streams body to key and returns the number of bytes written.
// Objects are always encrypted at rest: with the configured KMS key
// when one is set, with SSE-S3 otherwise.
func (s *Store) put(ctx context.Context, key, contentType string, body io.Reader) (int64, error) {
	counted := &sizeReader{Reader: body}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        counted,
		ContentType: aws.String(contentType),
	}
	if s.kmsKeyID != "" {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAwsKms
		input.SSEKMSKeyId = aws.String(s.kmsKeyID)
	} else {
		input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
	}

	if _, err := s.api.PutObject(ctx, input); err != nil {
		return 0, fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return counted.size, nil
}

func (s *Store) key(ownerID, storedName string) string {
	return applyPrefix(s.prefix, path.Join(util.OwnerNamespace(ownerID), storedName))
}

type sizeReader struct {
	io.Reader
	size int64
}

func (sr *sizeReader) Read(p []byte) (int, error) {
	n, err := sr.Reader.Read(p)
	sr.size += int64(n)
	return n, err
}

func applyPrefix(prefix, key string) string {
	parts := make([]string, 0, 2)
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	if k := strings.TrimLeft(key, "/"); k != "" {
		parts = append(parts, k)
	}
	return strings.Join(parts, "/")
}

func newStoredName(ext string) string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d.%s", time.Now().UnixNano(), ext)
	}
	return hex.EncodeToString(b[:]) + "." + ext
}

var _ object.ObjectStore = (*Store)(nil)
