package s3

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	customErrors "github.com/Miraines/MoonyAndStarry/shop-service/internal/domain/auth/errors"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// API is the subset of the S3 client the storage needs.
type API interface {
	PutObject(ctx context.Context, in *awss3.PutObjectInput, optFns ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *awss3.DeleteObjectInput, optFns ...func(*awss3.Options)) (*awss3.DeleteObjectOutput, error)
}

type Options struct {
	Bucket        string
	Region        string
	BaseEndpoint  string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	UsePathStyle  bool
}

type Storage struct {
	api     API
	bucket  string
	baseURL string
}

// NewClient builds an S3 client for AWS or any S3-compatible endpoint (MinIO).
func NewClient(ctx context.Context, o Options) (*awss3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(o.Region)}
	if o.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return awss3.NewFromConfig(cfg, func(so *awss3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
		}
		so.UsePathStyle = o.UsePathStyle
	}), nil
}

func NewStorage(api API, bucket, publicBaseURL string) *Storage {
	return &Storage{
		api:     api,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *Storage) Upload(ctx context.Context, localPath string) (string, error) {
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return "", customErrors.WrapInternal(err, "open upload")
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(localPath))
	key := uuid.NewString() + ext

	in := &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		in.ContentType = aws.String(ct)
	}

	if _, err := s.api.PutObject(ctx, in); err != nil {
		return "", customErrors.WrapInternal(err, "upload image")
	}

	return s.baseURL + "/" + key, nil
}

func (s *Storage) Delete(ctx context.Context, url string) error {
	key := path.Base(strings.TrimRight(url, "/"))
	if key == "" || key == "." || key == "/" {
		return customErrors.NewInvalidArgument("image url has no key")
	}

	_, err := s.api.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return customErrors.WrapInternal(err, "delete image")
	}
	return nil
}
