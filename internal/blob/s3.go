package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds construction parameters of the s3 driver.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; enables a custom endpoint such as MinIO
	PathStyle       bool
	Prefix          string // optional key prefix
	AccessKeyID     string // optional; falls back to the default credentials chain
	SecretAccessKey string
}

// S3 stores documents in a single bucket.
type S3 struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL *url.URL
}

// NewS3 creates an S3 store.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3WithClient(client, cfg), nil
}

func newS3WithClient(client *s3.Client, cfg S3Config) *S3 {
	st := &S3{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}
	if cfg.Endpoint != "" {
		if u, err := url.Parse(cfg.Endpoint); err == nil {
			st.baseURL = u
		}
	}
	return st
}

func (s *S3) Driver() Driver { return DriverS3 }

func (s *S3) objectKey(key string) (string, error) {
	k, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	if s.prefix != "" {
		k = s.prefix + "/" + k
	}
	return k, nil
}

// Put uploads data and returns the object URL: endpoint/bucket/key for custom
// endpoints, s3://bucket/key otherwise.
func (s *S3) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return "", err
	}
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &k, Body: bytes.NewReader(data)}
	if contentType != "" {
		input.ContentType = &contentType
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, k, err)
	}
	return s.url(k), nil
}

// Get downloads the object stored under key.
func (s *S3) Get(ctx context.Context, key string) ([]byte, error) {
	k, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &k})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, k, err)
	}
	defer func() { _ = out.Body.Close() }()
	return io.ReadAll(out.Body)
}

func (s *S3) url(key string) string {
	if s.baseURL == nil {
		return "s3://" + s.bucket + "/" + key
	}
	u := *s.baseURL
	u.Path = path.Join("/", u.Path, s.bucket, key)
	return u.String()
}
