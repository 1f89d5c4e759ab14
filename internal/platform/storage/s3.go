package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	PathStyle       bool
	AccessKeyID     string
	SecretAccessKey string
	Folder          string
	// HTTPClient overrides the SDK transport. Tests point it at a fake.
	HTTPClient *http.Client
}

type S3 struct {
	client *s3.Client
	bucket string
	folder string
	base   string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})
	return &S3{client: client, bucket: cfg.Bucket, folder: cfg.Folder, base: publicBase(cfg, region)}, nil
}

func publicBase(cfg S3Config, region string) string {
	if cfg.Endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if cfg.PathStyle {
		return endpoint + "/" + cfg.Bucket
	}
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		u.Host = cfg.Bucket + "." + u.Host
		return u.String()
	}
	return endpoint + "/" + cfg.Bucket
}

func (s *S3) Upload(ctx context.Context, file File) (Stored, error) {
	if err := validate(file); err != nil {
		return Stored{}, err
	}
	key := objectKey(s.folder, file.Name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentType:   aws.String(contentType(file.Name)),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		return Stored{}, fmt.Errorf("s3 put %s: %w", key, err)
	}
	return Stored{Name: file.Name, URL: s.base + "/" + key}, nil
}
