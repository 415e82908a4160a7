package images

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/agentchat/internal/common"
)

// PresignExpiry bounds the lifetime of image URLs handed to clients.
const PresignExpiry = 15 * time.Minute

var loadDefaultAWSConfig = config.LoadDefaultConfig

// S3Config selects the bucket and credentials for S3Catalog. Empty keys
// fall back to the default AWS credential chain.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
}

// S3Catalog lists images stored under a bucket prefix and hands out
// presigned GET URLs for them.
type S3Catalog struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	prefix  string
}

func NewS3Catalog(ctx context.Context, cfg S3Config) (*S3Catalog, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket: %w", common.ErrorValidation)
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Catalog{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		prefix:  cfg.Prefix,
	}, nil
}

// List returns the image names below the prefix (prefix stripped, nested
// keys skipped), sorted. An empty listing yields the default image name.
func (c *S3Catalog) List(ctx context.Context) ([]string, error) {
	p := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(c.prefix),
	})

	var names []string
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3 list: %w", err)
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), c.prefix)
			if name == "" || strings.Contains(name, "/") || !IsImageName(name) {
				continue
			}
			names = append(names, name)
		}
	}
	return withDefault(names), nil
}

func (c *S3Catalog) URL(ctx context.Context, name string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("image %q: %w", name, common.ErrorValidation)
	}

	req, err := c.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.prefix + name),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", fmt.Errorf("s3 presign: %w", err)
	}
	return req.URL, nil
}
