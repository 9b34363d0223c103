package output

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// DefaultUploadTimeout bounds a single render upload
const DefaultUploadTimeout = 30 * time.Second

// S3Config holds the bucket and credentials for publishing renders.
// Empty keys fall back to the SDK's default credential chain; an empty
// endpoint uses AWS itself rather than an S3-compatible store.
type S3Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string // Key prefix, e.g. "renders/"
	ACL       string // Canned ACL, e.g. "public-read"; empty leaves the bucket default
}

// S3Publisher uploads encoded renders to an S3 bucket
type S3Publisher struct {
	client  s3iface.S3API
	config  S3Config
	timeout time.Duration
}

// NewS3Publisher creates a publisher with its own S3 session
func NewS3Publisher(config S3Config) (*S3Publisher, error) {
	if config.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}

	awsConfig := &aws.Config{
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(config.Endpoint != ""),
	}
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
	}
	if config.AccessKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(config.AccessKey, config.SecretKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3PublisherWithClient(s3.New(sess), config), nil
}

// NewS3PublisherWithClient creates a publisher around an existing client
func NewS3PublisherWithClient(client s3iface.S3API, config S3Config) *S3Publisher {
	return &S3Publisher{
		client:  client,
		config:  config,
		timeout: DefaultUploadTimeout,
	}
}

// Publish encodes img in the given format and uploads it under prefix/name.
// It returns the object key.
func (p *S3Publisher) Publish(ctx context.Context, name string, img image.Image, format Format) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return "", err
	}

	key := path.Join(p.config.Prefix, name)
	if path.Ext(key) == "" {
		key += format.Extension()
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.config.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String(format.ContentType()),
	}
	if p.config.ACL != "" {
		input.ACL = aws.String(p.config.ACL)
	}

	if _, err := p.client.PutObjectWithContext(ctx, input); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
