// Package storage implements the image object store gateway: it validates
// candidate images, writes them under deterministic collision-resistant
// keys, and removes superseded objects best-effort.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/smirnovds/townsquare/internal/common"
	"github.com/smirnovds/townsquare/internal/logging"
	"github.com/smirnovds/townsquare/internal/model"
	"github.com/smirnovds/townsquare/internal/server/config"
)

// Folder is a fixed logical folder inside the media bucket.
type Folder string

const (
	FolderNews   Folder = "news"
	FolderEvents Folder = "events"
	// FolderProfiles is reserved for identity avatars.
	FolderProfiles Folder = "profiles"
)

// ParseFolder validates a caller-supplied folder name against the fixed set.
// Nothing outside these three names is ever written to the bucket.
func ParseFolder(name string) (Folder, error) {
	switch f := Folder(name); f {
	case FolderNews, FolderEvents, FolderProfiles:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown media folder %q", common.ErrorValidation, name)
	}
}

// Seams for the AWS SDK, replaceable in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}

	nowMillis = func() int64 { return time.Now().UnixMilli() }
)

// Gateway writes and removes image objects in one S3-compatible bucket.
type Gateway struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        logging.Logger
}

func NewGateway(cfg *config.Config, logger logging.Logger) (*Gateway, error) {
	awsCfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config error: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &Gateway{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.S3PublicBaseURL, "/"),
		logger:        logger.With("component", "storage"),
	}, nil
}

// ObjectKey builds {folder}/{actor-or-anonymous}-{millisecondEpoch}.{ext}.
// Distinct actors or distinct millisecond ticks cannot collide; the same
// actor within one tick is accepted as residual risk.
func ObjectKey(folder Folder, actorID string, filename string) string {
	if actorID == "" {
		actorID = "anonymous"
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	return fmt.Sprintf("%s/%s-%d.%s", folder, actorID, nowMillis(), ext)
}

// Upload validates the blob and writes it as a public-read object.
// The returned locator is a durable public URL.
func (g *Gateway) Upload(ctx context.Context, folder Folder, actorID string, blob *model.ImageBlob) (string, error) {
	if err := blob.Validate(); err != nil {
		return "", err
	}

	key := ObjectKey(folder, actorID, blob.Filename)
	g.logger.Debug(ctx, "uploading image", "key", key, "size", blob.Size())

	_, err := putObject(g.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob.Data),
		ContentType: aws.String(blob.ContentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		g.logger.Error(ctx, "image upload failed", "key", key, "error", err)
		return "", fmt.Errorf("%w: upload failed", common.ErrorStorage)
	}

	return fmt.Sprintf("%s/%s/%s", g.publicBaseURL, g.bucket, key), nil
}

// Delete removes the object a locator points at. Failures are logged and
// swallowed: cleanup must never fail the row mutation that triggered it.
func (g *Gateway) Delete(ctx context.Context, locator string) {
	key, err := g.keyFromLocator(locator)
	if err != nil {
		g.logger.Warn(ctx, "cannot parse image locator, skipping delete", "locator", locator, "error", err)
		return
	}

	if _, err := deleteObject(g.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(g.bucket),
		Key:    aws.String(key),
	}); err != nil {
		g.logger.Warn(ctx, "image delete failed", "key", key, "error", err)
	}
}

// keyFromLocator extracts the object key from the locator's path, which has
// the shape /{bucket}/{folder}/{file}.
func (g *Gateway) keyFromLocator(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", err
	}
	p := strings.TrimPrefix(u.Path, "/")
	key, found := strings.CutPrefix(p, g.bucket+"/")
	if !found || key == "" {
		return "", fmt.Errorf("locator path %q does not reference bucket %q", u.Path, g.bucket)
	}
	return key, nil
}
