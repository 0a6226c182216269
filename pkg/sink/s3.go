package sink

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dd0wney/cluso-supplygen/pkg/logging"
	"github.com/dd0wney/cluso-supplygen/pkg/tables"
)

// ObjectPutter is the subset of *s3.Client the uploader needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Settings locates the bucket and, optionally, an S3-compatible
// endpoint and static credentials.
type S3Settings struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// S3Uploader copies run files to s3://bucket/prefix/<run-id>/<file>.
type S3Uploader struct {
	client ObjectPutter
	bucket string
	prefix string
	opts   options
}

// NewS3Uploader builds a client from the default AWS config chain,
// overridden by any region, endpoint or static credentials in s.
func NewS3Uploader(ctx context.Context, s S3Settings, opts ...Option) (*S3Uploader, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.AccessKeyID, s.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3UploaderWithClient(client, s.Bucket, s.Prefix, opts...), nil
}

// NewS3UploaderWithClient wraps an existing client.
func NewS3UploaderWithClient(client ObjectPutter, bucket, prefix string, opts ...Option) *S3Uploader {
	return &S3Uploader{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		opts:   applyOptions(opts),
	}
}

// Key returns the object key for a local file of run runID.
func (u *S3Uploader) Key(runID, file string) string {
	return path.Join(u.prefix, runID, filepath.Base(file))
}

// Upload puts every file under the run's key prefix and returns the
// keys written. It stops at the first failure.
func (u *S3Uploader) Upload(ctx context.Context, runID string, files []string) ([]string, error) {
	start := time.Now()
	keys := make([]string, 0, len(files))

	var err error
	for _, f := range files {
		key := u.Key(runID, f)
		if err = u.put(ctx, key, f); err != nil {
			err = fmt.Errorf("upload %s to s3://%s/%s: %w", f, u.bucket, key, err)
			break
		}
		keys = append(keys, key)
	}

	elapsed := time.Since(start)
	u.opts.rec.RecordSinkUpload(NameS3, err, elapsed)
	if err != nil {
		u.opts.log.Error("s3 upload failed", logging.Error(err), logging.Count(len(keys)))
		return keys, err
	}
	u.opts.log.Info("s3 upload complete",
		logging.String("bucket", u.bucket),
		logging.String("prefix", u.Key(runID, "")),
		logging.Count(len(keys)),
		logging.Latency(elapsed),
	)
	return keys, nil
}

func (u *S3Uploader) put(ctx context.Context, key, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return err
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(st.Size()),
		ContentType:   aws.String(contentType(file)),
	})
	return err
}

func contentType(file string) string {
	switch {
	case strings.HasSuffix(file, tables.SnappySuffix):
		return "application/x-snappy-framed"
	case strings.HasSuffix(file, ".json"):
		return "application/json"
	default:
		return "text/csv"
	}
}
