package s3

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/imamik/wpstack/internal/util/retry"
)

// Uploader is the subset of Client the Reporter uses.
type Uploader interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	PutObject(ctx context.Context, bucket, key, contentType string, data []byte) error
}

// Artifacts are the files uploaded after a run.
type Artifacts struct {
	Host    string
	RunID   string
	Log     []byte
	Summary []byte
}

// Reporter uploads run artifacts to a bucket.
type Reporter struct {
	uploader Uploader
	bucket   string
	prefix   string
	logger   *slog.Logger
	opts     []retry.Option
}

// NewReporter returns a Reporter writing below prefix in bucket.
func NewReporter(uploader Uploader, bucket, prefix string, logger *slog.Logger, opts ...retry.Option) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		logger:   logger,
		opts:     opts,
	}
}

// KeyFor returns the object key for an artifact file name.
func (r *Reporter) KeyFor(host, runID, name string) string {
	return path.Join(r.prefix, host, runID, name)
}

// Upload writes the log and the summary. The bucket is checked once up
// front. Transient failures are retried; 4xx responses are not.
func (r *Reporter) Upload(ctx context.Context, a Artifacts) ([]string, error) {
	exists, err := r.uploader.BucketExists(ctx, r.bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist or is not accessible", r.bucket)
	}

	objects := []struct {
		name        string
		contentType string
		data        []byte
	}{
		{"install.log", "text/plain; charset=utf-8", a.Log},
		{"summary.yaml", "application/yaml", a.Summary},
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		if obj.data == nil {
			continue
		}
		key := r.KeyFor(a.Host, a.RunID, obj.name)
		opts := append([]retry.Option{
			retry.WithNotify(func(attempt int, err error, next time.Duration) {
				r.logger.Warn("report upload failed, retrying", "key", key, "attempt", attempt, "retry_in", next, "error", err)
			}),
		}, r.opts...)

		err := retry.Do(ctx, func(ctx context.Context) error {
			err := r.uploader.PutObject(ctx, r.bucket, key, obj.contentType, obj.data)
			if err != nil && isPermanent(err) {
				return retry.Fatal(err)
			}
			return err
		}, opts...)
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", obj.name, err)
		}
		r.logger.Info("uploaded run artifact", "bucket", r.bucket, "key", key, "bytes", len(obj.data))
		keys = append(keys, key)
	}
	return keys, nil
}
