package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/imamik/wpstack/internal/config"
	"github.com/imamik/wpstack/internal/metrics"
	"github.com/imamik/wpstack/internal/platform/s3"
	"github.com/imamik/wpstack/internal/platform/shell"
	"github.com/imamik/wpstack/internal/provisioning"
	"github.com/imamik/wpstack/internal/util/retry"
)

var (
	// newUploader creates the S3 client for report uploads.
	newUploader = func(ctx context.Context, cfg config.S3Config) (s3.Uploader, error) {
		return s3.NewClient(ctx, cfg.Endpoint, cfg.Region, cfg.AccessKey, cfg.SecretKey)
	}

	// readLog reads the run log for upload.
	readLog = os.ReadFile
)

// exportMetrics writes the prometheus textfile when configured. Failures
// are logged; they never change the outcome of the run.
func exportMetrics(ctx context.Context, runner shell.Runner, cfg *config.Config, summary *provisioning.Summary, runErr error, logger *slog.Logger) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	exp := metrics.NewExporter()
	exp.Observe(summary, runErr)
	if err := exp.WriteTextfile(ctx, runner, cfg.Metrics.Textfile); err != nil {
		logger.Warn("metrics export failed", "path", cfg.Metrics.Textfile, "err", err)
		return
	}
	logger.Info("metrics written", "path", cfg.Metrics.Textfile)
}

// uploadReport stores this run's part of the log, starting at logOffset,
// and the redacted summary in S3 when configured. Failures are logged; they
// never change the outcome of the run.
func uploadReport(ctx context.Context, cfg *config.Config, summary *provisioning.Summary, logOffset int64, timeouts *config.Timeouts, logger *slog.Logger) {
	s3cfg := cfg.Report.S3
	if !s3cfg.Enabled() {
		return
	}
	if err := doUpload(ctx, s3cfg, summary, logOffset, timeouts, logger); err != nil {
		logger.Warn("report upload failed", "bucket", s3cfg.Bucket, "err", err)
	}
}

func doUpload(ctx context.Context, s3cfg config.S3Config, summary *provisioning.Summary, logOffset int64, timeouts *config.Timeouts, logger *slog.Logger) error {
	uploader, err := newUploader(ctx, s3cfg)
	if err != nil {
		return err
	}

	summaryYAML, err := yaml.Marshal(summary.Redacted())
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	var logData []byte
	if summary.LogPath != "" {
		if logData, err = readLog(summary.LogPath); err != nil {
			return fmt.Errorf("failed to read run log: %w", err)
		}
		// Earlier runs share the file.
		if logOffset > 0 && logOffset <= int64(len(logData)) {
			logData = logData[logOffset:]
		}
	}

	host := summary.ServerIP
	if host == "" {
		host = summary.Target
	}
	reporter := s3.NewReporter(uploader, s3cfg.Bucket, s3cfg.Prefix, logger,
		retry.WithAttempts(timeouts.RetryAttempts),
		retry.WithInitialDelay(timeouts.RetryDelay),
	)
	keys, err := reporter.Upload(ctx, s3.Artifacts{
		Host:    host,
		RunID:   summary.RunID,
		Log:     logData,
		Summary: summaryYAML,
	})
	if err != nil {
		return err
	}
	logger.Info("report uploaded", "bucket", s3cfg.Bucket, "objects", len(keys))
	return nil
}
