// Package s3 ships run artifacts to S3-compatible object storage.
//
// After a run, the installation log and a redacted summary are uploaded
// under <prefix>/<host>/<run id>/ so a fleet of servers can be audited
// from one bucket.
package s3
