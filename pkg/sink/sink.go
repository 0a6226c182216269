// Package sink publishes a generated run outside the output directory:
// files to S3-compatible object storage and tables to PostgreSQL.
package sink

import (
	"time"

	"github.com/dd0wney/cluso-supplygen/pkg/logging"
)

// Sink names used in logs and metrics.
const (
	NameS3       = "s3"
	NamePostgres = "postgres"
)

// Recorder observes sink operations. *metrics.Registry satisfies it.
type Recorder interface {
	RecordSinkUpload(sink string, err error, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordSinkUpload(string, error, time.Duration) {}

type options struct {
	log logging.Logger
	rec Recorder
}

func defaultOptions() options {
	return options{log: logging.NewNopLogger(), rec: nopRecorder{}}
}

// Option configures a sink.
type Option func(*options)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRecorder sets the metrics hook.
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		if r != nil {
			o.rec = r
		}
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
