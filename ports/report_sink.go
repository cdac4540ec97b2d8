package ports

import (
	"context"

	"medstat/domain/run"
)

// ReportSink persists the finished run record in some format
type ReportSink interface {
	// FileName is the artifact name the sink writes, relative to the output dir
	FileName() string
	Kind() string

	WriteReport(ctx context.Context, manifest *run.Manifest, path string) error
}
