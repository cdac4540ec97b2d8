package ports

import (
	"context"

	"medstat/domain/dataset"
)

// DatasetSource materializes the analysis table. Implementations own any
// connection they open and release it before Load returns.
type DatasetSource interface {
	Load(ctx context.Context) (*dataset.Dataset, error)

	// Describe names the source for logs and the run manifest, without credentials
	Describe() string
}
