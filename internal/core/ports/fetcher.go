package ports

import "context"

// SourceFetcher materializes project sources into a local directory.
//
//go:generate mockgen -source=fetcher.go -destination=mocks/mock_fetcher.go -package=mocks
type SourceFetcher interface {
	// Fetch places the source identified by uri under dest. A uri fragment
	// ("...#ref") selects a branch, tag, or commit; local paths are copied
	// as-is. dest exists and is exclusively usable by the caller.
	Fetch(ctx context.Context, uri, dest string, log Logger) error
}
