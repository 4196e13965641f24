package domain

import "context"

// PageFetcher returns the raw HTML of every results page, in fetch order.
type PageFetcher interface {
	FetchPages(ctx context.Context, q SearchQuery) ([]string, error)
}

type TableExtractor interface {
	ExtractRows(html string) ([]Row, error)
}

type AwardSearcher interface {
	Search(ctx context.Context, q SearchQuery) ([]Record, error)
}
