package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"milheiro/internal/adapters/observability"
	"milheiro/internal/domain"
)

// SearchService runs fetch -> extract -> normalize for one query.
// Any failing page fails the whole search; there are no partial results.
type SearchService struct {
	fetcher   domain.PageFetcher
	extractor domain.TableExtractor
}

func NewSearchService(f domain.PageFetcher, e domain.TableExtractor) *SearchService {
	return &SearchService{fetcher: f, extractor: e}
}

func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Record, error) {
	pages, err := s.fetcher.FetchPages(ctx, q)
	if err != nil {
		return nil, err
	}

	var rows []domain.Row
	for i, page := range pages {
		rs, err := s.extractor.ExtractRows(page)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		rows = append(rows, rs...)
	}

	records := NormalizeRows(rows)
	observability.ObserveRows("extracted", len(rows))
	observability.ObserveRows("returned", len(records))

	log.Ctx(ctx).Info().
		Str("origin", q.Origin()).
		Str("destination", q.Destination()).
		Str("date", q.Date()).
		Int("pages", len(pages)).
		Int("rows", len(rows)).
		Int("records", len(records)).
		Msg("search completed")
	return records, nil
}
