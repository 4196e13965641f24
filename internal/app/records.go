package app

import (
	"strconv"
	"strings"

	"milheiro/internal/domain"
)

// NormalizeRows truncates rows to the column count, drops empty and repeated
// rows (first occurrence wins) and maps what is left onto domain.Columns.
func NormalizeRows(rows []domain.Row) []domain.Record {
	out := make([]domain.Record, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		trimmed := row
		if len(trimmed) > len(domain.Columns) {
			trimmed = trimmed[:len(domain.Columns)]
		}
		if len(trimmed) == 0 {
			continue
		}
		key := fingerprint(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.NewRecord(trimmed))
	}
	return out
}

// fingerprint quotes each cell so ("a,b") and ("a", "b") never collide.
func fingerprint(cells []string) string {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(c))
	}
	return b.String()
}
