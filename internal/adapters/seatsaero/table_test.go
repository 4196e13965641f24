package seatsaero_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"milheiro/internal/adapters/seatsaero"
	"milheiro/internal/domain"
)

func TestExtractRows_ResultsTable(t *testing.T) {
	rows, err := seatsaero.NewTableExtractor().ExtractRows(resultsPage)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	first := rows[0]
	require.Len(t, first, 10)
	require.Equal(t, "2024-07-01", first[0])
	require.Equal(t, "1 hour ago | tooltip: 2024-06-30 14:02 UTC", first[1])
	require.Equal(t, "35,000 pts", first[5])
	require.Equal(t, "", first[6])
	require.Equal(t, "90,000 pts | tooltip: Direct, 2 seats", first[7])
	require.Equal(t, "Book", first[9])

	require.Equal(t, domain.Row{"2024-07-02", "2 hours ago", "Aeroplan", "GRU", "MIA", "40,000 pts", "", "", ""}, rows[1])
}

func TestExtractRows_TooltipFormat(t *testing.T) {
	html := `<table id="DataTables_Table_0"><tbody><tr><td><span data-bs-original-title="X">Y</span></td></tr></tbody></table>`
	rows, err := seatsaero.NewTableExtractor().ExtractRows(html)
	require.NoError(t, err)
	require.Equal(t, []domain.Row{{"Y | tooltip: X"}}, rows)
}

func TestExtractRows_TooltipFallbackAttributes(t *testing.T) {
	html := `<table id="DataTables_Table_0"><tbody><tr>
<td><span data-bs-title="A">a</span></td>
<td><span title="B">b</span></td>
<td><span data-bs-original-title="">c</span></td>
</tr></tbody></table>`
	rows, err := seatsaero.NewTableExtractor().ExtractRows(html)
	require.NoError(t, err)
	require.Equal(t, []domain.Row{{"a | tooltip: A", "b | tooltip: B", "c"}}, rows)
}

func TestExtractRows_NoTable(t *testing.T) {
	rows, err := seatsaero.NewTableExtractor().ExtractRows(`<html><body><table id="other"><tbody><tr><td>x</td></tr></tbody></table></body></html>`)
	require.NoError(t, err)
	require.Empty(t, rows)
	require.NotNil(t, rows)
}

func TestExtractRows_SkipsRowsWithoutCells(t *testing.T) {
	html := `<table id="DataTables_Table_0"><tbody>
<tr></tr>
<tr><th>header-ish</th></tr>
<tr><td valign="top" colspan="9" class="dataTables_empty">No data available in table</td></tr>
<tr><td>kept</td></tr>
</tbody></table>`
	rows, err := seatsaero.NewTableExtractor().ExtractRows(html)
	require.NoError(t, err)
	require.Equal(t, []domain.Row{{"kept"}}, rows)
}

func TestExtractRows_CellTextWhitespace(t *testing.T) {
	html := `<table id="DataTables_Table_0"><tbody><tr>
<td>35k <small>mi</small></td>
<td>35k<small>mi</small></td>
<td>
   GRU
   &rarr;   MIA
</td>
<td><span title="  Direct  ">  90,000
   pts </span></td>
</tr></tbody></table>`
	rows, err := seatsaero.NewTableExtractor().ExtractRows(html)
	require.NoError(t, err)
	// whitespace between fragments collapses to one space; adjacent fragments stay joined
	require.Equal(t, []domain.Row{{"35k mi", "35kmi", "GRU → MIA", "90,000 pts | tooltip: Direct"}}, rows)
}
