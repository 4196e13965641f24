package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Columns is the fixed schema of the seats.aero results table, in display order.
var Columns = [...]string{
	"Data",
	"Ultima_Visualizacao",
	"Programa",
	"Origem",
	"Destino",
	"Economica",
	"Premium",
	"Executiva",
	"PrimeiraClasse",
}

// SearchQuery is a validated award search. Build it with NewSearchQuery.
type SearchQuery struct {
	date        string
	origin      string
	destination string
}

func (q SearchQuery) Date() string        { return q.date }
func (q SearchQuery) Origin() string      { return q.origin }
func (q SearchQuery) Destination() string { return q.destination }

// NewSearchQuery checks that all three parameters are present and normalizes the
// airport codes (trimmed, upper-cased, exactly three characters).
func NewSearchQuery(date, origin, destination string) (SearchQuery, error) {
	pairs := []struct{ name, value string }{
		{"origin", origin},
		{"destination", destination},
		{"date", date},
	}
	var missing []string
	for _, p := range pairs {
		if strings.TrimSpace(p.value) == "" {
			missing = append(missing, p.name)
		}
	}
	if len(missing) > 0 {
		return SearchQuery{}, Invalid("Parâmetros obrigatórios ausentes: " + strings.Join(missing, ", "))
	}

	o, err := normalizeAirport(origin)
	if err != nil {
		return SearchQuery{}, err
	}
	d, err := normalizeAirport(destination)
	if err != nil {
		return SearchQuery{}, err
	}
	return SearchQuery{date: strings.TrimSpace(date), origin: o, destination: d}, nil
}

func normalizeAirport(v string) (string, error) {
	v = strings.ToUpper(strings.TrimSpace(v))
	if len([]rune(v)) != 3 {
		return "", Invalid("Códigos IATA devem possuir três letras.")
	}
	return v, nil
}

// Row is one scraped table row; cells are already trimmed.
type Row []string

// Record is a Row mapped positionally onto Columns. A Record built from a short
// row simply lacks the trailing columns.
type Record struct {
	values []string
}

func NewRecord(cells []string) Record {
	n := len(cells)
	if n > len(Columns) {
		n = len(Columns)
	}
	v := make([]string, n)
	copy(v, cells[:n])
	return Record{values: v}
}

// Get returns the value for a column name and whether the record has it.
func (r Record) Get(column string) (string, bool) {
	for i, c := range Columns {
		if c == column {
			if i < len(r.values) {
				return r.values[i], true
			}
			return "", false
		}
	}
	return "", false
}

func (r Record) Len() int { return len(r.values) }

// MarshalJSON writes an object whose keys follow Columns order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range r.values {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(Columns[i])
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(b []byte) error {
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	r.values = r.values[:0]
	for _, c := range Columns {
		v, ok := m[c]
		if !ok {
			break
		}
		r.values = append(r.values, v)
	}
	return nil
}

// ScrapeDefaults are the static seats.aero filters sent with every search.
type ScrapeDefaults struct {
	MinSeats             int
	ApplicableCabin      string
	AdditionalDays       bool
	AdditionalDaysNum    int
	MaxFees              int
	DisableLiveFiltering bool
}

func DefaultScrapeDefaults() ScrapeDefaults {
	return ScrapeDefaults{
		MinSeats:             1,
		ApplicableCabin:      "any",
		AdditionalDays:       true,
		AdditionalDaysNum:    14,
		MaxFees:              40000,
		DisableLiveFiltering: false,
	}
}
