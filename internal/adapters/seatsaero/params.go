package seatsaero

import (
	"net/url"
	"strconv"

	"milheiro/internal/domain"
)

// UserAgent is a desktop Chrome string; seats.aero serves a reduced page to unknown agents.
const UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// SearchParams overlays the query onto the static filters.
func SearchParams(q domain.SearchQuery, d domain.ScrapeDefaults) url.Values {
	v := url.Values{}
	v.Set("min_seats", strconv.Itoa(d.MinSeats))
	v.Set("applicable_cabin", d.ApplicableCabin)
	v.Set("additional_days", strconv.FormatBool(d.AdditionalDays))
	v.Set("additional_days_num", strconv.Itoa(d.AdditionalDaysNum))
	v.Set("max_fees", strconv.Itoa(d.MaxFees))
	v.Set("disable_live_filtering", strconv.FormatBool(d.DisableLiveFiltering))
	v.Set("date", q.Date())
	v.Set("origins", q.Origin())
	v.Set("destinations", q.Destination())
	return v
}

// SearchURL is base with SearchParams appended, replacing any query already on base.
func SearchURL(base string, q domain.SearchQuery, d domain.ScrapeDefaults) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.RawQuery = SearchParams(q, d).Encode()
	return u.String(), nil
}
