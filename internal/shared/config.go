package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"milheiro/internal/domain"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	SeatsAeroURL   string
	HTTPTimeout    time.Duration
	RequestTimeout time.Duration
	Scrape         domain.ScrapeDefaults

	FetchMode          string
	BrowserPageLimit   int
	BrowserMaxSessions int
	ChromePath         string

	CORSOrigins []string
}

// Load reads the environment, after merging a .env file from the working
// directory when one exists. Values already set in the environment win.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	d := domain.DefaultScrapeDefaults()
	httpTimeout := time.Duration(atoi("HTTP_TIMEOUT", 30)) * time.Second
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       env("HTTP_ADDR", ":5000"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		SeatsAeroURL:   env("SEATS_AERO_URL", "https://seats.aero/search"),
		HTTPTimeout:    httpTimeout,
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT", int(2*httpTimeout/time.Second)+30)) * time.Second,
		Scrape: domain.ScrapeDefaults{
			MinSeats:             atoi("SCRAPER_MIN_SEATS", d.MinSeats),
			ApplicableCabin:      env("SCRAPER_APPLICABLE_CABIN", d.ApplicableCabin),
			AdditionalDays:       boolean("SCRAPER_ADDITIONAL_DAYS", d.AdditionalDays),
			AdditionalDaysNum:    atoi("SCRAPER_ADDITIONAL_DAYS_NUM", d.AdditionalDaysNum),
			MaxFees:              atoi("SCRAPER_MAX_FEES", d.MaxFees),
			DisableLiveFiltering: boolean("SCRAPER_DISABLE_LIVE_FILTERING", d.DisableLiveFiltering),
		},
		FetchMode:          strings.ToLower(env("FETCH_MODE", FetchModeHTTP)),
		BrowserPageLimit:   atoi("BROWSER_PAGE_LIMIT", 20),
		BrowserMaxSessions: atoi("BROWSER_MAX_SESSIONS", 2),
		ChromePath:         env("CHROME_PATH", ""),
		CORSOrigins:        list("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
	if c.HTTPTimeout <= 0 {
		log.Warn().Dur("timeout", c.HTTPTimeout).Msg("HTTP_TIMEOUT must be positive, using 30s")
		c.HTTPTimeout = 30 * time.Second
	}
	if c.FetchMode != FetchModeHTTP && c.FetchMode != FetchModeBrowser {
		log.Warn().Str("mode", c.FetchMode).Msg("unknown FETCH_MODE, using http")
		c.FetchMode = FetchModeHTTP
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		return def
	}
	return n
}

func boolean(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a boolean, using default")
		return def
	}
	return b
}

func list(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
