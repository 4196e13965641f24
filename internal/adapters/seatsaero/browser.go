package seatsaero

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"milheiro/internal/adapters/observability"
	"milheiro/internal/domain"
)

const (
	resultsTable = "table#DataTables_Table_0"

	// numbered pagination buttons only
	pageButtonXPath = "//button[contains(@class, 'page-link') and not(contains(@class, 'next')) and not(contains(@class, 'previous'))]"

	DefaultPageLimit   = 20
	DefaultMaxSessions = 2
)

type BrowserOptions struct {
	BaseURL     string
	Timeout     time.Duration // whole session, launch to teardown
	PageLimit   int
	MaxSessions int
	ExecPath    string // empty: chromedp looks Chrome up on PATH
	Defaults    domain.ScrapeDefaults

	// table polling after each click
	PollInterval time.Duration
	MaxPolls     int
}

// Browser drives headless Chrome through the client-side pagination of the results table.
// Every call launches its own Chrome process; sem bounds how many run at once.
type Browser struct {
	opts  BrowserOptions
	alloc []chromedp.ExecAllocatorOption
	sem   *semaphore.Weighted
}

func NewBrowser(o BrowserOptions) *Browser {
	if o.BaseURL == "" {
		o.BaseURL = DefaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.PageLimit <= 0 {
		o.PageLimit = DefaultPageLimit
	}
	if o.MaxSessions <= 0 {
		o.MaxSessions = DefaultMaxSessions
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 250 * time.Millisecond
	}
	if o.MaxPolls <= 0 {
		o.MaxPolls = 40
	}
	return &Browser{
		opts:  o,
		alloc: allocatorOptions(o.ExecPath),
		sem:   semaphore.NewWeighted(int64(o.MaxSessions)),
	}
}

func allocatorOptions(execPath string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(UserAgent),
	)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	return opts
}

func (b *Browser) FetchPages(ctx context.Context, q domain.SearchQuery) ([]string, error) {
	u, err := SearchURL(b.opts.BaseURL, q, b.opts.Defaults)
	if err != nil {
		return nil, fmt.Errorf("seatsaero: build url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	if err := b.sem.Acquire(ctx, 1); err != nil {
		return nil, classify(err)
	}
	defer b.sem.Release(1)

	start := time.Now()
	pages, status, err := b.session(ctx, u)
	observability.ObserveExternal("seatsaero", "browser", status, time.Since(start))
	if err != nil {
		return nil, classify(err)
	}
	return pages, nil
}

// session owns one Chrome process; both deferred cancels run on every return path.
// status is the main document's HTTP status, 0 when navigation got no response.
func (b *Browser) session(ctx context.Context, u string) (pages []string, status int, err error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, b.alloc...)
	defer cancelAlloc()

	l := log.Logger.With().Str("component", "seatsaero.browser").Logger()
	bctx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(f string, a ...any) { l.Debug().Msgf(f, a...) }),
		chromedp.WithErrorf(func(f string, a ...any) { l.Warn().Msgf(f, a...) }),
	)
	defer cancelBrowser()

	resp, err := chromedp.RunResponse(bctx, chromedp.Navigate(u))
	if err != nil {
		return nil, 0, err
	}
	if resp != nil {
		status = int(resp.Status)
	}
	if status < 200 || status > 299 {
		return nil, status, &domain.UpstreamStatusError{StatusCode: status}
	}

	var first string
	var buttons []*cdp.Node
	err = chromedp.Run(bctx,
		chromedp.WaitReady(resultsTable+" tbody", chromedp.ByQuery),
		b.settle("", &first),
		chromedp.Nodes(pageButtonXPath, &buttons, chromedp.BySearch, chromedp.AtLeast(0)),
	)
	if err != nil {
		return nil, status, err
	}

	if len(buttons) == 0 {
		l.Debug().Msg("no pagination, single page captured")
		return []string{first}, status, nil
	}

	n := len(buttons)
	if n > b.opts.PageLimit {
		l.Warn().Int("buttons", n).Int("limit", b.opts.PageLimit).Msg("pagination truncated")
		n = b.opts.PageLimit
	}

	pages = make([]string, 0, n)
	current := first
	for i := 0; i < n; i++ {
		var clicked clickResult
		var html string
		err := chromedp.Run(bctx,
			chromedp.Evaluate(clickScript(i), &clicked),
			b.settle(current, &html),
		)
		if err != nil {
			return nil, status, err
		}
		if !clicked.OK {
			// the button list shrank after a re-render
			l.Debug().Int("index", i).Msg("pagination button vanished")
			break
		}
		l.Debug().Str("page", clicked.Label).Int("bytes", len(html)).Msg("page captured")
		pages = append(pages, html)
		current = html
	}
	return pages, status, nil
}

type clickResult struct {
	OK    bool   `json:"ok"`
	Label string `json:"label"`
}

// clickScript re-resolves the i-th pagination button, since the DOM is rebuilt on
// every page change, then scrolls to it and clicks it.
func clickScript(i int) string {
	return fmt.Sprintf(`(() => {
  const r = document.evaluate(%q, document, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
  const b = r.snapshotItem(%d);
  if (!b) return {ok: false, label: ""};
  b.scrollIntoView(true);
  b.click();
  return {ok: true, label: (b.textContent || "").trim()};
})()`, pageButtonXPath, i)
}

// settle polls the results table until its HTML differs from before and then
// reads the same twice in a row. If it never changes (the clicked page was
// already showing) it gives up after a few identical reads.
func (b *Browser) settle(before string, out *string) chromedp.ActionFunc {
	const unchangedReads = 3
	return func(ctx context.Context) error {
		prev := before
		same := 0
		for i := 0; i < b.opts.MaxPolls; i++ {
			if i > 0 || before != "" {
				if !sleepCtx(ctx, b.opts.PollInterval) {
					return ctx.Err()
				}
			}
			var cur string
			if err := chromedp.OuterHTML(resultsTable, &cur, chromedp.ByQuery).Do(ctx); err != nil {
				return err
			}
			*out = cur
			if cur != prev {
				prev = cur
				same = 0
				continue
			}
			if cur != before {
				return nil
			}
			same++
			if same >= unchangedReads {
				return nil
			}
		}
		return nil
	}
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrUpstreamTimeout
	}
	return fmt.Errorf("seatsaero: browser session: %w", err)
}

// sleepCtx waits for d or returns false early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
