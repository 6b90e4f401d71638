package research

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds parallel page fetches in one research run.
const maxConcurrentFetches = 4

// browserTimeout is the per-page timeout when falling back to headless rendering.
const browserTimeout = 60 * time.Second

// Options control how a research run behaves.
type Options struct {
	// UseBrowser enables the headless-browser fallback for pages whose plain
	// HTTP fetch yields too little text.
	UseBrowser bool
	Verbose    bool
}

// Brief is the assembled result of researching a target company.
type Brief struct {
	Company string
	Pages   []*Page
	// Failed lists URLs that could not be fetched, with the reason.
	Failed map[string]string
}

// CombinedText concatenates the extracted text of every fetched page, each
// section labeled with its source URL.
func (b *Brief) CombinedText() string {
	var sb strings.Builder
	for _, page := range b.Pages {
		if page.Text == "" {
			continue
		}
		fmt.Fprintf(&sb, "--- Source: %s ---\n%s\n\n", page.URL, page.Text)
	}
	return strings.TrimSpace(sb.String())
}

// ResearchCompany fetches the given URLs concurrently and assembles a company
// brief. Individual page failures are recorded rather than aborting the run; an
// error is returned only when every page fails.
func ResearchCompany(ctx context.Context, company string, urls []string, opts Options) (*Brief, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("no research URLs provided for %q", company)
	}

	brief := &Brief{
		Company: company,
		Failed:  make(map[string]string),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	pages := make(map[string]*Page, len(urls))
	for _, u := range urls {
		g.Go(func() error {
			page, err := fetchWithFallback(gctx, u, opts)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				brief.Failed[u] = err.Error()
				return nil
			}
			pages[u] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Preserve the caller's URL order in the output.
	for _, u := range urls {
		if page, ok := pages[u]; ok {
			brief.Pages = append(brief.Pages, page)
		}
	}

	if len(brief.Pages) == 0 {
		return nil, fmt.Errorf("all %d research pages failed for %q: %s",
			len(urls), company, summarizeFailures(brief.Failed))
	}
	return brief, nil
}

// fetchWithFallback fetches a page over plain HTTP and, when the result looks
// like an unrendered SPA shell, retries through the headless browser.
func fetchWithFallback(ctx context.Context, url string, opts Options) (*Page, error) {
	page, err := FetchPage(ctx, url)
	if err != nil {
		return nil, err
	}

	if opts.UseBrowser && ShouldUseBrowser(page.Text) {
		if opts.Verbose {
			log.Printf("[RESEARCH] Plain fetch of %s yielded %d chars, retrying with browser", url, len(page.Text))
		}
		html, berr := FetchWithBrowser(ctx, url, browserTimeout, opts.Verbose)
		if berr != nil {
			// Keep the thin plain-HTTP result rather than failing the page.
			log.Printf("[RESEARCH] Browser fallback failed for %s: %v", url, berr)
			return page, nil
		}
		text, terr := ExtractMainText(html)
		if terr != nil {
			return page, nil
		}
		page.HTML = html
		page.Text = text
	}
	return page, nil
}

func summarizeFailures(failed map[string]string) string {
	parts := make([]string, 0, len(failed))
	for u, reason := range failed {
		parts = append(parts, fmt.Sprintf("%s (%s)", u, reason))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
