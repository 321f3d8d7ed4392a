package adapter

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

const (
	fetchTimeout      = 30 * time.Second
	maxFetchBodyBytes = 1_000_000
	previewRunes      = 1200
)

// DocFetcher retrieves remote documents for the doc command's fetch mode.
type DocFetcher interface {
	// Fetch GETs the start URL and breadth-first crawls same-host links up
	// to maxDepth levels. Every request and redirect is gated by the
	// network policy; blocked or failed pages are recorded, not fatal.
	Fetch(startURL string, maxDepth int) ([]m.FetchedDoc, error)
}

// HTTPDocFetcher is the net/http implementation of DocFetcher.
type HTTPDocFetcher struct {
	policy m.NetworkPolicy
	client *http.Client
}

// NewHTTPDocFetcher constructs an HTTPDocFetcher gated by policy.
func NewHTTPDocFetcher(policy m.NetworkPolicy) *HTTPDocFetcher {
	return &HTTPDocFetcher{
		policy: policy,
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, _ []*http.Request) error {
				return policy.Allow(req.URL.Host)
			},
		},
	}
}

// Fetch crawls from startURL.
func (f *HTTPDocFetcher) Fetch(startURL string, maxDepth int) ([]m.FetchedDoc, error) {
	if maxDepth < 1 {
		maxDepth = 1
	}

	start, err := url.Parse(strings.TrimSpace(startURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", startURL, err)
	}

	if start.Scheme != "http" && start.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", start.Scheme)
	}

	if err := f.policy.Allow(start.Host); err != nil {
		return nil, err
	}

	type queueItem struct {
		u     *url.URL
		depth int
	}

	visited := map[string]bool{}
	queue := []queueItem{{u: start, depth: 1}}

	var docs []m.FetchedDoc

	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		u := *it.u
		u.Fragment = ""
		key := u.String()

		if visited[key] {
			continue
		}

		visited[key] = true

		if err := f.policy.Allow(u.Host); err != nil {
			docs = append(docs, m.FetchedDoc{URI: key, Title: "(blocked)", Preview: err.Error()})

			continue
		}

		body, err := f.get(key)
		if err != nil {
			docs = append(docs, m.FetchedDoc{URI: key, Title: "(error)", Preview: err.Error()})

			continue
		}

		title, links := parsePage(body, &u)
		if title == "" {
			title = u.Host
		}

		docs = append(docs, m.FetchedDoc{URI: key, Title: title, Preview: preview(body)})

		if it.depth >= maxDepth {
			continue
		}

		links = sameHost(links, u.Host)
		sort.Slice(links, func(i, j int) bool { return links[i].String() < links[j].String() })

		for _, link := range links {
			queue = append(queue, queueItem{u: link, depth: it.depth + 1})
		}
	}

	return docs, nil
}

func (f *HTTPDocFetcher) get(rawURL string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("Accept", "text/html, text/plain; q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("http status %d", resp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBodyBytes))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// parsePage extracts the page title and resolved anchor targets.
func parsePage(body string, base *url.URL) (string, []*url.URL) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", nil
	}

	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")

	var links []*url.URL

	seen := map[string]bool{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)

		low := strings.ToLower(href)
		if href == "" || strings.HasPrefix(low, "mailto:") || strings.HasPrefix(low, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""

		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		if seen[resolved.String()] {
			return
		}

		seen[resolved.String()] = true
		links = append(links, resolved)
	})

	return title, links
}

func sameHost(links []*url.URL, host string) []*url.URL {
	var out []*url.URL

	for _, l := range links {
		if strings.EqualFold(l.Host, host) {
			out = append(out, l)
		}
	}

	return out
}

func preview(body string) string {
	runes := []rune(body)
	if len(runes) <= previewRunes {
		return body
	}

	return string(runes[:previewRunes]) + "…"
}
