package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/util"
)

// Fetcher retrieves article text from URLs, honoring robots.txt
type Fetcher struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(util.NormalizeUserAgent(userAgent), timeout),
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch retrieves an article from the given URL. The page's visible text
// becomes the article body and its title the headline.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Article, error) {
	if !f.robots.IsAllowed(ctx, rawURL) {
		return nil, &model.InputError{Reason: fmt.Sprintf("robots.txt disallows fetching %s", rawURL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	title, text, err := extractText(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	host := ""
	if u := resp.Request.URL; u != nil {
		host = u.Host
	}

	return &model.Article{
		Text:     text,
		Headline: title,
		Source:   host,
	}, nil
}

// Elements whose text content is never article prose
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"nav":      true,
	"header":   true,
	"footer":   true,
	"aside":    true,
	"form":     true,
	"iframe":   true,
	"svg":      true,
}

// extractText pulls the title and visible body text out of an HTML document
func extractText(rawHTML string) (title, text string, err error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skippedElements[n.Data] {
				return
			}
			if n.Data == "title" && title == "" && n.FirstChild != nil {
				title = strings.TrimSpace(n.FirstChild.Data)
				return
			}
		}
		if n.Type == html.TextNode {
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteByte(' ')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return title, strings.TrimSpace(sb.String()), nil
}
