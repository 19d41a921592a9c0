// Package article fetches a news article and extracts its title and body.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Article is the readable part of a news page.
type Article struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Provider fetches articles.
type Provider interface {
	Fetch(ctx context.Context, rawURL string) (*Article, error)
}

var (
	// ErrArticleNotFound is returned when the page lacks a title or body.
	ErrArticleNotFound = errors.New("article not found on page")

	// ErrInvalidURL is returned for anything but absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid article URL")
)

// HTTPError reports a non-2xx response.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
}

// Config controls fetching and extraction.
type Config struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxBytes  int64         `mapstructure:"max_bytes" validate:"gte=0"`

	// TitleSelector and BodySelector pick the first matching element.
	TitleSelector string `mapstructure:"title_selector" validate:"required"`
	BodySelector  string `mapstructure:"body_selector" validate:"required"`

	// RemoveSelectors is a comma-separated list of elements dropped from
	// the body before its text is extracted.
	RemoveSelectors string `mapstructure:"remove_selectors"`
}

// DefaultConfig returns selectors for Maeil Business News (mk.co.kr)
// article pages.
func DefaultConfig() Config {
	return Config{
		UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		Timeout:         15 * time.Second,
		MaxBytes:        5 << 20,
		TitleSelector:   "h2.news_ttl",
		BodySelector:    `div.news_cnt_detail_wrap[itemprop="articleBody"]`,
		RemoveSelectors: "div.figure, div.related_news, span.read_more",
	}
}

// Fetcher implements Provider over HTTP.
type Fetcher struct {
	client *http.Client
	config Config
	title  Selector
	body   Selector
	remove []Selector
}

// New creates a Fetcher. client may be nil, in which case one is created
// with the configured timeout.
func New(cfg Config, client *http.Client) (*Fetcher, error) {
	title, err := ParseSelector(cfg.TitleSelector)
	if err != nil {
		return nil, fmt.Errorf("title selector: %w", err)
	}
	body, err := ParseSelector(cfg.BodySelector)
	if err != nil {
		return nil, fmt.Errorf("body selector: %w", err)
	}
	remove, err := ParseSelectorList(cfg.RemoveSelectors)
	if err != nil {
		return nil, fmt.Errorf("remove selectors: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Fetcher{client: client, config: cfg, title: title, body: body, remove: remove}, nil
}

// Fetch downloads rawURL and extracts the article.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Article, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.config.UserAgent != "" {
		req.Header.Set("User-Agent", f.config.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, URL: u.String()}
	}

	var body io.Reader = resp.Body
	if f.config.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, f.config.MaxBytes)
	}
	return f.Parse(body)
}

// Parse extracts the article from an HTML document.
func (f *Fetcher) Parse(r io.Reader) (*Article, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	titleNode := findFirst(doc, f.title)
	bodyNode := findFirst(doc, f.body)
	if titleNode == nil || bodyNode == nil {
		return nil, ErrArticleNotFound
	}

	for _, n := range findAll(bodyNode, f.remove) {
		if n != bodyNode && n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}

	a := &Article{
		Title:   strings.Join(textChunks(titleNode), " "),
		Content: strings.Join(textChunks(bodyNode), "\n"),
	}
	if a.Title == "" || a.Content == "" {
		return nil, ErrArticleNotFound
	}
	return a, nil
}

// textChunks returns the trimmed, non-empty text nodes under n in document
// order, skipping script and style contents.
func textChunks(n *html.Node) []string {
	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				out = append(out, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}
