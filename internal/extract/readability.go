package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"codeberg.org/snonux/readaloud/internal/httputil"
)

// ReadabilityTimeout bounds the direct page fetch of the readability strategy
const ReadabilityTimeout = 10 * time.Second

// ReadabilityStrategy applies the readability heuristic to HTML fetched
// directly with a browser-like User-Agent, then strips the markup
type ReadabilityStrategy struct {
	client *http.Client
}

// NewReadabilityStrategy creates the readability strategy. A nil client gets
// one bounded by ReadabilityTimeout.
func NewReadabilityStrategy(client *http.Client) *ReadabilityStrategy {
	if client == nil {
		client = httputil.NewClient(ReadabilityTimeout)
	}
	return &ReadabilityStrategy{client: client}
}

// Name returns the strategy name
func (s *ReadabilityStrategy) Name() string {
	return "readability"
}

// Extract fetches url, isolates the readable part and returns it as plain text
func (s *ReadabilityStrategy) Extract(ctx context.Context, url string) (string, error) {
	body, err := httputil.FetchHTML(ctx, s.client, url)
	if err != nil {
		return "", err
	}

	pageURL, err := nurl.Parse(url)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("readability failed: %w", err)
	}

	return StripTags(article.Content)
}

// StripTags converts an HTML fragment to plain text, joining text nodes with
// single spaces
func StripTags(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	var parts []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	return strings.Join(parts, " "), nil
}
