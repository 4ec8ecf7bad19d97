package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"codeberg.org/snonux/readaloud/internal/httputil"
)

// articleSelectors lists semantic article boundaries from most to least specific
var articleSelectors = []string{
	"article",
	"[itemprop='articleBody']",
	"[role='article']",
	"main",
	"[role='main']",
}

// noiseSelectors are removed before reading text out of an article boundary
const noiseSelectors = "script, style, noscript, template, nav, aside, footer, form, iframe, button, figcaption"

// blockSelectors are the elements whose text forms the article body
const blockSelectors = "p, h1, h2, h3, h4, li, blockquote, pre"

// ArticleStrategy downloads a page and parses its semantic article markup
type ArticleStrategy struct {
	client *http.Client
}

// NewArticleStrategy creates the article-boundary strategy. A nil client
// gets a default one.
func NewArticleStrategy(client *http.Client) *ArticleStrategy {
	if client == nil {
		client = httputil.NewClient(30 * time.Second)
	}
	return &ArticleStrategy{client: client}
}

// Name returns the strategy name
func (s *ArticleStrategy) Name() string {
	return "article"
}

// Extract fetches url and returns the text inside its article boundary
func (s *ArticleStrategy) Extract(ctx context.Context, url string) (string, error) {
	body, err := httputil.FetchHTML(ctx, s.client, url)
	if err != nil {
		return "", err
	}
	return articleText(bytes.NewReader(body))
}

// articleText picks the longest element matching the most specific article
// selector and joins its block-level text with blank lines
func articleText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find(noiseSelectors).Remove()

	for _, sel := range articleSelectors {
		best := ""
		doc.Find(sel).Each(func(_ int, node *goquery.Selection) {
			if text := blockText(node); len(text) > len(best) {
				best = text
			}
		})
		if best != "" {
			return best, nil
		}
	}

	return "", fmt.Errorf("no article markup found")
}

// blockText joins the text of block elements under node, skipping blocks
// nested in other blocks so nothing is read twice
func blockText(node *goquery.Selection) string {
	var parts []string
	node.Find(blockSelectors).Each(func(_ int, block *goquery.Selection) {
		if block.ParentsFiltered(blockSelectors).Length() > 0 {
			return
		}
		if text := collapseSpace(block.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		return collapseSpace(node.Text())
	}
	return strings.Join(parts, "\n\n")
}

// collapseSpace trims s and replaces runs of whitespace with single spaces
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
