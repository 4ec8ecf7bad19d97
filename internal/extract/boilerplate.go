package extract

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	nurl "net/url"
	"strings"
	"time"

	trafilatura "github.com/markusmobius/go-trafilatura"

	"codeberg.org/snonux/readaloud/internal/httputil"
)

// commentSelector matches reader comment sections, which are never part of
// the spoken article
const commentSelector = `#comments, .comments, [id^="comment"], [class^="comment"], [id^="dsq-comments"]`

// BoilerplateStrategy removes navigation, ads and other boilerplate from
// independently fetched raw HTML
type BoilerplateStrategy struct {
	client *http.Client
}

// NewBoilerplateStrategy creates the boilerplate-removal strategy. A nil
// client gets a default one.
func NewBoilerplateStrategy(client *http.Client) *BoilerplateStrategy {
	if client == nil {
		client = httputil.NewClient(30 * time.Second)
	}
	return &BoilerplateStrategy{client: client}
}

// Name returns the strategy name
func (s *BoilerplateStrategy) Name() string {
	return "boilerplate"
}

// Extract fetches url and returns its main content without comments
func (s *BoilerplateStrategy) Extract(ctx context.Context, url string) (string, error) {
	body, err := httputil.FetchHTML(ctx, s.client, url)
	if err != nil {
		return "", err
	}

	pageURL, err := nurl.Parse(url)
	if err != nil {
		return "", fmt.Errorf("parsing URL: %w", err)
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL:     pageURL,
		ExcludeComments: true,
		PruneSelector:   commentSelector,
	})
	if err != nil {
		return "", fmt.Errorf("boilerplate removal failed: %w", err)
	}
	if result == nil {
		return "", nil
	}

	return strings.TrimSpace(result.ContentText), nil
}
