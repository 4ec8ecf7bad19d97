package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// ArticlePage builds an HTML page that wraps paragraphs in <article> markup
// surrounded by navigation and footer noise
func ArticlePage(title string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>")
	b.WriteString(title)
	b.WriteString("</title><script>var tracking = true;</script></head><body>")
	b.WriteString(`<nav><a href="/">Home</a> <a href="/world">World</a> <a href="/sports">Sports</a></nav>`)
	b.WriteString("<article><h1>")
	b.WriteString(title)
	b.WriteString("</h1>")
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", p)
	}
	b.WriteString("</article>")
	b.WriteString(`<footer>Copyright Example News. Subscribe to our newsletter.</footer>`)
	b.WriteString("</body></html>")
	return b.String()
}

// PlainPage builds an HTML page without any semantic article markup
func PlainPage(title string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>")
	b.WriteString(title)
	b.WriteString(`</title></head><body><div class="wrapper"><div class="content">`)
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", p)
	}
	b.WriteString("</div></div></body></html>")
	return b.String()
}

// LongParagraphs returns n distinct paragraphs of realistic length
func LongParagraphs(n int) []string {
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("Paragraph %d. Researchers at the coastal institute spent several seasons "+
			"measuring how rising water temperatures change the migration of small fish, and their findings "+
			"suggest that local fisheries will need to adapt their schedules, equipment and expectations "+
			"over the coming decade as the ecosystem continues to shift in ways that are hard to predict.", i+1)
	}
	return paragraphs
}

// NewHTMLServer starts a test server that serves page for every request
func NewHTMLServer(t *testing.T, page string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileContent checks if a file has expected content
func AssertFileContent(t *testing.T, path string, expected []byte) {
	t.Helper()

	actual, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("File content mismatch in %s\nExpected: %q\nActual: %q", path, expected, actual)
	}
}
