package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/snonux/readaloud/internal/extract"
	"codeberg.org/snonux/readaloud/internal/pipeline"
	"codeberg.org/snonux/readaloud/internal/testutil"
	"codeberg.org/snonux/readaloud/internal/textproc"
	"codeberg.org/snonux/readaloud/internal/workerpool"
)

func mockBuilder(synth *testutil.MockSynthesizer, article string) BuildFunc {
	return func(ctx context.Context) (*pipeline.Coordinator, *workerpool.Pool, error) {
		pool := workerpool.New(2)
		model := &testutil.MockModel{Replies: []string{`{"cleaned_text": "Texte nettoyé.", "summary": "Résumé."}`}}
		strategy := &testutil.MockStrategy{StrategyName: "article", Text: article}
		coord := pipeline.New(extract.New(strategy), textproc.NewProcessor(model), synth, pool, pipeline.WithChunkSize(4))
		return coord, pool, nil
	}
}

func TestApp_RunTextFile(t *testing.T) {
	resetViper(t)
	viper.Set("language", "fr")
	viper.Set("type", "summary")

	dir := t.TempDir()
	textFile := filepath.Join(dir, "article.txt")
	testutil.CreateTestFile(t, textFile, []byte(testutil.ArticleText(400)))

	flags := NewFlags()
	flags.TextFile = textFile
	flags.Output = filepath.Join(dir, "out.mp3")

	synth := &testutil.MockSynthesizer{Audio: []byte("0123456789")}
	var out bytes.Buffer
	if err := NewApp(flags, &out).WithBuilder(mockBuilder(synth, "")).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	testutil.AssertFileContent(t, flags.Output, []byte("0123456789"))
	if synth.Calls[0].Text != "Résumé." || synth.Calls[0].Language != "fr" {
		t.Errorf("Unexpected synthesis call: %+v", synth.Calls[0])
	}
	for _, want := range []string{"Language: French", "Streamed 10 bytes in 3 chunks", "Audio saved to"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestApp_RunURL(t *testing.T) {
	resetViper(t)

	flags := NewFlags()
	flags.URL = "https://example.com/story"
	flags.Output = filepath.Join(t.TempDir(), "story.mp3")

	synth := &testutil.MockSynthesizer{}
	if err := NewApp(flags, &bytes.Buffer{}).WithBuilder(mockBuilder(synth, testutil.ArticleText(500))).Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	testutil.AssertFileExists(t, flags.Output)
	if synth.Calls[0].Text != "Texte nettoyé." {
		t.Errorf("Expected cleaned text to be spoken, got %q", synth.Calls[0].Text)
	}
}

func TestApp_RunRequestErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *Flags)
		wantErr string
	}{
		{"no input", func(f *Flags) {}, "provide an article"},
		{"both inputs", func(f *Flags) { f.URL = "https://example.com"; f.TextFile = "x.txt" }, "not both"},
		{"missing text file", func(f *Flags) { f.TextFile = "/nonexistent/article.txt" }, "failed to read text file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			flags := NewFlags()
			tt.setup(flags)

			err := NewApp(flags, &bytes.Buffer{}).WithBuilder(mockBuilder(&testutil.MockSynthesizer{}, "")).Run(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApp_RunShortTextFails(t *testing.T) {
	resetViper(t)

	textFile := filepath.Join(t.TempDir(), "short.txt")
	testutil.CreateTestFile(t, textFile, []byte("too short"))

	flags := NewFlags()
	flags.TextFile = textFile
	flags.Output = filepath.Join(t.TempDir(), "out.mp3")

	err := NewApp(flags, &bytes.Buffer{}).WithBuilder(mockBuilder(&testutil.MockSynthesizer{}, "")).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "300") {
		t.Errorf("Expected content too short error, got %v", err)
	}
	if _, statErr := os.Stat(flags.Output); !os.IsNotExist(statErr) {
		t.Error("No output file should be written on failure")
	}
}

func TestApp_Batch(t *testing.T) {
	resetViper(t)

	dir := t.TempDir()
	outDir := filepath.Join(dir, "audio")
	viper.Set("batch.output_dir", outDir)

	list := filepath.Join(dir, "urls.txt")
	testutil.CreateTestFile(t, list, []byte("https://example.com/a\n# skipped\nhttps://blog.example.org/b = es\n"))

	synth := &testutil.MockSynthesizer{Audio: []byte("mp3")}
	var out bytes.Buffer
	if err := NewApp(NewFlags(), &out).WithBuilder(mockBuilder(synth, testutil.ArticleText(500))).Batch(context.Background(), list); err != nil {
		t.Fatalf("Batch failed: %v", err)
	}

	testutil.AssertFileContent(t, filepath.Join(outDir, "1_example_com.mp3"), []byte("mp3"))
	testutil.AssertFileContent(t, filepath.Join(outDir, "2_blog_example_org.mp3"), []byte("mp3"))
	if !strings.Contains(out.String(), "Processed: 2") {
		t.Errorf("Expected summary in output, got:\n%s", out.String())
	}
}

func TestApp_BatchEmptyFile(t *testing.T) {
	resetViper(t)

	list := filepath.Join(t.TempDir(), "urls.txt")
	testutil.CreateTestFile(t, list, []byte("\n# nothing here\n"))

	err := NewApp(NewFlags(), &bytes.Buffer{}).WithBuilder(mockBuilder(&testutil.MockSynthesizer{}, "")).Batch(context.Background(), list)
	if err == nil || !strings.Contains(err.Error(), "no URLs found") {
		t.Errorf("Expected no URLs error, got %v", err)
	}
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	resetViper(t)
	viper.Set("server.addr", "127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := NewApp(NewFlags(), &bytes.Buffer{}).WithBuilder(mockBuilder(&testutil.MockSynthesizer{}, "")).Serve(ctx); err != nil {
		t.Errorf("Expected clean shutdown, got %v", err)
	}
}
