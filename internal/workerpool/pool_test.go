package workerpool

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"codeberg.org/snonux/readaloud/internal/observability"
)

func TestNew_DefaultSize(t *testing.T) {
	p := New(0)
	defer p.Close()

	if p.Size() != DefaultSize {
		t.Errorf("Expected size %d, got %d", DefaultSize, p.Size())
	}
}

func TestSubmit_ReturnsValue(t *testing.T) {
	p := New(2)
	defer p.Close()

	f := Submit(context.Background(), p, func(ctx context.Context) (string, error) {
		return "done", nil
	})

	got, err := f.Await(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("Expected 'done', got %q", got)
	}
}

func TestSubmit_ReturnsError(t *testing.T) {
	p := New(1)
	defer p.Close()

	want := errors.New("stage failed")
	f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		return 0, want
	})

	if _, err := f.Await(context.Background()); !errors.Is(err, want) {
		t.Errorf("Expected %v, got %v", want, err)
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const size = 3
	p := New(size)
	defer p.Close()

	var current, peak atomic.Int64
	futures := make([]*Future[struct{}], 0, 12)

	for i := 0; i < 12; i++ {
		futures = append(futures, Submit(context.Background(), p, func(ctx context.Context) (struct{}, error) {
			n := current.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return struct{}{}, nil
		}))
	}

	for _, f := range futures {
		if _, err := f.Await(context.Background()); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if peak.Load() > size {
		t.Errorf("Expected at most %d concurrent tasks, saw %d", size, peak.Load())
	}
}

func TestPool_QueuesInSubmissionOrder(t *testing.T) {
	p := New(1)
	defer p.Close()

	release := make(chan struct{})
	blocker := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		<-release
		return -1, nil
	})

	var mu sync.Mutex
	var order []int
	futures := make([]*Future[int], 0, 5)
	for i := 0; i < 5; i++ {
		futures = append(futures, Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return i, nil
		}))
	}

	close(release)
	if _, err := blocker.Await(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, f := range futures {
		if _, err := f.Await(context.Background()); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	for i, v := range order {
		if v != i {
			t.Fatalf("Expected FIFO order, got %v", order)
		}
	}
}

func TestSubmit_RecoversPanic(t *testing.T) {
	p := New(1)
	defer p.Close()

	f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		panic("kaboom")
	})

	_, err := f.Await(context.Background())
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Fatalf("Expected panic error, got %v", err)
	}

	// The pool keeps working afterwards
	ok := Submit(context.Background(), p, func(ctx context.Context) (int, error) { return 7, nil })
	if v, err := ok.Await(context.Background()); err != nil || v != 7 {
		t.Errorf("Expected 7, got %d (%v)", v, err)
	}
}

func TestSubmit_LogsPanic(t *testing.T) {
	var buf bytes.Buffer
	observability.SetOutput(&buf, "error")
	defer observability.SetOutput(io.Discard, "info")

	p := New(1)
	defer p.Close()

	f := Submit(context.Background(), p, func(ctx context.Context) (string, error) {
		panic("boom")
	})
	if _, err := f.Await(context.Background()); err == nil {
		t.Fatal("Expected an error from a panicking task")
	}

	out := buf.String()
	if !strings.Contains(out, "task panicked") || !strings.Contains(out, `"component":"workerpool"`) {
		t.Errorf("Expected panic to be logged by the pool, got %q", out)
	}
}

func TestSubmit_SkipsCancelledWork(t *testing.T) {
	p := New(1)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	f := Submit(ctx, p, func(ctx context.Context) (int, error) {
		called = true
		return 1, nil
	})

	<-f.Done()
	if _, err := f.Await(context.Background()); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("Cancelled task should not run")
	}
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	p := New(1)
	defer p.Close()

	release := make(chan struct{})
	defer close(release)
	f := Submit(context.Background(), p, func(ctx context.Context) (int, error) {
		<-release
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := f.Await(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestPool_Close(t *testing.T) {
	p := New(1)

	var ran atomic.Int64
	for i := 0; i < 3; i++ {
		Submit(context.Background(), p, func(ctx context.Context) (int, error) {
			ran.Add(1)
			return 0, nil
		})
	}
	p.Close()

	if ran.Load() != 3 {
		t.Errorf("Expected queued tasks to finish before Close returns, %d ran", ran.Load())
	}

	f := Submit(context.Background(), p, func(ctx context.Context) (int, error) { return 0, nil })
	if _, err := f.Await(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}

	p.Close()
}
