package sponsors

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
)

type countingLoader struct {
	mu      sync.Mutex
	calls   int
	outcome Outcome
	errs    []error
}

func (l *countingLoader) Load(context.Context) (Outcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if len(l.errs) > 0 {
		err := l.errs[0]
		l.errs = l.errs[1:]
		if err != nil {
			return Outcome{}, err
		}
	}
	return l.outcome, nil
}

func TestCacheLoadsOnce(t *testing.T) {
	loader := &countingLoader{outcome: loaded(NewRegister([]string{"acme"}), "x")}
	cache := NewCache(loader, zap.NewNop())

	if cache.Loaded() {
		t.Fatal("expected empty cache before first Get")
	}

	for i := 0; i < 3; i++ {
		outcome, err := cache.Get(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if outcome.Register.Len() != 1 {
			t.Fatalf("unexpected register size %d", outcome.Register.Len())
		}
	}

	if loader.calls != 1 {
		t.Fatalf("expected 1 load, got %d", loader.calls)
	}
}

func TestCacheSharesLoadAcrossGoroutines(t *testing.T) {
	loader := &countingLoader{outcome: loaded(NewRegister([]string{"acme"}), "x")}
	cache := NewCache(loader, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Get(context.Background()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if loader.calls != 1 {
		t.Fatalf("expected 1 load, got %d", loader.calls)
	}
}

func TestCacheInvalidateForcesReload(t *testing.T) {
	loader := &countingLoader{outcome: loaded(NewRegister([]string{"acme"}), "x")}
	cache := NewCache(loader, nil)

	cache.Get(context.Background())
	cache.Invalidate()
	if cache.Loaded() {
		t.Fatal("expected cache to be empty after Invalidate")
	}
	cache.Get(context.Background())

	if loader.calls != 2 {
		t.Fatalf("expected 2 loads, got %d", loader.calls)
	}
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	loader := &countingLoader{
		outcome: loaded(NewRegister([]string{"acme"}), "x"),
		errs:    []error{ErrSourceUnreachable},
	}
	cache := NewCache(loader, nil)

	if _, err := cache.Get(context.Background()); !errors.Is(err, ErrSourceUnreachable) {
		t.Fatalf("expected ErrSourceUnreachable, got %v", err)
	}
	if cache.Loaded() {
		t.Fatal("errors must not be cached")
	}

	outcome, err := cache.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !outcome.Available() {
		t.Fatal("expected loaded outcome on retry")
	}
}

func TestCacheKeepsUnavailableOutcome(t *testing.T) {
	loader := &countingLoader{outcome: unavailable("x", "no table link on index page")}
	cache := NewCache(loader, nil)

	cache.Get(context.Background())
	outcome, _ := cache.Get(context.Background())

	if outcome.Available() {
		t.Fatal("expected unavailable outcome")
	}
	if loader.calls != 1 {
		t.Fatalf("expected unavailable outcome to be cached, got %d loads", loader.calls)
	}
}

type blockingLoader struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (l *blockingLoader) Load(ctx context.Context) (Outcome, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	close(l.started)
	<-l.release
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	return loaded(NewRegister([]string{"acme"}), "x"), nil
}

func TestCacheCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	loader := &blockingLoader{started: make(chan struct{}), release: make(chan struct{})}
	cache := NewCache(loader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := cache.Get(ctx)
		first <- err
	}()
	<-loader.started

	second := make(chan Outcome, 1)
	go func() {
		outcome, err := cache.Get(context.Background())
		if err != nil {
			t.Errorf("unexpected error for second caller: %v", err)
		}
		second <- outcome
	}()

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled for the cancelled caller, got %v", err)
	}

	close(loader.release)
	if outcome := <-second; !outcome.Available() {
		t.Fatal("expected the shared load to finish for the second caller")
	}
	if loader.calls != 1 {
		t.Fatalf("expected 1 load, got %d", loader.calls)
	}
}
