package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coges-quiz-app/internal/app"
	"coges-quiz-app/internal/domain"
	"coges-quiz-app/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCachedStoreCachesTestLookups(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingStore{Store: seededStore(t)}
	cached := NewCachedStore(inner, newClient(mr), time.Minute)

	test, err := cached.GetTest(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get test: %v", err)
	}
	if test.Title != "Test di Matematica Base" {
		t.Fatalf("unexpected title %q", test.Title)
	}
	if inner.getCalls != 1 {
		t.Fatalf("expected one store read, got %d", inner.getCalls)
	}
	if !mr.Exists("test:t1") {
		t.Fatalf("expected redis key to be set")
	}

	// Second read is served from redis.
	if _, err := cached.GetTest(context.Background(), "t1"); err != nil {
		t.Fatalf("get test again: %v", err)
	}
	if inner.getCalls != 1 {
		t.Fatalf("expected cache hit, store reads=%d", inner.getCalls)
	}
}

func TestCachedStoreDoesNotCacheNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	inner := &countingStore{Store: seededStore(t)}
	cached := NewCachedStore(inner, newClient(mr), time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cached.GetTest(context.Background(), "missing"); !errors.Is(err, domain.ErrTestNotFound) {
			t.Fatalf("expected ErrTestNotFound, got %v", err)
		}
	}
	if mr.Exists("test:missing") {
		t.Fatalf("not-found must not be cached")
	}
	if inner.getCalls != 2 {
		t.Fatalf("expected both misses to reach the store, got %d", inner.getCalls)
	}
}

func TestCachedStorePassesThroughLists(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cached := NewCachedStore(seededStore(t), newClient(mr), time.Minute)

	tests, err := cached.ListTests(context.Background())
	if err != nil {
		t.Fatalf("list tests: %v", err)
	}
	if len(tests) != 1 {
		t.Fatalf("expected 1 test, got %d", len(tests))
	}
}

func TestCachedStoreConcurrentFills(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := memory.NewStore()
	ids := make([]string, 8)
	for i := range ids {
		test := store.AddTest(domain.Test{Title: "Quiz di Geografia"})
		ids[i] = test.ID
	}
	cached := NewCachedStore(store, newClient(mr), time.Minute)

	// Distinct ids bypass singleflight, so the cache fills race; run them in
	// parallel to let the race detector check the jitter path.
	var wg sync.WaitGroup
	errs := make(chan error, len(ids))
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			if _, err := cached.GetTest(context.Background(), id); err != nil {
				errs <- err
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent get test: %v", err)
	}
	for _, id := range ids {
		if !mr.Exists("test:" + id) {
			t.Fatalf("expected cached entry for %s", id)
		}
	}
}

type countingStore struct {
	app.Store
	getCalls int
}

func (s *countingStore) GetTest(ctx context.Context, id string) (domain.Test, error) {
	s.getCalls++
	return s.Store.GetTest(ctx, id)
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.AddTest(domain.Test{
		ID:    "t1",
		Title: "Test di Matematica Base",
		Questions: []domain.Question{
			{
				Text:               "Quanto fa 5 + 3?",
				Answers:            []domain.Answer{{Text: "7"}, {Text: "8"}},
				CorrectAnswerIndex: 1,
			},
		},
	})
	return store
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
