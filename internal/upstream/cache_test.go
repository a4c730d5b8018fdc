package upstream

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCache_ServesWithinTTL(t *testing.T) {
	now := time.Now()
	c := newQueryCache("citas", 15*time.Second, nil)
	c.now = func() time.Time { return now }

	fetches := 0
	fetch := func() ([]int, error) {
		fetches++
		return []int{1, 2, 3}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := cached(c, "all", fetch)
		if err != nil {
			t.Fatalf("cached: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("unexpected value %v", got)
		}
	}
	if fetches != 1 {
		t.Fatalf("expected 1 fetch within TTL, got %d", fetches)
	}
}

func TestCache_ExpiresAfterTTL(t *testing.T) {
	now := time.Now()
	c := newQueryCache("citas", 15*time.Second, nil)
	c.now = func() time.Time { return now }

	fetches := 0
	fetch := func() (string, error) {
		fetches++
		return "v", nil
	}

	if _, err := cached(c, "all", fetch); err != nil {
		t.Fatalf("cached: %v", err)
	}
	now = now.Add(16 * time.Second)
	if _, err := cached(c, "all", fetch); err != nil {
		t.Fatalf("cached: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("expected refetch after TTL, got %d fetches", fetches)
	}
}

func TestCache_KeysAreIndependent(t *testing.T) {
	c := newQueryCache("citas", 15*time.Second, nil)

	fetches := 0
	fetch := func() (int, error) {
		fetches++
		return fetches, nil
	}

	if _, err := cached(c, "all", fetch); err != nil {
		t.Fatalf("cached: %v", err)
	}
	if _, err := cached(c, "id-3", fetch); err != nil {
		t.Fatalf("cached: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("distinct keys must fetch separately, got %d", fetches)
	}
}

func TestCache_InvalidateDropsEverything(t *testing.T) {
	c := newQueryCache("citas", 15*time.Second, nil)

	fetches := 0
	fetch := func() (int, error) {
		fetches++
		return fetches, nil
	}

	_, _ = cached(c, "all", fetch)
	_, _ = cached(c, "id-3", fetch)
	c.invalidate()
	_, _ = cached(c, "all", fetch)
	_, _ = cached(c, "id-3", fetch)

	if fetches != 4 {
		t.Fatalf("invalidate must drop every key, got %d fetches", fetches)
	}
}

func TestCache_ErrorsAreNeverStored(t *testing.T) {
	c := newQueryCache("citas", 15*time.Second, nil)

	fetches := 0
	fail := errors.New("backend down")
	fetch := func() (int, error) {
		fetches++
		if fetches == 1 {
			return 0, fail
		}
		return 42, nil
	}

	if _, err := cached(c, "all", fetch); !errors.Is(err, fail) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	got, err := cached(c, "all", fetch)
	if err != nil || got != 42 {
		t.Fatalf("second read must refetch, got %d, %v", got, err)
	}
}

func TestCache_InvalidateDuringInflightFetchIsNotLost(t *testing.T) {
	c := newQueryCache("citas", 15*time.Second, nil)

	var fetches atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func() (string, error) {
		if fetches.Add(1) == 1 {
			close(started)
			<-release
			return "before-mutation", nil
		}
		return "after-mutation", nil
	}

	done := make(chan string)
	go func() {
		v, err := cached(c, "all", fetch)
		if err != nil {
			t.Errorf("cached: %v", err)
		}
		done <- v
	}()

	// Mutation lands while the first fetch is still on the wire.
	<-started
	c.invalidate()
	close(release)
	if v := <-done; v != "before-mutation" {
		t.Fatalf("in-flight read got %q", v)
	}

	// The pre-mutation result must not have been stored.
	got, err := cached(c, "all", fetch)
	if err != nil {
		t.Fatalf("cached: %v", err)
	}
	if got != "after-mutation" {
		t.Fatalf("post-invalidation read served %q", got)
	}
	if n := fetches.Load(); n != 2 {
		t.Fatalf("expected a fresh fetch after invalidation, got %d fetches", n)
	}
}

func TestCache_ConcurrentReadsCollapse(t *testing.T) {
	c := newQueryCache("citas", 15*time.Second, nil)

	var fetches atomic.Int64
	release := make(chan struct{})
	fetch := func() (int, error) {
		fetches.Add(1)
		<-release
		return 7, nil
	}

	const readers = 16
	var wg sync.WaitGroup
	results := make([]int, readers)
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cached(c, "all", fetch)
			if err != nil {
				t.Errorf("cached: %v", err)
			}
			results[i] = v
		}(i)
	}

	// Let all readers pile onto the in-flight fetch before it completes.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := fetches.Load(); got != 1 {
		t.Fatalf("expected one collapsed fetch, got %d", got)
	}
	for i, v := range results {
		if v != 7 {
			t.Fatalf("reader %d got %d", i, v)
		}
	}
}
