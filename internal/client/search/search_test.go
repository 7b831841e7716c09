package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/vmorozov/customer-hub/internal/client/api"
)

type call struct {
	query string
	page  int
}

type resultCollector struct {
	mu      sync.Mutex
	results []Result
	errs    []error
}

func (c *resultCollector) onResult(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *resultCollector) onError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, err)
}

func (c *resultCollector) snapshot() ([]Result, []error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Result(nil), c.results...), append([]error(nil), c.errs...)
}

func pageFor(query string, page int) api.CustomerPage {
	return api.CustomerPage{
		Pagination: api.Pagination{CurrentPage: page},
		Customers:  []api.Customer{{Name: query}},
	}
}

func TestController_DebouncesQueryChanges(t *testing.T) {
	var mu sync.Mutex
	var calls []call
	fetched := make(chan struct{}, 10)

	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		mu.Lock()
		calls = append(calls, call{query, page})
		mu.Unlock()
		fetched <- struct{}{}
		return pageFor(query, page), nil
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 30*time.Millisecond)
	defer controller.Close()

	controller.SetQuery("a")
	controller.SetQuery("ac")
	controller.SetQuery("acme")

	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced fetch never fired")
	}
	// Give a superseded timer the chance to misfire.
	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("expected exactly one fetch, got %d: %v", len(calls), calls)
	}
	if calls[0].query != "acme" || calls[0].page != 1 {
		t.Errorf("expected final text on page 1, got %+v", calls[0])
	}
}

func TestController_QueryChangeResetsPage(t *testing.T) {
	var mu sync.Mutex
	var calls []call
	fetched := make(chan struct{}, 10)

	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		mu.Lock()
		calls = append(calls, call{query, page})
		mu.Unlock()
		fetched <- struct{}{}
		return pageFor(query, page), nil
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 10*time.Millisecond)
	defer controller.Close()

	controller.SetPage(3)
	<-fetched

	controller.SetQuery("acme")
	<-fetched

	mu.Lock()
	defer mu.Unlock()
	last := calls[len(calls)-1]
	if last.page != 1 || last.query != "acme" {
		t.Errorf("expected new search on page 1, got %+v", last)
	}
}

func TestController_PageChangeIsImmediate(t *testing.T) {
	fetched := make(chan call, 1)
	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		fetched <- call{query, page}
		return pageFor(query, page), nil
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 10*time.Second)
	defer controller.Close()

	controller.SetPage(2)

	select {
	case got := <-fetched:
		if got.page != 2 {
			t.Errorf("expected page 2, got %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("page change should dispatch without the debounce delay")
	}
}

func TestController_DiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{}, 2)

	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		defer func() { done <- struct{}{} }()
		if page == 1 {
			// Simulate a slow response that lands after a newer request
			// already resolved.
			<-release
		}
		return pageFor(query, page), nil
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 10*time.Millisecond)
	defer controller.Close()

	controller.SetPage(1)
	time.Sleep(20 * time.Millisecond)
	controller.SetPage(2)
	<-done

	close(release)
	<-done

	results, errs := collector.snapshot()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if len(results) != 1 {
		t.Fatalf("expected one applied result, got %d", len(results))
	}
	if results[0].PageNo != 2 {
		t.Errorf("expected the newer page to win, got %+v", results[0])
	}
}

func TestController_ReportsErrors(t *testing.T) {
	fetchErr := &api.Error{Kind: api.KindServer, StatusCode: 500, Message: "Internal server error"}
	fetched := make(chan struct{}, 1)

	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		defer func() { fetched <- struct{}{} }()
		return api.CustomerPage{}, fetchErr
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 10*time.Millisecond)
	defer controller.Close()

	controller.SetPage(1)
	<-fetched
	time.Sleep(20 * time.Millisecond)

	_, errs := collector.snapshot()
	if len(errs) != 1 || errs[0] != fetchErr {
		t.Errorf("expected the fetch error to surface, got %v", errs)
	}
}

func TestController_CloseCancelsPendingTimer(t *testing.T) {
	var mu sync.Mutex
	calls := 0

	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return pageFor(query, page), nil
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 20*time.Millisecond)

	controller.SetQuery("acme")
	controller.Close()

	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("expected no fetch after Close, got %d", calls)
	}

	// Inputs after Close are ignored.
	controller.SetPage(2)
	controller.SetQuery("other")
}

func TestController_CloseCancelsInflightContext(t *testing.T) {
	started := make(chan struct{})
	observedCancel := make(chan error, 1)

	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		close(started)
		<-ctx.Done()
		observedCancel <- ctx.Err()
		return api.CustomerPage{}, ctx.Err()
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 10*time.Millisecond)

	controller.SetPage(1)
	<-started
	controller.Close()

	select {
	case err := <-observedCancel:
		if err == nil {
			t.Error("expected context cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("in-flight request was not cancelled")
	}

	results, errs := collector.snapshot()
	if len(results) != 0 || len(errs) != 0 {
		t.Errorf("expected no callbacks after Close, got %v %v", results, errs)
	}
}

func TestController_OutOfOrderCompletionsApplyNewestOnly(t *testing.T) {
	releases := map[int]chan struct{}{
		1: make(chan struct{}),
		2: make(chan struct{}),
		3: make(chan struct{}),
	}
	done := make(chan struct{}, 3)

	fetch := func(ctx context.Context, query string, page int) (api.CustomerPage, error) {
		defer func() { done <- struct{}{} }()
		<-releases[page]
		return pageFor(query, page), nil
	}

	collector := &resultCollector{}
	controller := NewController(fetch, collector.onResult, collector.onError, 10*time.Millisecond)
	defer controller.Close()

	controller.SetPage(1)
	controller.SetPage(2)
	controller.SetPage(3)

	// Resolve in inverted order: the newest request lands first, the
	// superseded ones afterwards.
	close(releases[3])
	<-done
	close(releases[2])
	<-done
	close(releases[1])
	<-done

	results, errs := collector.snapshot()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors %v", errs)
	}
	if len(results) != 1 {
		t.Fatalf("expected exactly one applied result, got %d", len(results))
	}
	if results[0].PageNo != 3 {
		t.Errorf("expected the newest page to be the applied one, got %+v", results[0])
	}
}
