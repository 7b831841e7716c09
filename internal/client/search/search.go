package search

import (
	"context"
	"sync"
	"time"

	"github.com/vmorozov/customer-hub/internal/client/api"
)

const DefaultDebounce = 500 * time.Millisecond

// FetchFunc loads one page of customers for a search query.
type FetchFunc func(ctx context.Context, query string, page int) (api.CustomerPage, error)

// Result is a page that survived the sequencing check and may be applied to
// visible state.
type Result struct {
	Page   api.CustomerPage
	Query  string
	PageNo int
}

// Controller drives debounced search and immediate pagination over a fetch
// function. Each dispatched query gets a monotonically increasing sequence
// number; a response is dropped unless it belongs to the newest dispatched
// query, so a superseded request can never overwrite newer results.
type Controller struct {
	fetch    FetchFunc
	onResult func(Result)
	onError  func(error)
	debounce time.Duration

	mu       sync.Mutex
	query    string
	page     int
	seq      uint64
	timer    *time.Timer
	inflight context.CancelFunc
	closed   bool
	wg       sync.WaitGroup

	// applyMu serializes the staleness check with the callback that
	// follows it. Without it a response could pass the check, lose the
	// scheduler, and apply after a newer response already had.
	applyMu sync.Mutex
}

func NewController(fetch FetchFunc, onResult func(Result), onError func(error), debounce time.Duration) *Controller {
	if onResult == nil {
		onResult = func(Result) {}
	}
	if onError == nil {
		onError = func(error) {}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Controller{
		fetch:    fetch,
		onResult: onResult,
		onError:  onError,
		debounce: debounce,
		page:     1,
	}
}

// SetQuery registers a search-text change: the page resets to 1 and the
// query dispatches after the debounce window. Another change before the
// window elapses restarts it.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || query == c.query {
		return
	}

	c.query = query
	c.page = 1

	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.dispatchLocked()
	})
}

// SetPage jumps to a page immediately, with the current query. A pending
// debounced dispatch is cancelled since the jump already carries the text.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.page = page
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.dispatchLocked()
}

// Refresh re-runs the current query and page immediately.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.dispatchLocked()
}

// Close cancels the pending debounce timer and any in-flight request, and
// waits for the worker to drain. No callbacks fire after Close returns.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.inflight != nil {
		c.inflight()
		c.inflight = nil
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) dispatchLocked() {
	if c.closed {
		return
	}

	if c.inflight != nil {
		c.inflight()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.inflight = cancel

	c.seq++
	seq := c.seq
	query := c.query
	page := c.page

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()

		result, err := c.fetch(ctx, query, page)

		c.applyMu.Lock()
		defer c.applyMu.Unlock()

		c.mu.Lock()
		stale := c.closed || seq != c.seq
		c.mu.Unlock()
		if stale || ctx.Err() != nil {
			return
		}

		if err != nil {
			c.onError(err)
			return
		}
		c.onResult(Result{Page: result, Query: query, PageNo: page})
	}()
}
