// Package detailcache holds session detail payloads fetched on demand, keyed
// by provider, session id and detail mode. Concurrent requests for one key
// share a single fetch, and fetches belonging to an abandoned scope never
// commit.
package detailcache

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"agentdev/internal/logging"
	"agentdev/internal/types"
)

const defaultScope = "default"

type Fetcher interface {
	FetchSessionDetail(ctx context.Context, provider, sessionID string, mode types.DetailMode) (*types.SessionDetailResponse, error)
}

type FetcherFunc func(ctx context.Context, provider, sessionID string, mode types.DetailMode) (*types.SessionDetailResponse, error)

func (f FetcherFunc) FetchSessionDetail(ctx context.Context, provider, sessionID string, mode types.DetailMode) (*types.SessionDetailResponse, error) {
	return f(ctx, provider, sessionID, mode)
}

type Key struct {
	Provider  string
	SessionID string
	Mode      types.DetailMode
}

func KeyFor(summary types.SessionSummary, mode types.DetailMode) Key {
	return Key{Provider: summary.Provider, SessionID: summary.SessionID, Mode: mode}
}

func (k Key) String() string {
	return types.SessionKey(k.Provider, k.SessionID) + "@" + string(k.Mode)
}

type Status int

const (
	StatusAbsent Status = iota
	StatusPending
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return "absent"
	}
}

// Snapshot is the committed state of one key. A forced refetch keeps the
// previous response visible while it is pending.
type Snapshot struct {
	Status   Status
	Response *types.SessionDetailResponse
	Err      string
}

type entry struct {
	status   Status
	response *types.SessionDetailResponse
	err      string

	token  string
	owners map[string]struct{}
	cancel context.CancelFunc
	prev   Snapshot
}

func (e *entry) snapshot() Snapshot {
	return Snapshot{Status: e.status, Response: e.response, Err: e.err}
}

type Option func(*Cache)

func WithLogger(logger logging.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithBaseContext sets the parent of every fetch context.
func WithBaseContext(ctx context.Context) Option {
	return func(c *Cache) {
		if ctx != nil {
			c.base = ctx
		}
	}
}

type Cache struct {
	fetcher Fetcher
	logger  logging.Logger
	base    context.Context

	mu          sync.Mutex
	entries     map[Key]*entry
	subscribers map[int]func(Key)
	nextSubID   int
	closed      bool

	wg sync.WaitGroup
}

func New(fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetcher:     fetcher,
		logger:      logging.Nop(),
		base:        context.Background(),
		entries:     map[Key]*entry{},
		subscribers: map[int]func(Key){},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// RequestDetail starts a fetch for key unless one is pending or a response is
// already ready; forced skips that check and supersedes any pending fetch.
// A request that joins a pending fetch adds scopeName to its owners.
// It reports whether a fetch was started.
func (c *Cache) RequestDetail(scopeName string, key Key, forced bool) bool {
	if c == nil || c.fetcher == nil {
		return false
	}
	scopeName = normalizeScope(scopeName)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	current := c.entries[key]
	if current != nil && !forced {
		switch current.status {
		case StatusPending:
			current.owners[scopeName] = struct{}{}
			c.mu.Unlock()
			return false
		case StatusReady:
			c.mu.Unlock()
			return false
		}
	}
	prev := Snapshot{}
	owners := map[string]struct{}{scopeName: {}}
	if current != nil {
		if current.status == StatusPending {
			// Superseded: keep the state from before the first request and
			// every scope still waiting on it.
			prev = current.prev
			for name := range current.owners {
				owners[name] = struct{}{}
			}
			current.cancel()
		} else {
			prev = current.snapshot()
		}
	}
	ctx, cancel := context.WithCancel(c.base)
	token := uuid.NewString()
	next := &entry{
		status: StatusPending,
		token:  token,
		owners: owners,
		cancel: cancel,
		prev:   prev,
	}
	if prev.Status == StatusReady {
		next.response = prev.Response
	}
	c.entries[key] = next
	c.wg.Add(1)
	c.mu.Unlock()

	c.logger.Debug("detail_fetch_start",
		logging.F("key", key.String()),
		logging.F("scope", scopeName),
		logging.F("forced", forced),
	)
	c.notify(key)
	go c.run(ctx, key, token)
	return true
}

func (c *Cache) run(ctx context.Context, key Key, token string) {
	defer c.wg.Done()
	resp, err := c.fetcher.FetchSessionDetail(ctx, key.Provider, key.SessionID, key.Mode)
	c.commit(key, token, resp, err)
}

func (c *Cache) commit(key Key, token string, resp *types.SessionDetailResponse, err error) {
	c.mu.Lock()
	current := c.entries[key]
	if current == nil || current.status != StatusPending || current.token != token {
		c.mu.Unlock()
		c.logger.Debug("detail_fetch_discarded", logging.F("key", key.String()))
		return
	}
	current.cancel()
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		c.restoreLocked(key, current)
	case err != nil:
		c.entries[key] = &entry{status: StatusError, err: errorMessage(err)}
	case resp == nil:
		c.entries[key] = &entry{status: StatusError, err: "empty session detail response"}
	default:
		c.entries[key] = &entry{status: StatusReady, response: resp}
	}
	c.mu.Unlock()

	if err != nil && !errors.Is(err, context.Canceled) {
		c.logger.Warn("detail_fetch_failed", logging.F("key", key.String()), logging.F("error", err))
	} else {
		c.logger.Debug("detail_fetch_committed", logging.F("key", key.String()))
	}
	c.notify(key)
}

// restoreLocked puts a pending entry back to its pre-request state.
func (c *Cache) restoreLocked(key Key, current *entry) {
	prev := current.prev
	if prev.Status == StatusAbsent {
		delete(c.entries, key)
		return
	}
	c.entries[key] = &entry{status: prev.Status, response: prev.Response, err: prev.Err}
}

func errorMessage(err error) string {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return "request failed"
	}
	return msg
}

// Cancel abandons a pending fetch for key, reverting it to its pre-request
// state.
func (c *Cache) Cancel(key Key) {
	if c == nil {
		return
	}
	c.mu.Lock()
	current := c.entries[key]
	if current == nil || current.status != StatusPending {
		c.mu.Unlock()
		return
	}
	current.cancel()
	c.restoreLocked(key, current)
	c.mu.Unlock()
	c.notify(key)
}

// BeginScope drops name from every pending fetch before the caller issues the
// requests of a new generation under it.
func (c *Cache) BeginScope(name string) {
	c.CancelScope(name)
}

// CancelScope drops name from every pending fetch. A fetch is cancelled and
// reverted only once no scope owns it.
func (c *Cache) CancelScope(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	reverted := c.cancelScopeLocked(normalizeScope(name))
	c.mu.Unlock()
	c.notify(reverted...)
}

func (c *Cache) cancelScopeLocked(name string) []Key {
	var reverted []Key
	for key, current := range c.entries {
		if current.status != StatusPending {
			continue
		}
		if _, ok := current.owners[name]; !ok {
			continue
		}
		delete(current.owners, name)
		if len(current.owners) > 0 {
			continue
		}
		current.cancel()
		c.restoreLocked(key, current)
		reverted = append(reverted, key)
	}
	return reverted
}

func normalizeScope(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultScope
	}
	return name
}

// Close cancels every pending fetch. Later requests are ignored.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	var reverted []Key
	for key, current := range c.entries {
		if current.status != StatusPending {
			continue
		}
		current.cancel()
		c.restoreLocked(key, current)
		reverted = append(reverted, key)
	}
	c.mu.Unlock()
	c.notify(reverted...)
}

// Wait blocks until every started fetch has returned.
func (c *Cache) Wait() {
	if c == nil {
		return
	}
	c.wg.Wait()
}

func (c *Cache) State(key Key) Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	current := c.entries[key]
	if current == nil {
		return Snapshot{}
	}
	return current.snapshot()
}

func (c *Cache) Detail(key Key) *types.SessionDetailResponse {
	return c.State(key).Response
}

func (c *Cache) Error(key Key) string {
	return c.State(key).Err
}

func (c *Cache) IsFetching(key Key) bool {
	return c.State(key).Status == StatusPending
}

// Subscribe registers fn to run after every committed transition. fn runs
// on the goroutine that made the change and must not block.
func (c *Cache) Subscribe(fn func(Key)) func() {
	if c == nil || fn == nil {
		return func() {}
	}
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subscribers, id)
		c.mu.Unlock()
	}
}

func (c *Cache) notify(keys ...Key) {
	if len(keys) == 0 {
		return
	}
	c.mu.Lock()
	subscribers := make([]func(Key), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	c.mu.Unlock()
	for _, key := range keys {
		for _, fn := range subscribers {
			fn(key)
		}
	}
}
