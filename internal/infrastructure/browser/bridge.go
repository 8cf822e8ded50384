// Package browser talks to the extension side of the native messaging
// channel. The extension exposes the browser APIs (tabs, bookmarks, script
// injection) as method calls; Bridge is the client for those calls and
// implements the application ports on top of them.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
)

// FrameWriter sends one outbound frame. Satisfied by *nativemsg.Codec.
type FrameWriter interface {
	Write(v any) error
}

// DefaultCallTimeout bounds a single method call when the caller's context
// carries no earlier deadline.
const DefaultCallTimeout = 10 * time.Second

// Bridge issues method calls to the extension and matches replies by id.
// It also fans out tab load events to interested waiters.
type Bridge struct {
	writer  FrameWriter
	timeout time.Duration
	nextID  atomic.Int64

	mu      sync.Mutex
	pending map[int64]chan callReply

	loadMu   sync.Mutex
	loadSubs map[entity.TabID][]chan struct{}
}

type callReply struct {
	result json.RawMessage
	err    string
}

// methodCall is the outbound frame shape for a browser API invocation.
type methodCall struct {
	ID     int64  `json:"id"`
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}

// NewBridge creates a bridge over the given writer. timeout <= 0 selects
// DefaultCallTimeout.
func NewBridge(writer FrameWriter, timeout time.Duration) *Bridge {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Bridge{
		writer:   writer,
		timeout:  timeout,
		pending:  make(map[int64]chan callReply),
		loadSubs: make(map[entity.TabID][]chan struct{}),
	}
}

// call invokes method on the extension and decodes the result into out,
// which may be nil when the method returns nothing useful.
func (b *Bridge) call(ctx context.Context, method string, params, out any) error {
	id := b.nextID.Add(1)
	ch := make(chan callReply, 1)

	b.mu.Lock()
	b.pending[id] = ch
	b.mu.Unlock()
	defer func() {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
	}()

	if err := b.writer.Write(methodCall{ID: id, Method: method, Params: params}); err != nil {
		return fmt.Errorf("send %s call: %w", method, err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	select {
	case reply := <-ch:
		if reply.err != "" {
			return fmt.Errorf("%s: %s", method, reply.err)
		}
		if out == nil || len(reply.result) == 0 {
			return nil
		}
		if err := json.Unmarshal(reply.result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", method, ctx.Err())
	}
}

// Resolve completes a pending call. It reports false when no call with
// that id is waiting, which happens after a timeout already gave up.
func (b *Bridge) Resolve(id int64, result json.RawMessage, callErr string) bool {
	b.mu.Lock()
	ch, ok := b.pending[id]
	b.mu.Unlock()
	if !ok {
		return false
	}
	ch <- callReply{result: result, err: callErr}
	return true
}

// Query implements port.TabDirectory.
func (b *Bridge) Query(ctx context.Context, query port.TabQuery) ([]entity.Tab, error) {
	var tabs []entity.Tab
	if err := b.call(ctx, "tabs.query", query, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

// Get implements port.TabDirectory.
func (b *Bridge) Get(ctx context.Context, id entity.TabID) (*entity.Tab, error) {
	var tab entity.Tab
	if err := b.call(ctx, "tabs.get", map[string]any{"tabId": id}, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

// Navigate implements port.TabDirectory.
func (b *Bridge) Navigate(ctx context.Context, id entity.TabID, url string) error {
	return b.call(ctx, "tabs.update", map[string]any{"tabId": id, "url": url}, nil)
}

// Create implements port.TabDirectory.
func (b *Bridge) Create(ctx context.Context, url string, active bool) (*entity.Tab, error) {
	var tab entity.Tab
	if err := b.call(ctx, "tabs.create", map[string]any{"url": url, "active": active}, &tab); err != nil {
		return nil, err
	}
	return &tab, nil
}

// Tree implements port.BookmarkDirectory.
func (b *Bridge) Tree(ctx context.Context) ([]*entity.BookmarkNode, error) {
	var roots []*entity.BookmarkNode
	if err := b.call(ctx, "bookmarks.getTree", nil, &roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// Children implements port.BookmarkDirectory.
func (b *Bridge) Children(ctx context.Context, id entity.BookmarkID) ([]*entity.BookmarkNode, error) {
	var children []*entity.BookmarkNode
	if err := b.call(ctx, "bookmarks.getChildren", map[string]any{"id": id}, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// CreateFolder implements port.BookmarkDirectory. The extension side maps
// this onto bookmarks.create with no url.
func (b *Bridge) CreateFolder(ctx context.Context, parent entity.BookmarkID, title string) (*entity.BookmarkNode, error) {
	var node entity.BookmarkNode
	params := map[string]any{"parentId": parent, "title": title}
	if err := b.call(ctx, "bookmarks.create", params, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// CreateBookmark implements port.BookmarkDirectory.
func (b *Bridge) CreateBookmark(ctx context.Context, parent entity.BookmarkID, title, url string) (*entity.BookmarkNode, error) {
	var node entity.BookmarkNode
	params := map[string]any{"parentId": parent, "title": title, "url": url}
	if err := b.call(ctx, "bookmarks.create", params, &node); err != nil {
		return nil, err
	}
	return &node, nil
}

// Remove implements port.BookmarkDirectory.
func (b *Bridge) Remove(ctx context.Context, id entity.BookmarkID) error {
	return b.call(ctx, "bookmarks.remove", map[string]any{"id": id}, nil)
}

// CaptureScroll implements port.ScriptInjector.
func (b *Bridge) CaptureScroll(ctx context.Context, id entity.TabID) (port.ScrollOffset, error) {
	var offset port.ScrollOffset
	if err := b.call(ctx, "scripting.captureScroll", map[string]any{"tabId": id}, &offset); err != nil {
		return port.ScrollOffset{}, err
	}
	return offset, nil
}

// RestoreScroll implements port.ScriptInjector.
func (b *Bridge) RestoreScroll(ctx context.Context, id entity.TabID, offset port.ScrollOffset) error {
	params := map[string]any{"tabId": id, "x": offset.X, "y": offset.Y}
	return b.call(ctx, "scripting.restoreScroll", params, nil)
}

// PlaceholderBase implements port.Runtime. The extension resolves its own
// placeholder page URL, which embeds the per-install extension id.
func (b *Bridge) PlaceholderBase(ctx context.Context) (string, error) {
	var base string
	if err := b.call(ctx, "runtime.getURL", map[string]any{"path": entity.PlaceholderPath}, &base); err != nil {
		return "", err
	}
	return base, nil
}

// SubscribeLoaded implements port.TabEvents. The returned channel fires at
// most once; cancel releases the subscription either way.
func (b *Bridge) SubscribeLoaded(id entity.TabID) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	b.loadMu.Lock()
	b.loadSubs[id] = append(b.loadSubs[id], ch)
	b.loadMu.Unlock()

	cancel := func() {
		b.loadMu.Lock()
		defer b.loadMu.Unlock()
		subs := b.loadSubs[id]
		for i, sub := range subs {
			if sub == ch {
				b.loadSubs[id] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(b.loadSubs[id]) == 0 {
			delete(b.loadSubs, id)
		}
	}
	return ch, cancel
}

// FireLoaded wakes every waiter for the tab and drops the subscriptions.
func (b *Bridge) FireLoaded(id entity.TabID) {
	b.loadMu.Lock()
	subs := b.loadSubs[id]
	delete(b.loadSubs, id)
	b.loadMu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

var (
	_ port.TabDirectory      = (*Bridge)(nil)
	_ port.BookmarkDirectory = (*Bridge)(nil)
	_ port.ScriptInjector    = (*Bridge)(nil)
	_ port.TabEvents         = (*Bridge)(nil)
	_ port.Runtime           = (*Bridge)(nil)
)
