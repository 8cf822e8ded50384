package usecase_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/tabsaver/internal/application/port"
	"github.com/bnema/tabsaver/internal/domain/entity"
	"github.com/bnema/tabsaver/internal/logging"
	"github.com/stretchr/testify/mock"
)

func testContext() context.Context {
	logger := logging.NewFromConfigValues("debug", "console")
	return logging.WithContext(context.Background(), logger)
}

// fakeBookmarks is an in-memory bookmark tree implementing
// port.BookmarkDirectory.
type fakeBookmarks struct {
	mu       sync.Mutex
	nodes    map[entity.BookmarkID]*entity.BookmarkNode
	children map[entity.BookmarkID][]entity.BookmarkID
	roots    []entity.BookmarkID
	nextID   int
	clock    int64

	// failCreateAt makes the Nth CreateBookmark call fail (1-based).
	failCreateAt  int
	createCalls   int
	removeErrs    map[entity.BookmarkID]error
	removedOrder  []entity.BookmarkID
	childrenCalls int
}

func newFakeBookmarks() *fakeBookmarks {
	return &fakeBookmarks{
		nodes:      make(map[entity.BookmarkID]*entity.BookmarkNode),
		children:   make(map[entity.BookmarkID][]entity.BookmarkID),
		removeErrs: make(map[entity.BookmarkID]error),
		clock:      1000,
	}
}

func (f *fakeBookmarks) addRoot(title string) entity.BookmarkID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.nodes[id] = &entity.BookmarkNode{ID: id, Title: title}
	f.roots = append(f.roots, id)
	return id
}

func (f *fakeBookmarks) addFolder(parent entity.BookmarkID, title string) entity.BookmarkID {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attach(parent, title, "")
}

func (f *fakeBookmarks) addBookmark(parent entity.BookmarkID, title, url string, dateAdded int64) entity.BookmarkID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.attach(parent, title, url)
	f.nodes[id].DateAdded = dateAdded
	return id
}

func (f *fakeBookmarks) attach(parent entity.BookmarkID, title, url string) entity.BookmarkID {
	id := f.newID()
	f.clock++
	f.nodes[id] = &entity.BookmarkNode{ID: id, ParentID: parent, Title: title, URL: url, DateAdded: f.clock}
	f.children[parent] = append(f.children[parent], id)
	return id
}

func (f *fakeBookmarks) newID() entity.BookmarkID {
	f.nextID++
	return entity.BookmarkID(fmt.Sprintf("bm-%d", f.nextID))
}

func (f *fakeBookmarks) Tree(_ context.Context) ([]*entity.BookmarkNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.BookmarkNode
	for _, id := range f.roots {
		out = append(out, f.materialize(id))
	}
	return out, nil
}

func (f *fakeBookmarks) materialize(id entity.BookmarkID) *entity.BookmarkNode {
	node := *f.nodes[id]
	node.Children = nil
	for _, childID := range f.children[id] {
		node.Children = append(node.Children, f.materialize(childID))
	}
	return &node
}

func (f *fakeBookmarks) Children(_ context.Context, id entity.BookmarkID) ([]*entity.BookmarkNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.childrenCalls++
	if _, ok := f.nodes[id]; !ok {
		return nil, fmt.Errorf("node %s not found", id)
	}
	var out []*entity.BookmarkNode
	for _, childID := range f.children[id] {
		node := *f.nodes[childID]
		node.Children = nil
		out = append(out, &node)
	}
	return out, nil
}

func (f *fakeBookmarks) CreateFolder(_ context.Context, parent entity.BookmarkID, title string) (*entity.BookmarkNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.nodes[parent]; !ok {
		return nil, fmt.Errorf("parent %s not found", parent)
	}
	id := f.attach(parent, title, "")
	node := *f.nodes[id]
	return &node, nil
}

func (f *fakeBookmarks) CreateBookmark(_ context.Context, parent entity.BookmarkID, title, url string) (*entity.BookmarkNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.failCreateAt != 0 && f.createCalls == f.failCreateAt {
		return nil, fmt.Errorf("bookmark creation rejected by host")
	}
	if _, ok := f.nodes[parent]; !ok {
		return nil, fmt.Errorf("parent %s not found", parent)
	}
	id := f.attach(parent, title, url)
	node := *f.nodes[id]
	return &node, nil
}

func (f *fakeBookmarks) Remove(_ context.Context, id entity.BookmarkID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.removeErrs[id]; err != nil {
		return err
	}
	node, ok := f.nodes[id]
	if !ok {
		return fmt.Errorf("node %s not found", id)
	}
	siblings := f.children[node.ParentID]
	for i, sibling := range siblings {
		if sibling == id {
			f.children[node.ParentID] = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	delete(f.nodes, id)
	delete(f.children, id)
	f.removedOrder = append(f.removedOrder, id)
	return nil
}

// urlsIn lists bookmark URLs under a folder, for invariant checks.
func (f *fakeBookmarks) urlsIn(id entity.BookmarkID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var urls []string
	for _, childID := range f.children[id] {
		if u := f.nodes[childID].URL; u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// fakeTabs implements port.TabDirectory over a map.
type fakeTabs struct {
	mu           sync.Mutex
	tabs         map[entity.TabID]*entity.Tab
	navigateErrs map[entity.TabID]error
	navigated    []navigation
	created      []string
	createErr    error
}

type navigation struct {
	id  entity.TabID
	url string
}

func newFakeTabs(tabs ...entity.Tab) *fakeTabs {
	f := &fakeTabs{
		tabs:         make(map[entity.TabID]*entity.Tab),
		navigateErrs: make(map[entity.TabID]error),
	}
	for i := range tabs {
		tab := tabs[i]
		f.tabs[tab.ID] = &tab
	}
	return f
}

func (f *fakeTabs) Query(_ context.Context, _ port.TabQuery) ([]entity.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Tab
	for _, tab := range f.tabs {
		out = append(out, *tab)
	}
	return out, nil
}

func (f *fakeTabs) Get(_ context.Context, id entity.TabID) (*entity.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tab, ok := f.tabs[id]
	if !ok {
		return nil, fmt.Errorf("no tab with id %d", id)
	}
	clone := *tab
	return &clone, nil
}

func (f *fakeTabs) Navigate(_ context.Context, id entity.TabID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.navigateErrs[id]; err != nil {
		return err
	}
	if tab, ok := f.tabs[id]; ok {
		tab.URL = url
	}
	f.navigated = append(f.navigated, navigation{id: id, url: url})
	return nil
}

func (f *fakeTabs) Create(_ context.Context, url string, _ bool) (*entity.Tab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, url)
	return &entity.Tab{ID: entity.TabID(1000 + len(f.created)), URL: url}, nil
}

func (f *fakeTabs) navigations() []navigation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]navigation(nil), f.navigated...)
}

// mockScriptInjector is a testify/mock double for port.ScriptInjector.
type mockScriptInjector struct {
	mock.Mock
}

func (m *mockScriptInjector) CaptureScroll(ctx context.Context, id entity.TabID) (port.ScrollOffset, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(port.ScrollOffset), args.Error(1)
}

func (m *mockScriptInjector) RestoreScroll(ctx context.Context, id entity.TabID, offset port.ScrollOffset) error {
	args := m.Called(ctx, id, offset)
	return args.Error(0)
}

// fakeScript is a plain in-memory port.ScriptInjector.
type fakeScript struct {
	mu         sync.Mutex
	offsets    map[entity.TabID]port.ScrollOffset
	captureErr error
	restoreErr error
	restored   []restoredScroll
}

type restoredScroll struct {
	id     entity.TabID
	offset port.ScrollOffset
}

func newFakeScript() *fakeScript {
	return &fakeScript{offsets: make(map[entity.TabID]port.ScrollOffset)}
}

func (f *fakeScript) CaptureScroll(_ context.Context, id entity.TabID) (port.ScrollOffset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.captureErr != nil {
		return port.ScrollOffset{}, f.captureErr
	}
	return f.offsets[id], nil
}

func (f *fakeScript) RestoreScroll(_ context.Context, id entity.TabID, offset port.ScrollOffset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.restoreErr != nil {
		return f.restoreErr
	}
	f.restored = append(f.restored, restoredScroll{id: id, offset: offset})
	return nil
}

func (f *fakeScript) restoredScrolls() []restoredScroll {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]restoredScroll(nil), f.restored...)
}

// fakeEvents implements port.TabEvents with manual event firing.
type fakeEvents struct {
	mu   sync.Mutex
	subs map[entity.TabID][]chan struct{}
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{subs: make(map[entity.TabID][]chan struct{})}
}

func (f *fakeEvents) SubscribeLoaded(id entity.TabID) (<-chan struct{}, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{}, 1)
	f.subs[id] = append(f.subs[id], ch)
	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		subs := f.subs[id]
		for i, sub := range subs {
			if sub == ch {
				f.subs[id] = append(subs[:i], subs[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

func (f *fakeEvents) fireLoaded(id entity.TabID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subs[id] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// fakeRuntime implements port.Runtime with a fixed base URL.
type fakeRuntime struct {
	base string
	err  error
}

func (f *fakeRuntime) PlaceholderBase(_ context.Context) (string, error) {
	return f.base, f.err
}

// memStates is an in-memory repository.FrozenStateRepository.
type memStates struct {
	mu     sync.Mutex
	states map[entity.TabID]*entity.FrozenTabState
	putErr error
	getErr error
}

func newMemStates() *memStates {
	return &memStates{states: make(map[entity.TabID]*entity.FrozenTabState)}
}

func (m *memStates) All(_ context.Context) (map[entity.TabID]*entity.FrozenTabState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[entity.TabID]*entity.FrozenTabState, len(m.states))
	for id, state := range m.states {
		clone := *state
		out[id] = &clone
	}
	return out, nil
}

func (m *memStates) Get(_ context.Context, id entity.TabID) (*entity.FrozenTabState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	state, ok := m.states[id]
	if !ok {
		return nil, nil
	}
	clone := *state
	return &clone, nil
}

func (m *memStates) Put(_ context.Context, state *entity.FrozenTabState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	clone := *state
	m.states[state.TabID] = &clone
	return nil
}

func (m *memStates) Delete(_ context.Context, id entity.TabID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, id)
	return nil
}

func (m *memStates) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states = make(map[entity.TabID]*entity.FrozenTabState)
	return nil
}

func (m *memStates) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.states)
}

// memSavings is an in-memory repository.SavingsRepository.
type memSavings struct {
	mu      sync.Mutex
	history *entity.SavingsHistory
	loadErr error
	saveErr error
}

func (m *memSavings) Load(_ context.Context) (*entity.SavingsHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.history == nil {
		return nil, nil
	}
	clone := *m.history
	clone.Records = append([]entity.SavingsRecord(nil), m.history.Records...)
	return &clone, nil
}

func (m *memSavings) Save(_ context.Context, history *entity.SavingsHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	clone := *history
	clone.Records = append([]entity.SavingsRecord(nil), history.Records...)
	m.history = &clone
	return nil
}

func (m *memSavings) stored() *entity.SavingsHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history
}
