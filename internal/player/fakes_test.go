package player

import (
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/rs/zerolog"

	"github.com/bnema/mpvkit/internal/host"
	"github.com/bnema/mpvkit/pkg/glctx"
	"github.com/bnema/mpvkit/pkg/mpv"
)

// orderLog records teardown steps so tests can assert destruction order.
type orderLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *orderLog) add(step string) {
	l.mu.Lock()
	l.entries = append(l.entries, step)
	l.mu.Unlock()
}

func (l *orderLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

type fakeWindow struct {
	label         string
	handle        host.RawHandle
	handleErr     error
	width, height int

	mu     sync.Mutex
	resize func(int, int)
}

func (w *fakeWindow) Label() string { return w.label }

func (w *fakeWindow) Handle() (host.RawHandle, error) {
	if w.handleErr != nil {
		return host.RawHandle{}, w.handleErr
	}
	return w.handle, nil
}

func (w *fakeWindow) InnerSize() (int, int) { return w.width, w.height }

func (w *fakeWindow) OnResize(fn func(int, int)) func() {
	w.mu.Lock()
	w.resize = fn
	w.mu.Unlock()
	return func() {
		w.mu.Lock()
		w.resize = nil
		w.mu.Unlock()
	}
}

func (w *fakeWindow) triggerResize(width, height int) {
	w.mu.Lock()
	fn := w.resize
	w.mu.Unlock()
	if fn != nil {
		fn(width, height)
	}
}

type fakeWindows map[string]host.Window

func (f fakeWindows) Get(label string) (host.Window, bool) {
	w, ok := f[label]
	return w, ok
}

type fakeBus struct {
	mu     sync.Mutex
	events map[string][]*mpv.Event
}

func newFakeBus() *fakeBus {
	return &fakeBus{events: make(map[string][]*mpv.Event)}
}

func (b *fakeBus) Emit(channel string, payload any) error {
	ev := payload.(*mpv.Event)
	b.mu.Lock()
	b.events[channel] = append(b.events[channel], ev)
	b.mu.Unlock()
	return nil
}

func (b *fakeBus) emitted(channel string) []*mpv.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*mpv.Event(nil), b.events[channel]...)
}

type fakeClient struct {
	engine *fakeEngine
	name   string
	events chan *mpv.Event

	wakeup atomic.Value // func()

	waitOnce  sync.Once
	firstWait chan struct{}
	closed    atomic.Bool
}

func newFakeClient(e *fakeEngine, name string) *fakeClient {
	return &fakeClient{
		engine:    e,
		name:      name,
		events:    make(chan *mpv.Event, 128),
		firstWait: make(chan struct{}),
	}
}

func (c *fakeClient) push(ev *mpv.Event) {
	select {
	case c.events <- ev:
	default:
	}
	if fn, ok := c.wakeup.Load().(func()); ok && fn != nil {
		fn()
	}
}

func (c *fakeClient) Command(name string, args ...string) error {
	return c.engine.Command(name, args...)
}

func (c *fakeClient) GetProperty(name string, format mpv.Format) (mpv.Node, error) {
	return c.engine.GetProperty(name, format)
}

func (c *fakeClient) SetProperty(name string, value mpv.Node) error {
	return c.engine.SetProperty(name, value)
}

func (c *fakeClient) ObserveProperty(name string, format mpv.Format, replyID uint64) error {
	waited := false
	select {
	case <-c.firstWait:
		waited = true
	default:
	}
	c.engine.recordObservation(c, name, format, replyID, waited)
	return nil
}

func (c *fakeClient) WaitEvent(timeout float64) (*mpv.Event, error) {
	c.waitOnce.Do(func() { close(c.firstWait) })
	if timeout == 0 {
		select {
		case ev := <-c.events:
			return ev, nil
		default:
			return nil, nil
		}
	}
	select {
	case ev := <-c.events:
		return ev, nil
	case <-time.After(time.Duration(timeout * float64(time.Second))):
		return nil, nil
	}
}

func (c *fakeClient) SetWakeupCallback(fn func()) { c.wakeup.Store(fn) }

func (c *fakeClient) Close() { c.closed.Store(true) }

type observation struct {
	client  *fakeClient
	Observation
	afterFirstWait bool
}

type fakeEngine struct {
	primary *fakeClient

	mu       sync.Mutex
	opts     []mpv.Option
	clients  []*fakeClient
	commands [][]string
	props    map[string]mpv.Node
	observed []observation
	setErrs  map[string]error

	configFiles   []string
	configFileErr error

	order      *orderLog
	terminated chan struct{}
}

func newFakeEngine(opts []mpv.Option, order *orderLog) *fakeEngine {
	e := &fakeEngine{
		opts:       append([]mpv.Option(nil), opts...),
		props:      make(map[string]mpv.Node),
		setErrs:    make(map[string]error),
		order:      order,
		terminated: make(chan struct{}),
	}
	e.primary = newFakeClient(e, "primary")
	e.clients = []*fakeClient{e.primary}
	return e
}

func (e *fakeEngine) CreateClient(name string) (Client, error) {
	c := newFakeClient(e, name)
	e.mu.Lock()
	e.clients = append(e.clients, c)
	e.mu.Unlock()
	return c, nil
}

func (e *fakeEngine) LoadConfigFile(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.configFileErr != nil {
		return e.configFileErr
	}
	e.configFiles = append(e.configFiles, path)
	return nil
}

func (e *fakeEngine) Command(name string, args ...string) error {
	e.mu.Lock()
	e.commands = append(e.commands, append([]string{name}, args...))
	clients := append([]*fakeClient(nil), e.clients...)
	e.mu.Unlock()
	if name == "quit" {
		for _, c := range clients {
			c.push(&mpv.Event{Name: mpv.EventShutdown})
		}
	}
	return nil
}

func (e *fakeEngine) GetProperty(name string, format mpv.Format) (mpv.Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.props[name]; ok {
		return v, nil
	}
	return mpv.Null(), nil
}

// SetProperty stores the value and notifies every matching observation the
// way the engine would, via a property-change event on the observing client.
func (e *fakeEngine) SetProperty(name string, value mpv.Node) error {
	switch value.Kind {
	case mpv.KindArray, mpv.KindMap, mpv.KindBytes:
		return &mpv.ErrUnsupportedValue{Kind: value.Kind}
	}
	e.mu.Lock()
	if err := e.setErrs[name]; err != nil {
		e.mu.Unlock()
		return err
	}
	e.props[name] = value
	observed := append([]observation(nil), e.observed...)
	e.mu.Unlock()

	for _, obs := range observed {
		if obs.Name != name {
			continue
		}
		obs.client.push(&mpv.Event{
			Name:          mpv.EventPropertyChange,
			ReplyUserdata: obs.ReplyID,
			Property:      &mpv.Property{Name: name, Value: value},
		})
	}
	return nil
}

func (e *fakeEngine) ObserveProperty(name string, format mpv.Format, replyID uint64) error {
	return e.primary.ObserveProperty(name, format, replyID)
}

func (e *fakeEngine) recordObservation(c *fakeClient, name string, format mpv.Format, replyID uint64, afterWait bool) {
	e.mu.Lock()
	e.observed = append(e.observed, observation{
		client:         c,
		Observation:    Observation{Name: name, Format: format, ReplyID: replyID},
		afterFirstWait: afterWait,
	})
	e.mu.Unlock()
}

func (e *fakeEngine) WaitEvent(timeout float64) (*mpv.Event, error) {
	return e.primary.WaitEvent(timeout)
}

func (e *fakeEngine) SetWakeupCallback(fn func()) { e.primary.SetWakeupCallback(fn) }

func (e *fakeEngine) Close() { e.primary.Close() }

func (e *fakeEngine) Terminate() {
	e.order.add("engine")
	close(e.terminated)
}

func (e *fakeEngine) loadedConfigFiles() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.configFiles...)
}

func (e *fakeEngine) commandLog() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]string(nil), e.commands...)
}

func (e *fakeEngine) property(name string) (mpv.Node, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.props[name]
	return v, ok
}

func (e *fakeEngine) client(name string) *fakeClient {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.clients {
		if c.name == name {
			return c
		}
	}
	return nil
}

type fakeGL struct {
	order *orderLog
	swaps atomic.Int64
}

func (g *fakeGL) MakeCurrent() error { return nil }

func (g *fakeGL) SwapBuffers() error {
	g.swaps.Add(1)
	return nil
}

func (g *fakeGL) ProcAddress(name string) unsafe.Pointer { return nil }

func (g *fakeGL) DestroyContext() { g.order.add("gl-context") }
func (g *fakeGL) DestroySurface() { g.order.add("gl-surface") }
func (g *fakeGL) DestroyDisplay() { g.order.add("gl-display") }

type fakeRenderContext struct {
	order   *orderLog
	renders atomic.Int64
}

func (rc *fakeRenderContext) SetUpdateCallback(fn func()) {}

func (rc *fakeRenderContext) Render(fbo, width, height int, flipY bool) error {
	rc.renders.Add(1)
	return nil
}

func (rc *fakeRenderContext) Free() { rc.order.add("render-context") }

// harness bundles a manager wired to fakes.
type harness struct {
	manager *Manager
	bus     *fakeBus
	windows fakeWindows
	order   *orderLog

	mu            sync.Mutex
	engines       []*fakeEngine
	rcs           []*fakeRenderContext
	glErr         error
	configFileErr error
}

func newHarness(windows ...*fakeWindow) *harness {
	h := &harness{
		bus:     newFakeBus(),
		windows: make(fakeWindows),
		order:   &orderLog{},
	}
	for _, w := range windows {
		h.windows[w.label] = w
	}
	deps := Deps{
		NewEngine: func(opts []mpv.Option) (Engine, error) {
			e := newFakeEngine(opts, h.order)
			h.mu.Lock()
			e.configFileErr = h.configFileErr
			h.engines = append(h.engines, e)
			h.mu.Unlock()
			return e, nil
		},
		NewRender: func(c Client, getProc func(string) unsafe.Pointer) (RenderContext, error) {
			rc := &fakeRenderContext{order: h.order}
			h.mu.Lock()
			h.rcs = append(h.rcs, rc)
			h.mu.Unlock()
			return rc, nil
		},
		NewGL: func(cfg glctx.Config) (glctx.Stack, error) {
			h.mu.Lock()
			err := h.glErr
			h.mu.Unlock()
			if err != nil {
				return nil, err
			}
			return &fakeGL{order: h.order}, nil
		},
	}
	h.manager = NewManager(ManagerConfig{
		Windows: h.windows,
		Bus:     h.bus,
		Logger:  zerolog.Nop(),
		Deps:    &deps,
	})
	h.manager.clearDelay = time.Millisecond
	return h
}

func (h *harness) engine(i int) *fakeEngine {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i >= len(h.engines) {
		return nil
	}
	return h.engines[i]
}

func (h *harness) engineCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.engines)
}

func (h *harness) renderContext(i int) *fakeRenderContext {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i >= len(h.rcs) {
		return nil
	}
	return h.rcs[i]
}

func widWindow(label string) *fakeWindow {
	return &fakeWindow{
		label:  label,
		handle: host.RawHandle{Kind: host.HandleXlib, ID: 0x3c00007},
		width:  1280,
		height: 720,
	}
}
