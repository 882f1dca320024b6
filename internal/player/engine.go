package player

import (
	"fmt"
	"unsafe"

	"github.com/bnema/mpvkit/pkg/glctx"
	"github.com/bnema/mpvkit/pkg/mpv"
)

// Client is one engine handle with its own event queue. WaitEvent must only
// be called from a single goroutine per client.
type Client interface {
	Command(name string, args ...string) error
	GetProperty(name string, format mpv.Format) (mpv.Node, error)
	SetProperty(name string, value mpv.Node) error
	ObserveProperty(name string, format mpv.Format, replyID uint64) error
	WaitEvent(timeout float64) (*mpv.Event, error)
	SetWakeupCallback(fn func())
	Close()
}

// Engine is the primary handle. Terminating it brings the whole player down;
// it blocks until every derived client has been closed.
type Engine interface {
	Client
	CreateClient(name string) (Client, error)
	LoadConfigFile(path string) error
	Terminate()
}

// RenderContext drives the engine's offscreen render subsystem. Free must run
// before the GL objects backing it are destroyed.
type RenderContext interface {
	SetUpdateCallback(fn func())
	Render(fbo, width, height int, flipY bool) error
	Free()
}

// Deps are the factories the manager builds instances from. Tests substitute
// fakes; production wiring uses libmpv and the platform GL stack.
type Deps struct {
	NewEngine func(opts []mpv.Option) (Engine, error)
	NewRender func(c Client, getProc func(name string) unsafe.Pointer) (RenderContext, error)
	NewGL     func(cfg glctx.Config) (glctx.Stack, error)
}

// NativeDeps wires the real engine binding and GL stack.
func NativeDeps() Deps {
	return Deps{
		NewEngine: func(opts []mpv.Option) (Engine, error) {
			h, err := mpv.New(opts)
			if err != nil {
				return nil, err
			}
			return nativeEngine{h}, nil
		},
		NewRender: func(c Client, getProc func(name string) unsafe.Pointer) (RenderContext, error) {
			h, ok := c.(*mpv.Handle)
			if !ok {
				return nil, fmt.Errorf("render context requires a native client, got %T", c)
			}
			return mpv.NewRenderContext(h, getProc)
		},
		NewGL: glctx.New,
	}
}

type nativeEngine struct {
	*mpv.Handle
}

func (e nativeEngine) CreateClient(name string) (Client, error) {
	return e.Handle.CreateClient(name)
}
