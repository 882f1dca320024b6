package player

import (
	"runtime"
	"time"

	"github.com/bnema/mpvkit/internal/host"
	"github.com/bnema/mpvkit/pkg/glctx"
	"github.com/bnema/mpvkit/pkg/mpv"
)

// renderMsg is what engine callbacks and the resize listener may post to
// the render goroutine. Posting never blocks.
type renderMsg uint8

const (
	msgRedraw renderMsg = iota
	msgEngineEvents
)

type renderState uint8

const (
	renderStopped renderState = iota
	renderPlaying
	renderClearing
)

// buildRender assembles a render-mode instance: the engine draws into a GL
// framebuffer we own. It waits for the render goroutine's setup result
// before returning.
func (m *Manager) buildRender(win host.Window, cfg *Config) (*Instance, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, newError(KindEngineInit, err, "options")
	}
	opts = append(opts, mpv.Option{Key: "vo", Value: "libmpv"})

	engine, err := m.deps.NewEngine(opts)
	if err != nil {
		return nil, newError(KindEngineInit, err, "build engine")
	}

	if cfg.ConfigFile != "" {
		if err := engine.LoadConfigFile(cfg.ConfigFile); err != nil {
			engine.Terminate()
			return nil, newError(KindEngineInit, err, "config file %s", cfg.ConfigFile)
		}
	}

	eventClient, err := engine.CreateClient("mpvkit-events")
	if err != nil {
		engine.Terminate()
		return nil, newError(KindEngineInit, err, "event client")
	}
	renderClient, err := engine.CreateClient("mpvkit-render")
	if err != nil {
		eventClient.Close()
		engine.Terminate()
		return nil, newError(KindEngineInit, err, "render client")
	}

	inst := newInstance(win.Label(), ModeRender, engine)
	inst.renderDone = make(chan struct{})

	if err := inst.registerObservations(eventClient, cfg.ObservedProperties); err != nil {
		renderClient.Close()
		eventClient.Close()
		engine.Terminate()
		return nil, err
	}

	go m.runPump(inst, eventClient)

	setup := make(chan error, 1)
	go m.runRender(inst, win, renderClient, setup)
	if err := <-setup; err != nil {
		// The pump is already blocking; quit routes a shutdown event to
		// it so it exits and releases its client before terminate.
		if cmdErr := engine.Command("quit"); cmdErr != nil {
			m.log.Warn().Err(cmdErr).Str("window", inst.label).Msg("quit after failed render setup")
		}
		inst.close()
		return nil, err
	}
	return inst, nil
}

// runRender owns the GL context and the engine's render context. GL objects
// never leave this goroutine; destruction walks the owner graph top-down:
// render context, GL context, surface, display, and only then may the
// engine terminate.
func (m *Manager) runRender(inst *Instance, win host.Window, client Client, setup chan<- error) {
	defer close(inst.renderDone)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	log := m.log.With().Str("window", inst.label).Str("thread", "render").Logger()

	raw, err := win.Handle()
	if err != nil {
		client.Close()
		setup <- newError(KindRenderInit, err, "window handle")
		return
	}
	width, height := win.InnerSize()
	gl, err := m.deps.NewGL(glctx.Config{
		DisplayHandle: raw.Display,
		WindowHandle:  raw.ID,
		Wayland:       raw.Kind == host.HandleWayland,
		Width:         width,
		Height:        height,
	})
	if err != nil {
		client.Close()
		setup <- newError(KindRenderInit, err, "gl stack")
		return
	}
	if err := gl.MakeCurrent(); err != nil {
		gl.DestroyContext()
		gl.DestroySurface()
		gl.DestroyDisplay()
		client.Close()
		setup <- newError(KindRenderInit, err, "make current")
		return
	}

	rc, err := m.deps.NewRender(client, gl.ProcAddress)
	if err != nil {
		gl.DestroyContext()
		gl.DestroySurface()
		gl.DestroyDisplay()
		client.Close()
		setup <- newError(KindRenderInit, err, "render context")
		return
	}

	inbox := make(chan renderMsg, 64)
	post := func(msg renderMsg) {
		select {
		case inbox <- msg:
		default:
		}
	}
	rc.SetUpdateCallback(func() { post(msgRedraw) })
	client.SetWakeupCallback(func() { post(msgEngineEvents) })
	cancelResize := win.OnResize(func(int, int) { post(msgRedraw) })
	defer cancelResize()

	teardown := func() {
		rc.Free()
		gl.DestroyContext()
		gl.DestroySurface()
		gl.DestroyDisplay()
		client.Close()
	}

	setup <- nil

	state := renderStopped
	clearsLeft := 0

	for msg := range inbox {
		switch msg {
		case msgRedraw:
			if state == renderClearing {
				clearsLeft--
				if clearsLeft <= 0 {
					state = renderStopped
				} else {
					time.AfterFunc(m.clearDelay, func() { post(msgRedraw) })
				}
			}
			w, h := win.InnerSize()
			if err := rc.Render(0, w, h, true); err != nil {
				log.Error().Err(err).Msg("render frame failed")
			}
			if err := gl.SwapBuffers(); err != nil {
				log.Error().Err(err).Msg("swap buffers failed")
			}

		case msgEngineEvents:
			for {
				ev, err := client.WaitEvent(0)
				if err != nil {
					log.Error().Err(err).Msg("render event drain failed")
					teardown()
					return
				}
				if ev == nil {
					break
				}
				switch ev.Name {
				case mpv.EventStartFile:
					state = renderPlaying
					clearsLeft = 0
				case mpv.EventEndFile:
					// The engine stops driving updates after end-file
					// but the surface still shows the last frame; a few
					// paced redraws let it paint a cleared frame.
					state = renderClearing
					clearsLeft = m.clearFrames
					post(msgRedraw)
				case mpv.EventShutdown:
					log.Debug().Msg("render goroutine: shutdown")
					teardown()
					return
				}
			}
		}
	}
}
