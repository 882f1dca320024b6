package player

import (
	"errors"
	"strconv"

	"github.com/bnema/mpvkit/internal/host"
	"github.com/bnema/mpvkit/pkg/mpv"
)

// buildWID assembles a wid-mode instance: the engine draws directly into
// the host window as a child surface.
func (m *Manager) buildWID(win host.Window, cfg *Config) (*Instance, error) {
	raw, err := win.Handle()
	if err != nil {
		return nil, newError(KindWindowHandle, err, "%s", win.Label())
	}
	wid, err := host.WID(raw)
	if err != nil {
		if errors.Is(err, host.ErrWaylandWID) || errors.Is(err, host.ErrUnsupportedPlatform) {
			return nil, newError(KindUnsupportedPlatform, err, "%s", raw.Kind)
		}
		return nil, newError(KindWindowHandle, err, "%s", win.Label())
	}

	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, newError(KindEngineInit, err, "options")
	}
	opts = append(opts, mpv.Option{Key: "wid", Value: strconv.FormatInt(wid, 10)})

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

	inst := newInstance(win.Label(), ModeWID, engine)

	// Observations must land before the pump's first wait, or early
	// property-change notifications are lost.
	if err := inst.registerObservations(eventClient, cfg.ObservedProperties); err != nil {
		eventClient.Close()
		engine.Terminate()
		return nil, err
	}

	go m.runPump(inst, eventClient)
	return inst, nil
}
