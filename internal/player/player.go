// Package player implements the per-window media player lifecycle: the
// instance registry, the two display integrators, the event pump, and the
// control plane the frontend drives.
package player

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/mpvkit/internal/host"
	"github.com/bnema/mpvkit/pkg/mpv"
)

const defaultClearFrames = 5

// ManagerConfig wires a Manager into its host.
type ManagerConfig struct {
	Windows host.Windows
	Bus     host.Bus
	Logger  zerolog.Logger

	// Deps overrides the engine factories; nil means the native stack.
	Deps *Deps

	// ClearFrames is the number of extra redraws issued after end-file
	// in render mode; 0 means the default of 5.
	ClearFrames int
}

// Manager owns the instance registry and exposes the frontend control
// plane. All operations are safe for concurrent use.
type Manager struct {
	windows     host.Windows
	bus         host.Bus
	deps        Deps
	registry    *Registry
	log         zerolog.Logger
	clearFrames int
	clearDelay  time.Duration
}

func NewManager(cfg ManagerConfig) *Manager {
	deps := NativeDeps()
	if cfg.Deps != nil {
		deps = *cfg.Deps
	}
	clearFrames := cfg.ClearFrames
	if clearFrames <= 0 {
		clearFrames = defaultClearFrames
	}
	return &Manager{
		windows:     cfg.Windows,
		bus:         cfg.Bus,
		deps:        deps,
		registry:    NewRegistry(),
		log:         cfg.Logger,
		clearFrames: clearFrames,
		clearDelay:  16 * time.Millisecond,
	}
}

// Registry exposes the instance registry, mainly for inspection.
func (m *Manager) Registry() *Registry { return m.registry }

// Init creates a player instance for the labeled window. A duplicate call
// for a still-live window is a no-op returning success.
func (m *Manager) Init(cfg Config, label string) (string, error) {
	if m.registry.Has(label) {
		m.log.Debug().Str("window", label).Msg("init: instance already exists")
		return label, nil
	}
	win, ok := m.windows.Get(label)
	if !ok {
		return "", newError(KindWindowNotFound, nil, "%s", label)
	}
	_, err := m.registry.InsertIfAbsent(label, func() (*Instance, error) {
		switch cfg.IntegrationMode {
		case ModeRender:
			return m.buildRender(win, &cfg)
		default:
			return m.buildWID(win, &cfg)
		}
	})
	if err != nil {
		return "", err
	}
	m.log.Info().Str("window", label).Str("mode", string(cfg.IntegrationMode)).Msg("player initialized")
	return label, nil
}

// Destroy asks the labeled instance to quit. The pump observes the
// resulting shutdown event and removes the registry entry, so destroy on a
// window with no live instance is a success.
func (m *Manager) Destroy(label string) error {
	err := m.registry.WithInstance(label, func(i *Instance) error {
		return i.Command("quit", nil)
	})
	if IsKind(err, KindInstanceNotFound) {
		return nil
	}
	return err
}

// Command forwards a named command with raw JSON arguments.
func (m *Manager) Command(name string, args []json.RawMessage, label string) error {
	return m.registry.WithInstance(label, func(i *Instance) error {
		return i.Command(name, args)
	})
}

// SetProperty writes a property using the narrowest matching format.
func (m *Manager) SetProperty(name string, value mpv.Node, label string) error {
	return m.registry.WithInstance(label, func(i *Instance) error {
		return i.SetProperty(name, value)
	})
}

// GetProperty reads a property. An empty format defaults to string.
func (m *Manager) GetProperty(name, format, label string) (mpv.Node, error) {
	f := mpv.FormatString
	if format != "" {
		parsed, err := mpv.ParseFormat(format)
		if err != nil {
			return mpv.Null(), newError(KindBadValue, err, "%s", format)
		}
		f = parsed
	}
	var node mpv.Node
	err := m.registry.WithInstance(label, func(i *Instance) error {
		var opErr error
		node, opErr = i.GetProperty(name, f)
		return opErr
	})
	return node, err
}

// SetVideoMarginRatio applies each present side to the corresponding
// engine margin property. Per-side failures are logged, not returned.
func (m *Manager) SetVideoMarginRatio(ratio VideoMarginRatio, label string) error {
	return m.registry.WithInstance(label, func(i *Instance) error {
		sides := []struct {
			prop  string
			value *float64
		}{
			{"video-margin-ratio-left", ratio.Left},
			{"video-margin-ratio-right", ratio.Right},
			{"video-margin-ratio-top", ratio.Top},
			{"video-margin-ratio-bottom", ratio.Bottom},
		}
		for _, s := range sides {
			if s.value == nil {
				continue
			}
			if err := i.SetProperty(s.prop, mpv.FloatNode(*s.value)); err != nil {
				m.log.Warn().Err(err).Str("window", label).Str("property", s.prop).Msg("margin ratio not applied")
			}
		}
		return nil
	})
}
