package player

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/mpvkit/pkg/mpv"
)

// Mode selects how video reaches the screen.
type Mode string

const (
	// ModeWID hands the engine a native child-window id to draw into.
	ModeWID Mode = "wid"
	// ModeRender runs a dedicated GL loop and asks the engine to draw
	// into our framebuffer.
	ModeRender Mode = "render"
)

func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Mode(s) {
	case ModeWID, ModeRender:
		*m = Mode(s)
	case "":
		*m = ModeWID
	default:
		return fmt.Errorf("unknown integration mode %q", s)
	}
	return nil
}

// Config is the user-supplied player configuration. It is immutable after
// initialize.
type Config struct {
	IntegrationMode    Mode
	InitialOptions     *mpv.NodeMap
	ObservedProperties map[string]mpv.Format
	// ConfigFile, when set, is an mpv config file loaded right after the
	// engine comes up, before any command runs.
	ConfigFile string
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw struct {
		IntegrationMode    Mode                  `json:"integrationMode"`
		InitialOptions     json.RawMessage       `json:"initialOptions"`
		ObservedProperties map[string]mpv.Format `json:"observedProperties"`
		ConfigFile         string                `json:"configFile"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.IntegrationMode == "" {
		raw.IntegrationMode = ModeWID
	}
	c.IntegrationMode = raw.IntegrationMode
	c.ObservedProperties = raw.ObservedProperties
	c.ConfigFile = raw.ConfigFile

	c.InitialOptions = mpv.NewNodeMap()
	if len(raw.InitialOptions) > 0 {
		node, err := mpv.ParseJSON(raw.InitialOptions)
		if err != nil {
			return fmt.Errorf("initialOptions: %w", err)
		}
		if node.Kind != mpv.KindMap {
			return fmt.Errorf("initialOptions must be an object")
		}
		c.InitialOptions = node.Map
	}
	return nil
}

// EngineOptions renders the initial options in their supplied order, as the
// string pairs the engine's option interface takes.
func (c *Config) EngineOptions() ([]mpv.Option, error) {
	if c.InitialOptions == nil {
		return nil, nil
	}
	opts := make([]mpv.Option, 0, c.InitialOptions.Len())
	for pair := c.InitialOptions.Oldest(); pair != nil; pair = pair.Next() {
		s, err := pair.Value.OptionString()
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", pair.Key, err)
		}
		opts = append(opts, mpv.Option{Key: pair.Key, Value: s})
	}
	return opts, nil
}

// VideoMarginRatio carries the four optional margin ratios. Absent sides
// leave the corresponding engine property untouched.
type VideoMarginRatio struct {
	Left   *float64 `json:"left,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Top    *float64 `json:"top,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
}
