package player

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/bnema/mpvkit/pkg/mpv"
)

// Observation is one registered property subscription. The reply id is
// echoed in every change event so the pump can route without string
// comparisons.
type Observation struct {
	Name    string
	Format  mpv.Format
	ReplyID uint64
}

// Instance is one live player bound to a host window. It owns the primary
// engine handle; auxiliary clients are owned by the pump and render
// goroutines.
type Instance struct {
	label string
	mode  Mode

	mu     sync.Mutex // serializes traffic on the primary handle
	engine Engine

	observations []Observation

	// renderDone is closed by the render goroutine once its GL teardown
	// has finished. Nil in wid mode.
	renderDone chan struct{}

	closeOnce sync.Once
}

func newInstance(label string, mode Mode, engine Engine) *Instance {
	return &Instance{label: label, mode: mode, engine: engine}
}

func (i *Instance) Label() string { return i.label }

func (i *Instance) Mode() Mode { return i.mode }

// Observations returns the registered subscriptions in reply-id order.
func (i *Instance) Observations() []Observation {
	out := make([]Observation, len(i.observations))
	copy(out, i.observations)
	return out
}

// registerObservations subscribes the given client to every configured
// property, assigning sequential reply ids from 1. Names are sorted so
// ids are stable for the instance's lifetime.
func (i *Instance) registerObservations(c Client, props map[string]mpv.Format) error {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for idx, name := range names {
		replyID := uint64(idx + 1)
		if err := c.ObserveProperty(name, props[name], replyID); err != nil {
			return newError(KindEngineInit, err, "observe %s", name)
		}
		i.observations = append(i.observations, Observation{Name: name, Format: props[name], ReplyID: replyID})
	}
	return nil
}

// Command sends a named command with raw JSON arguments, translating each
// argument to the engine's string form.
func (i *Instance) Command(name string, args []json.RawMessage) error {
	strArgs := make([]string, len(args))
	for idx, a := range args {
		strArgs[idx] = mpv.CommandArg(a)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.engine.Command(name, strArgs...); err != nil {
		return newError(KindEngineCommand, err, "%s", name)
	}
	return nil
}

// SetProperty writes a property using the narrowest matching format.
func (i *Instance) SetProperty(name string, value mpv.Node) error {
	if value.IsNull() {
		return newError(KindBadValue, nil, "cannot set %s from null", name)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if err := i.engine.SetProperty(name, value); err != nil {
		var unsupported *mpv.ErrUnsupportedValue
		if errors.As(err, &unsupported) {
			return newError(KindBadValue, err, "%s", name)
		}
		return newError(KindEngineSetProperty, err, "%s", name)
	}
	return nil
}

// GetProperty reads a property in the requested format.
func (i *Instance) GetProperty(name string, format mpv.Format) (mpv.Node, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	node, err := i.engine.GetProperty(name, format)
	if err != nil {
		return mpv.Null(), newError(KindEngineGetProperty, err, "%s", name)
	}
	return node, nil
}

// close terminates the engine. In render mode it first waits for the
// render goroutine to finish GL teardown, keeping the destruction order
// render context, GL objects, engine.
func (i *Instance) close() {
	i.closeOnce.Do(func() {
		if i.renderDone != nil {
			<-i.renderDone
		}
		i.engine.Terminate()
	})
}
