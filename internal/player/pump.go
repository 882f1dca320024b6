package player

import "github.com/bnema/mpvkit/pkg/mpv"

// EventChannel returns the host-bus channel name carrying events for the
// labeled window.
func EventChannel(label string) string {
	return "mpv-event-" + label
}

// runPump blocks on the client's event queue and forwards every event to
// the host bus, in the order the engine produces them. On shutdown it
// emits the final event, removes the instance from the registry, and
// terminates the engine.
func (m *Manager) runPump(inst *Instance, client Client) {
	channel := EventChannel(inst.label)
	log := m.log.With().Str("window", inst.label).Logger()

	for {
		ev, err := client.WaitEvent(60)
		if err != nil {
			log.Error().Err(err).Msg("event pump: wait failed")
			client.Close()
			return
		}
		if ev == nil {
			continue
		}
		if err := m.bus.Emit(channel, ev); err != nil {
			log.Warn().Err(err).Str("event", string(ev.Name)).Msg("event pump: emit failed")
		}
		if ev.Name == mpv.EventShutdown {
			log.Debug().Msg("event pump: shutdown")
			client.Close()
			if removed, ok := m.registry.Remove(inst.label); ok {
				removed.close()
			}
			return
		}
	}
}
