// Package messaging bridges frontend script messages to the player
// control plane. Requests arrive as JSON envelopes; replies go back over
// the host bus on a per-window channel, correlated by requestId.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/mpvkit/internal/host"
	"github.com/bnema/mpvkit/internal/logging"
	"github.com/bnema/mpvkit/internal/player"
	"github.com/bnema/mpvkit/pkg/mpv"
)

const defaultWorkers = 4

// Message is the request envelope from the frontend.
type Message struct {
	Op          string            `json:"op"`
	Name        string            `json:"name"`
	Args        []json.RawMessage `json:"args"`
	Value       json.RawMessage   `json:"value"`
	Format      string            `json:"format"`
	Config      json.RawMessage   `json:"config"`
	Ratio       json.RawMessage   `json:"ratio"`
	WindowLabel string            `json:"windowLabel"`
	RequestID   string            `json:"requestId"`
}

// Reply is the response envelope. Exactly one of Data or Error is set.
type Reply struct {
	RequestID string          `json:"requestId"`
	Ok        bool            `json:"ok"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ReplyChannel returns the host-bus channel carrying replies for the
// labeled window.
func ReplyChannel(label string) string {
	return "mpv-reply-" + label
}

// Handler dispatches frontend requests to the player manager on a worker
// pool, off the host's UI dispatch thread.
type Handler struct {
	manager *player.Manager
	bus     host.Bus
	ctx     context.Context
	group   *errgroup.Group
}

func NewHandler(manager *player.Manager, bus host.Bus, logger zerolog.Logger, workers int) *Handler {
	if workers <= 0 {
		workers = defaultWorkers
	}
	group := new(errgroup.Group)
	group.SetLimit(workers)
	ctx := logging.WithComponent(logging.WithContext(context.Background(), logger), "messaging")
	return &Handler{manager: manager, bus: bus, ctx: ctx, group: group}
}

// Handle parses one script message and schedules its dispatch. Malformed
// payloads are logged and dropped; there is no channel to reply on.
func (h *Handler) Handle(payload string) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		logging.FromContext(h.ctx).Error().Err(err).Msg("unmarshal failed")
		return
	}
	if msg.WindowLabel == "" {
		logging.FromContext(h.ctx).Error().Str("op", msg.Op).Msg("missing windowLabel")
		return
	}
	ctx := logging.WithWindow(h.ctx, msg.WindowLabel)
	h.group.Go(func() error {
		h.dispatch(ctx, msg)
		return nil
	})
}

// Wait blocks until all in-flight dispatches have finished.
func (h *Handler) Wait() {
	_ = h.group.Wait()
}

func (h *Handler) dispatch(ctx context.Context, msg Message) {
	data, err := h.run(msg)

	reply := Reply{RequestID: msg.RequestID, Ok: err == nil, Data: data}
	if err != nil {
		reply.Error = err.Error()
	}
	if emitErr := h.bus.Emit(ReplyChannel(msg.WindowLabel), reply); emitErr != nil {
		logging.FromContext(ctx).Warn().Err(emitErr).Msg("reply emit failed")
	}
}

func (h *Handler) run(msg Message) (json.RawMessage, error) {
	switch msg.Op {
	case "init":
		var cfg player.Config
		if len(msg.Config) > 0 {
			if err := json.Unmarshal(msg.Config, &cfg); err != nil {
				return nil, fmt.Errorf("config: %w", err)
			}
		} else {
			cfg.IntegrationMode = player.ModeWID
		}
		label, err := h.manager.Init(cfg, msg.WindowLabel)
		if err != nil {
			return nil, err
		}
		return json.Marshal(label)

	case "destroy":
		return nil, h.manager.Destroy(msg.WindowLabel)

	case "command":
		return nil, h.manager.Command(msg.Name, msg.Args, msg.WindowLabel)

	case "set_property":
		node, err := mpv.ParseJSON(msg.Value)
		if err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		return nil, h.manager.SetProperty(msg.Name, node, msg.WindowLabel)

	case "get_property":
		node, err := h.manager.GetProperty(msg.Name, msg.Format, msg.WindowLabel)
		if err != nil {
			return nil, err
		}
		return json.Marshal(node)

	case "set_video_margin_ratio":
		var ratio player.VideoMarginRatio
		if len(msg.Ratio) > 0 {
			if err := json.Unmarshal(msg.Ratio, &ratio); err != nil {
				return nil, fmt.Errorf("ratio: %w", err)
			}
		}
		return nil, h.manager.SetVideoMarginRatio(ratio, msg.WindowLabel)
	}
	return nil, fmt.Errorf("unknown op %q", msg.Op)
}
