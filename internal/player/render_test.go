package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mpvkit/pkg/mpv"
)

func renderConfig() Config {
	return Config{IntegrationMode: ModeRender}
}

func TestRenderInitWiresOffscreenOutput(t *testing.T) {
	h := newHarness(widWindow("w"))

	_, err := h.manager.Init(renderConfig(), "w")
	require.NoError(t, err)

	engine := h.engine(0)
	opts := engine.opts
	require.NotEmpty(t, opts)
	assert.Equal(t, mpv.Option{Key: "vo", Value: "libmpv"}, opts[len(opts)-1])

	assert.NotNil(t, engine.client("mpvkit-events"))
	assert.NotNil(t, engine.client("mpvkit-render"))
	assert.NotNil(t, h.renderContext(0))
}

func TestRenderSetupFailurePropagates(t *testing.T) {
	h := newHarness(widWindow("w"))
	h.glErr = assert.AnError

	_, err := h.manager.Init(renderConfig(), "w")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRenderInit), "got %v", err)
	assert.False(t, h.manager.Registry().Has("w"))

	engine := h.engine(0)
	select {
	case <-engine.terminated:
	case <-time.After(2 * time.Second):
		t.Fatal("engine not terminated after failed render setup")
	}
}

func TestRenderClearingRedraws(t *testing.T) {
	h := newHarness(widWindow("w"))

	_, err := h.manager.Init(renderConfig(), "w")
	require.NoError(t, err)

	rc := h.renderContext(0)
	client := h.engine(0).client("mpvkit-render")
	require.NotNil(t, client)

	client.push(&mpv.Event{Name: mpv.EventStartFile, StartFile: &mpv.StartFile{PlaylistEntryID: 1}})
	client.push(&mpv.Event{Name: mpv.EventEndFile, EndFile: &mpv.EndFile{Reason: mpv.EndFileEOF}})

	require.Eventually(t, func() bool {
		return rc.renders.Load() == int64(defaultClearFrames)
	}, 2*time.Second, time.Millisecond)

	// Once cleared, no further redraws happen on their own.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(defaultClearFrames), rc.renders.Load())
}

func TestRenderResizeRedrawsWhileStopped(t *testing.T) {
	win := widWindow("w")
	h := newHarness(win)

	_, err := h.manager.Init(renderConfig(), "w")
	require.NoError(t, err)

	rc := h.renderContext(0)
	win.triggerResize(800, 600)

	require.Eventually(t, func() bool {
		return rc.renders.Load() == 1
	}, 2*time.Second, time.Millisecond)

	// A resize redraw in the stopped state must not self-post more.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(1), rc.renders.Load())
}

func TestRenderDestructionOrder(t *testing.T) {
	h := newHarness(widWindow("w"))

	_, err := h.manager.Init(renderConfig(), "w")
	require.NoError(t, err)

	require.NoError(t, h.manager.Destroy("w"))

	engine := h.engine(0)
	select {
	case <-engine.terminated:
	case <-time.After(2 * time.Second):
		t.Fatal("engine not terminated after destroy")
	}

	want := []string{"render-context", "gl-context", "gl-surface", "gl-display", "engine"}
	assert.Equal(t, want, h.order.snapshot())

	require.Eventually(t, func() bool {
		return !h.manager.Registry().Has("w")
	}, 2*time.Second, 5*time.Millisecond)
}
