package player

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/mpvkit/internal/host"
	"github.com/bnema/mpvkit/pkg/mpv"
)

func widConfig() Config {
	return Config{IntegrationMode: ModeWID}
}

func TestInitThenDestroy(t *testing.T) {
	h := newHarness(widWindow("main"))

	label, err := h.manager.Init(widConfig(), "main")
	require.NoError(t, err)
	require.Equal(t, "main", label)
	require.True(t, h.manager.Registry().Has("main"))

	require.NoError(t, h.manager.Destroy("main"))

	engine := h.engine(0)
	select {
	case <-engine.terminated:
	case <-time.After(2 * time.Second):
		t.Fatal("engine not terminated after destroy")
	}

	require.Eventually(t, func() bool {
		return !h.manager.Registry().Has("main")
	}, 2*time.Second, 5*time.Millisecond)

	events := h.bus.emitted(EventChannel("main"))
	require.Len(t, events, 1)
	assert.Equal(t, mpv.EventShutdown, events[0].Name)
}

func TestInitIsIdempotent(t *testing.T) {
	h := newHarness(widWindow("main"))

	_, err := h.manager.Init(widConfig(), "main")
	require.NoError(t, err)
	_, err = h.manager.Init(widConfig(), "main")
	require.NoError(t, err)

	assert.Equal(t, 1, h.engineCount(), "duplicate init must not build a second engine")
}

func TestInitWindowNotFound(t *testing.T) {
	h := newHarness()

	_, err := h.manager.Init(widConfig(), "nope")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindWindowNotFound), "got %v", err)
}

func TestInitWaylandRejected(t *testing.T) {
	win := widWindow("w")
	win.handle = host.RawHandle{Kind: host.HandleWayland, ID: 7}
	h := newHarness(win)

	_, err := h.manager.Init(widConfig(), "w")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnsupportedPlatform), "got %v", err)
	assert.False(t, h.manager.Registry().Has("w"))
}

func TestWidOptionInjected(t *testing.T) {
	h := newHarness(widWindow("main"))

	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{
		"integrationMode": "wid",
		"initialOptions": {"hwdec": "auto", "volume": 60}
	}`), &cfg))

	_, err := h.manager.Init(cfg, "main")
	require.NoError(t, err)

	opts := h.engine(0).opts
	require.Len(t, opts, 3)
	assert.Equal(t, mpv.Option{Key: "hwdec", Value: "auto"}, opts[0])
	assert.Equal(t, mpv.Option{Key: "volume", Value: "60"}, opts[1])
	assert.Equal(t, mpv.Option{Key: "wid", Value: "62914567"}, opts[2])
}

func TestCommandOnMissingInstance(t *testing.T) {
	h := newHarness()

	err := h.manager.Command("seek", []json.RawMessage{json.RawMessage(`"10"`)}, "ghost")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInstanceNotFound), "got %v", err)
}

func TestCommandArgsTranslated(t *testing.T) {
	h := newHarness(widWindow("main"))
	_, err := h.manager.Init(widConfig(), "main")
	require.NoError(t, err)

	args := []json.RawMessage{
		json.RawMessage(`"file.mkv"`),
		json.RawMessage(`true`),
		json.RawMessage(`1.5`),
	}
	require.NoError(t, h.manager.Command("loadfile", args, "main"))

	log := h.engine(0).commandLog()
	require.Len(t, log, 1)
	assert.Equal(t, []string{"loadfile", "file.mkv", "yes", "1.5"}, log[0])
}

func TestObservePause(t *testing.T) {
	win := widWindow("w")
	h := newHarness(win)

	var cfg Config
	require.NoError(t, json.Unmarshal([]byte(`{
		"integrationMode": "wid",
		"observedProperties": {"pause": "flag"}
	}`), &cfg))

	_, err := h.manager.Init(cfg, "w")
	require.NoError(t, err)

	engine := h.engine(0)
	obs := engine.observed
	require.Len(t, obs, 1)
	assert.Equal(t, "pause", obs[0].Name)
	assert.Equal(t, uint64(1), obs[0].ReplyID)
	assert.False(t, obs[0].afterFirstWait, "observation registered after the pump started waiting")

	require.NoError(t, h.manager.SetProperty("pause", mpv.FlagNode(true), "w"))

	require.Eventually(t, func() bool {
		return len(h.bus.emitted(EventChannel("w"))) >= 1
	}, 2*time.Second, 5*time.Millisecond)

	ev := h.bus.emitted(EventChannel("w"))[0]
	assert.Equal(t, mpv.EventPropertyChange, ev.Name)
	assert.Equal(t, uint64(1), ev.ReplyUserdata)
	require.NotNil(t, ev.Property)
	assert.Equal(t, "pause", ev.Property.Name)
	assert.True(t, ev.Property.Value.Equal(mpv.FlagNode(true)))
}

func TestEventOrderingIsEnginePrefix(t *testing.T) {
	h := newHarness(widWindow("w"))
	_, err := h.manager.Init(widConfig(), "w")
	require.NoError(t, err)

	client := h.engine(0).client("mpvkit-events")
	require.NotNil(t, client)

	pushed := []mpv.EventName{
		mpv.EventFileLoaded,
		mpv.EventSeek,
		mpv.EventPlaybackRestart,
		mpv.EventShutdown,
	}
	for _, name := range pushed {
		client.push(&mpv.Event{Name: name})
	}

	require.Eventually(t, func() bool {
		return len(h.bus.emitted(EventChannel("w"))) == len(pushed)
	}, 2*time.Second, 5*time.Millisecond)

	got := h.bus.emitted(EventChannel("w"))
	for i, name := range pushed {
		assert.Equal(t, name, got[i].Name)
	}
	assert.Equal(t, mpv.EventShutdown, got[len(got)-1].Name, "shutdown must be the final event")

	require.Eventually(t, func() bool {
		return !h.manager.Registry().Has("w")
	}, 2*time.Second, 5*time.Millisecond, "shutdown must clean the registry")
}

func TestDestroyIsIdempotent(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.manager.Destroy("gone"))
	require.NoError(t, h.manager.Destroy("gone"))
}

func TestGetPropertyDefaultsToString(t *testing.T) {
	h := newHarness(widWindow("w"))
	_, err := h.manager.Init(widConfig(), "w")
	require.NoError(t, err)

	require.NoError(t, h.manager.SetProperty("media-title", mpv.StringNode("clip"), "w"))

	node, err := h.manager.GetProperty("media-title", "", "w")
	require.NoError(t, err)
	assert.True(t, node.Equal(mpv.StringNode("clip")))

	_, err = h.manager.GetProperty("media-title", "bogus", "w")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadValue), "got %v", err)
}

func TestSetPropertyNullRejected(t *testing.T) {
	h := newHarness(widWindow("w"))
	_, err := h.manager.Init(widConfig(), "w")
	require.NoError(t, err)

	err = h.manager.SetProperty("pause", mpv.Null(), "w")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadValue), "got %v", err)
}

func TestInitLoadsConfigFile(t *testing.T) {
	h := newHarness(widWindow("w"))
	cfg := widConfig()
	cfg.ConfigFile = "/home/user/.config/mpv/mpv.conf"

	_, err := h.manager.Init(cfg, "w")
	require.NoError(t, err)

	assert.Equal(t, []string{"/home/user/.config/mpv/mpv.conf"}, h.engine(0).loadedConfigFiles())
}

func TestInitConfigFileFailureTearsDownEngine(t *testing.T) {
	h := newHarness(widWindow("w"))
	h.configFileErr = errors.New("no such file")
	cfg := widConfig()
	cfg.ConfigFile = "/missing.conf"

	_, err := h.manager.Init(cfg, "w")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindEngineInit), "got %v", err)

	select {
	case <-h.engine(0).terminated:
	case <-time.After(time.Second):
		t.Fatal("engine was not terminated")
	}
}

func TestSetPropertyUnsupportedVariantRejected(t *testing.T) {
	h := newHarness(widWindow("w"))
	_, err := h.manager.Init(widConfig(), "w")
	require.NoError(t, err)

	values := []mpv.Node{
		mpv.ArrayNode(mpv.StringNode("a")),
		mpv.BytesNode([]byte{0x01}),
	}
	for _, v := range values {
		err = h.manager.SetProperty("metadata", v, "w")
		require.Error(t, err)
		assert.True(t, IsKind(err, KindBadValue), "kind %s: got %v", v.Kind, err)
	}
}

func TestSetVideoMarginRatioPartial(t *testing.T) {
	h := newHarness(widWindow("w"))
	_, err := h.manager.Init(widConfig(), "w")
	require.NoError(t, err)

	left, right := 0.1, 0.2
	require.NoError(t, h.manager.SetVideoMarginRatio(VideoMarginRatio{Left: &left, Right: &right}, "w"))

	engine := h.engine(0)
	l, ok := engine.property("video-margin-ratio-left")
	require.True(t, ok)
	assert.True(t, l.Equal(mpv.FloatNode(0.1)))
	r, ok := engine.property("video-margin-ratio-right")
	require.True(t, ok)
	assert.True(t, r.Equal(mpv.FloatNode(0.2)))

	_, ok = engine.property("video-margin-ratio-top")
	assert.False(t, ok, "absent side must stay untouched")
	_, ok = engine.property("video-margin-ratio-bottom")
	assert.False(t, ok, "absent side must stay untouched")
}

func TestSetVideoMarginRatioLogsPerSideErrors(t *testing.T) {
	h := newHarness(widWindow("w"))
	_, err := h.manager.Init(widConfig(), "w")
	require.NoError(t, err)

	engine := h.engine(0)
	engine.mu.Lock()
	engine.setErrs["video-margin-ratio-left"] = assert.AnError
	engine.mu.Unlock()

	left, right := 0.1, 0.2
	require.NoError(t, h.manager.SetVideoMarginRatio(VideoMarginRatio{Left: &left, Right: &right}, "w"))

	_, ok := engine.property("video-margin-ratio-right")
	assert.True(t, ok, "other sides still applied after a per-side failure")
}
