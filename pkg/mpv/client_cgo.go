//go:build mpv_cgo

package mpv

/*
#cgo pkg-config: mpv
#include <stdlib.h>
#include <mpv/client.h>

extern void mpvkitWakeup(void *d);

static void mpvkit_set_wakeup(mpv_handle *h, void *d) {
	mpv_set_wakeup_callback(h, mpvkitWakeup, d);
}

static void mpvkit_clear_wakeup(mpv_handle *h) {
	mpv_set_wakeup_callback(h, NULL, NULL);
}
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// Handle owns one mpv client handle. The first handle of an engine is
// created by New; auxiliary handles sharing the same core come from
// CreateClient. A Handle must only be waited on by one goroutine.
type Handle struct {
	handle *C.mpv_handle
	wakeup cgo.Handle // 0 when no callback registered
}

// New creates an engine handle, applies every option in order, then
// initializes the core. On any failure the partially built engine is torn
// down before returning.
func New(opts []Option) (*Handle, error) {
	handle := C.mpv_create()
	if handle == nil {
		return nil, ErrCreate
	}

	for _, opt := range opts {
		cKey := C.CString(opt.Key)
		cValue := C.CString(opt.Value)
		status := C.mpv_set_option_string(handle, cKey, cValue)
		C.free(unsafe.Pointer(cKey))
		C.free(unsafe.Pointer(cValue))
		if status < 0 {
			C.mpv_terminate_destroy(handle)
			return nil, apiError("set-option", opt.Key, status)
		}
	}

	if status := C.mpv_initialize(handle); status < 0 {
		C.mpv_terminate_destroy(handle)
		return nil, apiError("initialize", "", status)
	}

	return &Handle{handle: handle}, nil
}

// LoadConfigFile loads an mpv config file into the engine.
func (h *Handle) LoadConfigFile(path string) error {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	if status := C.mpv_load_config_file(h.handle, cPath); status < 0 {
		return apiError("load-config-file", path, status)
	}
	return nil
}

// CreateClient derives an auxiliary handle with an independent event queue.
func (h *Handle) CreateClient(name string) (*Handle, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	client := C.mpv_create_client(h.handle, cName)
	if client == nil {
		return nil, ErrClientCreation
	}
	return &Handle{handle: client}, nil
}

// Command sends a named command with string arguments.
func (h *Handle) Command(name string, args ...string) error {
	argv := make([]*C.char, 0, len(args)+2)
	argv = append(argv, C.CString(name))
	for _, arg := range args {
		argv = append(argv, C.CString(arg))
	}
	argv = append(argv, nil)
	defer func() {
		for _, p := range argv {
			if p != nil {
				C.free(unsafe.Pointer(p))
			}
		}
	}()

	if status := C.mpv_command(h.handle, &argv[0]); status < 0 {
		return apiError("command", name, status)
	}
	return nil
}

// GetProperty reads a property in the requested format. Node reads copy the
// engine's tree into an owned Node and free the engine's copy.
func (h *Handle) GetProperty(name string, format Format) (Node, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	switch format {
	case FormatFlag:
		var flag C.int
		if status := C.mpv_get_property(h.handle, cName, C.MPV_FORMAT_FLAG, unsafe.Pointer(&flag)); status < 0 {
			return Node{}, apiError("get-property", name, status)
		}
		return FlagNode(flag != 0), nil
	case FormatInt64:
		var i C.int64_t
		if status := C.mpv_get_property(h.handle, cName, C.MPV_FORMAT_INT64, unsafe.Pointer(&i)); status < 0 {
			return Node{}, apiError("get-property", name, status)
		}
		return IntNode(int64(i)), nil
	case FormatDouble:
		var f C.double
		if status := C.mpv_get_property(h.handle, cName, C.MPV_FORMAT_DOUBLE, unsafe.Pointer(&f)); status < 0 {
			return Node{}, apiError("get-property", name, status)
		}
		return FloatNode(float64(f)), nil
	case FormatString:
		var data *C.char
		if status := C.mpv_get_property(h.handle, cName, C.MPV_FORMAT_STRING, unsafe.Pointer(&data)); status < 0 {
			return Node{}, apiError("get-property", name, status)
		}
		if data == nil {
			return StringNode(""), nil
		}
		value := C.GoString(data)
		C.mpv_free(unsafe.Pointer(data))
		return StringNode(value), nil
	case FormatNode:
		var node C.mpv_node
		if status := C.mpv_get_property(h.handle, cName, C.MPV_FORMAT_NODE, unsafe.Pointer(&node)); status < 0 {
			return Node{}, apiError("get-property", name, status)
		}
		owned, err := nodeFromC(&node)
		C.mpv_free_node_contents(&node)
		return owned, err
	}
	return Node{}, apiError("get-property", name, C.int(C.MPV_ERROR_PROPERTY_FORMAT))
}

// SetProperty writes a property using the narrowest format matching the
// node's kind.
func (h *Handle) SetProperty(name string, value Node) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var status C.int
	switch value.Kind {
	case KindFlag:
		flag := C.int(0)
		if value.Flag {
			flag = 1
		}
		status = C.mpv_set_property(h.handle, cName, C.MPV_FORMAT_FLAG, unsafe.Pointer(&flag))
	case KindInt64:
		i := C.int64_t(value.Int)
		status = C.mpv_set_property(h.handle, cName, C.MPV_FORMAT_INT64, unsafe.Pointer(&i))
	case KindDouble:
		f := C.double(value.Float)
		status = C.mpv_set_property(h.handle, cName, C.MPV_FORMAT_DOUBLE, unsafe.Pointer(&f))
	case KindString:
		cValue := C.CString(value.Str)
		status = C.mpv_set_property_string(h.handle, cName, cValue)
		C.free(unsafe.Pointer(cValue))
	default:
		return &ErrUnsupportedValue{Kind: value.Kind}
	}
	if status < 0 {
		return apiError("set-property", name, status)
	}
	return nil
}

// ObserveProperty registers a change subscription tagged with replyID.
func (h *Handle) ObserveProperty(name string, format Format, replyID uint64) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	status := C.mpv_observe_property(h.handle, C.uint64_t(replyID), cName, cFormat(format))
	if status < 0 {
		return apiError("observe-property", name, status)
	}
	return nil
}

// WaitEvent blocks up to timeout seconds for the next event on this handle's
// queue. A (nil, nil) return means timeout. Must not be called concurrently
// on the same handle.
func (h *Handle) WaitEvent(timeout float64) (*Event, error) {
	cEvent := C.mpv_wait_event(h.handle, C.double(timeout))
	if cEvent == nil || cEvent.event_id == C.MPV_EVENT_NONE {
		return nil, nil
	}
	return eventFromC(cEvent)
}

// SetWakeupCallback registers fn to run on an arbitrary engine thread
// whenever events become available. fn must not block and must not call back
// into the engine.
func (h *Handle) SetWakeupCallback(fn func()) {
	old := h.wakeup
	handle := cgo.NewHandle(fn)
	h.wakeup = handle
	C.mpvkit_set_wakeup(h.handle, unsafe.Pointer(uintptr(handle)))
	if old != 0 {
		old.Delete()
	}
}

// Terminate shuts the handle down deterministically: the wakeup callback is
// unregistered first, then the handle is destroyed. On the engine's primary
// handle this brings the whole player down; on auxiliary clients it only
// detaches the client. Owned callback state is released after the engine has
// confirmed teardown.
func (h *Handle) Terminate() {
	if h.handle == nil {
		return
	}
	C.mpvkit_clear_wakeup(h.handle)
	C.mpv_terminate_destroy(h.handle)
	h.handle = nil
	if h.wakeup != 0 {
		h.wakeup.Delete()
		h.wakeup = 0
	}
}

// Close destroys an auxiliary client handle without terminating the engine.
// The primary handle's Terminate blocks until every auxiliary client has
// been closed, so clients must close before the engine shuts down.
func (h *Handle) Close() {
	if h.handle == nil {
		return
	}
	C.mpvkit_clear_wakeup(h.handle)
	C.mpv_destroy(h.handle)
	h.handle = nil
	if h.wakeup != 0 {
		h.wakeup.Delete()
		h.wakeup = 0
	}
}

// ClientAPIVersion returns libmpv's MPV_CLIENT_API_VERSION as (major, minor).
func ClientAPIVersion() (uint16, uint16) {
	v := uint32(C.mpv_client_api_version())
	return uint16(v >> 16), uint16(v & 0xffff)
}

func cFormat(f Format) C.mpv_format {
	switch f {
	case FormatFlag:
		return C.MPV_FORMAT_FLAG
	case FormatInt64:
		return C.MPV_FORMAT_INT64
	case FormatDouble:
		return C.MPV_FORMAT_DOUBLE
	case FormatString:
		return C.MPV_FORMAT_STRING
	case FormatNode:
		return C.MPV_FORMAT_NODE
	}
	return C.MPV_FORMAT_NONE
}

func apiError(op, name string, status C.int) error {
	return &APIError{
		Op:   op,
		Name: name,
		Code: C.GoString(C.mpv_error_string(status)),
		Raw:  int(status),
	}
}
