//go:build mpv_cgo

package mpv

/*
#include <mpv/client.h>

static char *mpvkit_node_string(mpv_node *n)       { return n->u.string; }
static int mpvkit_node_flag(mpv_node *n)           { return n->u.flag; }
static int64_t mpvkit_node_int64(mpv_node *n)      { return n->u.int64; }
static double mpvkit_node_double(mpv_node *n)      { return n->u.double_; }
static mpv_node_list *mpvkit_node_list(mpv_node *n) { return n->u.list; }
static mpv_byte_array *mpvkit_node_ba(mpv_node *n) { return n->u.ba; }

static mpv_node *mpvkit_list_value(mpv_node_list *l, int i) { return &l->values[i]; }
static char *mpvkit_list_key(mpv_node_list *l, int i)       { return l->keys[i]; }
*/
import "C"

import (
	"fmt"
	"unsafe"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// nodeFromC recursively copies an engine-owned mpv_node tree into an owned
// Node. The caller remains responsible for freeing the engine's copy.
func nodeFromC(n *C.mpv_node) (Node, error) {
	switch n.format {
	case C.MPV_FORMAT_NONE:
		return Null(), nil
	case C.MPV_FORMAT_STRING:
		return StringNode(C.GoString(C.mpvkit_node_string(n))), nil
	case C.MPV_FORMAT_FLAG:
		return FlagNode(C.mpvkit_node_flag(n) != 0), nil
	case C.MPV_FORMAT_INT64:
		return IntNode(int64(C.mpvkit_node_int64(n))), nil
	case C.MPV_FORMAT_DOUBLE:
		return FloatNode(float64(C.mpvkit_node_double(n))), nil
	case C.MPV_FORMAT_NODE_ARRAY:
		list := C.mpvkit_node_list(n)
		arr := make([]Node, 0, int(list.num))
		for i := 0; i < int(list.num); i++ {
			child, err := nodeFromC(C.mpvkit_list_value(list, C.int(i)))
			if err != nil {
				return Node{}, err
			}
			arr = append(arr, child)
		}
		return Node{Kind: KindArray, Array: arr}, nil
	case C.MPV_FORMAT_NODE_MAP:
		list := C.mpvkit_node_list(n)
		m := orderedmap.New[string, Node](int(list.num))
		for i := 0; i < int(list.num); i++ {
			key := C.GoString(C.mpvkit_list_key(list, C.int(i)))
			child, err := nodeFromC(C.mpvkit_list_value(list, C.int(i)))
			if err != nil {
				return Node{}, err
			}
			m.Set(key, child)
		}
		return Node{Kind: KindMap, Map: m}, nil
	case C.MPV_FORMAT_BYTE_ARRAY:
		ba := C.mpvkit_node_ba(n)
		return BytesNode(C.GoBytes(ba.data, C.int(ba.size))), nil
	}
	return Node{}, fmt.Errorf("mpv: unsupported mpv_node format code %d", int(n.format))
}

// propertyFromC copies an mpv_event_property payload, dispatching on the
// event's declared format before touching the data pointer.
func propertyFromC(prop *C.mpv_event_property) (Node, error) {
	if prop.data == nil {
		return Null(), nil
	}
	switch prop.format {
	case C.MPV_FORMAT_NONE:
		return Null(), nil
	case C.MPV_FORMAT_STRING, C.MPV_FORMAT_OSD_STRING:
		str := *(**C.char)(prop.data)
		return StringNode(C.GoString(str)), nil
	case C.MPV_FORMAT_FLAG:
		return FlagNode(*(*C.int)(prop.data) != 0), nil
	case C.MPV_FORMAT_INT64:
		return IntNode(int64(*(*C.int64_t)(prop.data))), nil
	case C.MPV_FORMAT_DOUBLE:
		return FloatNode(float64(*(*C.double)(prop.data))), nil
	case C.MPV_FORMAT_NODE:
		return nodeFromC((*C.mpv_node)(prop.data))
	}
	return Node{}, fmt.Errorf("mpv: unsupported mpv_event_property format code %d", int(prop.format))
}

// eventFromC translates one engine event into an owned Event. Unknown event
// ids yield (nil, nil) so the caller keeps waiting.
func eventFromC(cEvent *C.mpv_event) (*Event, error) {
	event := &Event{
		Error:         int(cEvent.error),
		ReplyUserdata: uint64(cEvent.reply_userdata),
	}

	switch cEvent.event_id {
	case C.MPV_EVENT_SHUTDOWN:
		event.Name = EventShutdown
	case C.MPV_EVENT_LOG_MESSAGE:
		msg := (*C.mpv_event_log_message)(cEvent.data)
		event.Name = EventLogMessage
		event.Log = &LogMessage{
			Prefix:   C.GoString(msg.prefix),
			Level:    C.GoString(msg.level),
			Text:     C.GoString(msg.text),
			LogLevel: logLevelFromC(msg.log_level),
		}
	case C.MPV_EVENT_GET_PROPERTY_REPLY:
		prop := (*C.mpv_event_property)(cEvent.data)
		value, err := propertyFromC(prop)
		if err != nil {
			return nil, err
		}
		event.Name = EventGetPropertyReply
		event.Property = &Property{Name: C.GoString(prop.name), Value: value}
	case C.MPV_EVENT_SET_PROPERTY_REPLY:
		event.Name = EventSetPropertyReply
	case C.MPV_EVENT_COMMAND_REPLY:
		cmd := (*C.mpv_event_command)(cEvent.data)
		result, err := nodeFromC(&cmd.result)
		if err != nil {
			return nil, err
		}
		event.Name = EventCommandReply
		event.Result = &result
	case C.MPV_EVENT_START_FILE:
		start := (*C.mpv_event_start_file)(cEvent.data)
		event.Name = EventStartFile
		event.StartFile = &StartFile{PlaylistEntryID: int64(start.playlist_entry_id)}
	case C.MPV_EVENT_END_FILE:
		end := (*C.mpv_event_end_file)(cEvent.data)
		event.Name = EventEndFile
		event.EndFile = &EndFile{
			Reason:                   endFileReasonFromC(C.mpv_end_file_reason(end.reason)),
			Error:                    int(end.error),
			PlaylistEntryID:          int64(end.playlist_entry_id),
			PlaylistInsertID:         int64(end.playlist_insert_id),
			PlaylistInsertNumEntries: int32(end.playlist_insert_num_entries),
		}
	case C.MPV_EVENT_FILE_LOADED:
		event.Name = EventFileLoaded
	case C.MPV_EVENT_IDLE:
		event.Name = EventIdle
	case C.MPV_EVENT_TICK:
		event.Name = EventTick
	case C.MPV_EVENT_CLIENT_MESSAGE:
		msg := (*C.mpv_event_client_message)(cEvent.data)
		args := make([]string, 0, int(msg.num_args))
		argv := unsafe.Slice(msg.args, int(msg.num_args))
		for _, arg := range argv {
			args = append(args, C.GoString(arg))
		}
		event.Name = EventClientMessage
		event.ClientMessage = args
	case C.MPV_EVENT_VIDEO_RECONFIG:
		event.Name = EventVideoReconfig
	case C.MPV_EVENT_AUDIO_RECONFIG:
		event.Name = EventAudioReconfig
	case C.MPV_EVENT_SEEK:
		event.Name = EventSeek
	case C.MPV_EVENT_PLAYBACK_RESTART:
		event.Name = EventPlaybackRestart
	case C.MPV_EVENT_PROPERTY_CHANGE:
		prop := (*C.mpv_event_property)(cEvent.data)
		value, err := propertyFromC(prop)
		if err != nil {
			return nil, err
		}
		event.Name = EventPropertyChange
		event.Property = &Property{Name: C.GoString(prop.name), Value: value}
	case C.MPV_EVENT_QUEUE_OVERFLOW:
		event.Name = EventQueueOverflow
	case C.MPV_EVENT_HOOK:
		hook := (*C.mpv_event_hook)(cEvent.data)
		event.Name = EventHook
		event.Hook = &Hook{ID: uint64(hook.id)}
	default:
		return nil, nil
	}

	return event, nil
}

func logLevelFromC(level C.mpv_log_level) LogLevel {
	switch level {
	case C.MPV_LOG_LEVEL_NONE:
		return LogLevelNone
	case C.MPV_LOG_LEVEL_FATAL:
		return LogLevelFatal
	case C.MPV_LOG_LEVEL_ERROR:
		return LogLevelError
	case C.MPV_LOG_LEVEL_WARN:
		return LogLevelWarn
	case C.MPV_LOG_LEVEL_INFO:
		return LogLevelInfo
	case C.MPV_LOG_LEVEL_V:
		return LogLevelV
	case C.MPV_LOG_LEVEL_DEBUG:
		return LogLevelDebug
	case C.MPV_LOG_LEVEL_TRACE:
		return LogLevelTrace
	}
	return LogLevelUnknown
}

func endFileReasonFromC(reason C.mpv_end_file_reason) EndFileReason {
	switch reason {
	case C.MPV_END_FILE_REASON_EOF:
		return EndFileEOF
	case C.MPV_END_FILE_REASON_STOP:
		return EndFileStop
	case C.MPV_END_FILE_REASON_QUIT:
		return EndFileQuit
	case C.MPV_END_FILE_REASON_ERROR:
		return EndFileError
	case C.MPV_END_FILE_REASON_REDIRECT:
		return EndFileRedirect
	}
	return EndFileUnknown
}
