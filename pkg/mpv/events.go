package mpv

import "encoding/json"

// EventName is the stable kebab-case wire name of an mpv event.
type EventName string

const (
	EventShutdown         EventName = "shutdown"
	EventLogMessage       EventName = "log-message"
	EventGetPropertyReply EventName = "get-property-reply"
	EventSetPropertyReply EventName = "set-property-reply"
	EventCommandReply     EventName = "command-reply"
	EventStartFile        EventName = "start-file"
	EventEndFile          EventName = "end-file"
	EventFileLoaded       EventName = "file-loaded"
	EventIdle             EventName = "idle"
	EventTick             EventName = "tick"
	EventClientMessage    EventName = "client-message"
	EventVideoReconfig    EventName = "video-reconfig"
	EventAudioReconfig    EventName = "audio-reconfig"
	EventSeek             EventName = "seek"
	EventPlaybackRestart  EventName = "playback-restart"
	EventPropertyChange   EventName = "property-change"
	EventQueueOverflow    EventName = "queue-overflow"
	EventHook             EventName = "hook"
)

// LogLevel mirrors mpv_log_level.
type LogLevel string

const (
	LogLevelNone    LogLevel = "none"
	LogLevelFatal   LogLevel = "fatal"
	LogLevelError   LogLevel = "error"
	LogLevelWarn    LogLevel = "warn"
	LogLevelInfo    LogLevel = "info"
	LogLevelV       LogLevel = "v"
	LogLevelDebug   LogLevel = "debug"
	LogLevelTrace   LogLevel = "trace"
	LogLevelUnknown LogLevel = "unknown"
)

// EndFileReason mirrors mpv_end_file_reason.
type EndFileReason string

const (
	EndFileEOF      EndFileReason = "eof"
	EndFileStop     EndFileReason = "stop"
	EndFileQuit     EndFileReason = "quit"
	EndFileError    EndFileReason = "error"
	EndFileRedirect EndFileReason = "redirect"
	EndFileUnknown  EndFileReason = "unknown"
)

// LogMessage carries one engine log line.
type LogMessage struct {
	Prefix   string   `json:"prefix"`
	Level    string   `json:"level"`
	Text     string   `json:"text"`
	LogLevel LogLevel `json:"log_level"`
}

// StartFile is the payload of a start-file event.
type StartFile struct {
	PlaylistEntryID int64 `json:"playlist_entry_id"`
}

// EndFile is the payload of an end-file event.
type EndFile struct {
	Reason                   EndFileReason `json:"reason"`
	Error                    int           `json:"error"`
	PlaylistEntryID          int64         `json:"playlist_entry_id"`
	PlaylistInsertID         int64         `json:"playlist_insert_id"`
	PlaylistInsertNumEntries int32         `json:"playlist_insert_num_entries"`
}

// Hook is the payload of a hook event.
type Hook struct {
	ID uint64 `json:"id"`
}

// Property carries a property name and its value for property-change and
// get-property-reply events.
type Property struct {
	Name  string
	Value Node
}

// Event is one owned entry from an mpv event queue. Only the field matching
// Name is populated.
type Event struct {
	Name          EventName
	Error         int
	ReplyUserdata uint64
	Log           *LogMessage
	StartFile     *StartFile
	EndFile       *EndFile
	Property      *Property
	Result        *Node
	ClientMessage []string
	Hook          *Hook
}

// MarshalJSON renders the event as the tagged object the frontend consumes:
// a discriminator under "event" plus payload fields per event kind.
func (e *Event) MarshalJSON() ([]byte, error) {
	switch e.Name {
	case EventLogMessage:
		return json.Marshal(struct {
			Event EventName   `json:"event"`
			Data  *LogMessage `json:"data"`
		}{e.Name, e.Log})
	case EventStartFile:
		return json.Marshal(struct {
			Event EventName  `json:"event"`
			Data  *StartFile `json:"data"`
		}{e.Name, e.StartFile})
	case EventEndFile:
		return json.Marshal(struct {
			Event EventName `json:"event"`
			Data  *EndFile  `json:"data"`
		}{e.Name, e.EndFile})
	case EventPropertyChange:
		return json.Marshal(struct {
			Event         EventName `json:"event"`
			PropertyName  string    `json:"name"`
			Data          Node      `json:"data"`
			ReplyUserdata uint64    `json:"reply_userdata"`
		}{e.Name, e.Property.Name, e.Property.Value, e.ReplyUserdata})
	case EventGetPropertyReply:
		return json.Marshal(struct {
			Event         EventName `json:"event"`
			PropertyName  string    `json:"name"`
			Data          Node      `json:"data"`
			Error         int       `json:"error"`
			ReplyUserdata uint64    `json:"reply_userdata"`
		}{e.Name, e.Property.Name, e.Property.Value, e.Error, e.ReplyUserdata})
	case EventSetPropertyReply:
		return json.Marshal(struct {
			Event         EventName `json:"event"`
			Error         int       `json:"error"`
			ReplyUserdata uint64    `json:"reply_userdata"`
		}{e.Name, e.Error, e.ReplyUserdata})
	case EventCommandReply:
		var result Node
		if e.Result != nil {
			result = *e.Result
		}
		return json.Marshal(struct {
			Event         EventName `json:"event"`
			Data          Node      `json:"data"`
			Error         int       `json:"error"`
			ReplyUserdata uint64    `json:"reply_userdata"`
		}{e.Name, result, e.Error, e.ReplyUserdata})
	case EventClientMessage:
		args := e.ClientMessage
		if args == nil {
			args = []string{}
		}
		return json.Marshal(struct {
			Event EventName `json:"event"`
			Data  []string  `json:"data"`
		}{e.Name, args})
	case EventHook:
		return json.Marshal(struct {
			Event EventName `json:"event"`
			Data  *Hook     `json:"data"`
		}{e.Name, e.Hook})
	default:
		return json.Marshal(struct {
			Event EventName `json:"event"`
		}{e.Name})
	}
}
