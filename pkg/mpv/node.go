// Package mpv wraps the libmpv client API: engine handles, auxiliary
// clients, commands, properties, events and the OpenGL render context.
//
// The native backend is only compiled in when the 'mpv_cgo' build tag is
// set; without it every entry point reports ErrNativeUnavailable so the
// package (and everything above it) stays buildable on machines without
// libmpv headers.
package mpv

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Option is one pre-initialization engine option. Options are applied in
// slice order.
type Option struct {
	Key   string
	Value string
}

// Kind discriminates the variants of a Node.
type Kind int

const (
	KindNone Kind = iota
	KindFlag
	KindInt64
	KindDouble
	KindString
	KindArray
	KindMap
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindFlag:
		return "flag"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindBytes:
		return "bytes"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// NodeMap is an insertion-ordered string→Node map. mpv emits structured
// property values (playlists, track lists) whose order is meaningful to the
// frontend, so plain Go maps are not an option here.
type NodeMap = orderedmap.OrderedMap[string, Node]

// Node is an owned copy of an mpv value tree. The zero value is the mpv
// "none" node and marshals as JSON null.
type Node struct {
	Kind  Kind
	Flag  bool
	Int   int64
	Float float64
	Str   string
	Bytes []byte
	Array []Node
	Map   *NodeMap
}

func Null() Node               { return Node{} }
func FlagNode(b bool) Node     { return Node{Kind: KindFlag, Flag: b} }
func IntNode(i int64) Node     { return Node{Kind: KindInt64, Int: i} }
func FloatNode(f float64) Node { return Node{Kind: KindDouble, Float: f} }
func StringNode(s string) Node { return Node{Kind: KindString, Str: s} }
func BytesNode(b []byte) Node  { return Node{Kind: KindBytes, Bytes: b} }

func ArrayNode(items ...Node) Node {
	return Node{Kind: KindArray, Array: items}
}

// NewNodeMap returns an empty ordered map for building map nodes.
func NewNodeMap() *NodeMap {
	return orderedmap.New[string, Node]()
}

// MapNode builds an ordered-map node from alternating key/value pairs.
func MapNode(pairs ...any) Node {
	m := orderedmap.New[string, Node]()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Set(pairs[i].(string), pairs[i+1].(Node))
	}
	return Node{Kind: KindMap, Map: m}
}

// IsNull reports whether the node is the mpv "none" value.
func (n Node) IsNull() bool { return n.Kind == KindNone }

// OptionString renders a scalar node as an mpv option/property string.
func (n Node) OptionString() (string, error) {
	switch n.Kind {
	case KindFlag:
		if n.Flag {
			return "yes", nil
		}
		return "no", nil
	case KindInt64:
		return strconv.FormatInt(n.Int, 10), nil
	case KindDouble:
		return strconv.FormatFloat(n.Float, 'g', -1, 64), nil
	case KindString:
		return n.Str, nil
	}
	return "", &ErrUnsupportedValue{Kind: n.Kind}
}

// Equal compares two node trees structurally. Map comparison is
// order-sensitive, matching the wire semantics.
func (n Node) Equal(o Node) bool {
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case KindNone:
		return true
	case KindFlag:
		return n.Flag == o.Flag
	case KindInt64:
		return n.Int == o.Int
	case KindDouble:
		return n.Float == o.Float
	case KindString:
		return n.Str == o.Str
	case KindBytes:
		return bytes.Equal(n.Bytes, o.Bytes)
	case KindArray:
		if len(n.Array) != len(o.Array) {
			return false
		}
		for i := range n.Array {
			if !n.Array[i].Equal(o.Array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if n.Map.Len() != o.Map.Len() {
			return false
		}
		op := o.Map.Oldest()
		for np := n.Map.Oldest(); np != nil; np = np.Next() {
			if op == nil || np.Key != op.Key || !np.Value.Equal(op.Value) {
				return false
			}
			op = op.Next()
		}
		return true
	}
	return false
}

// MarshalJSON renders the node in the frontend's value model: byte strings
// become base64 text, non-finite doubles become null, map order is kept.
func (n Node) MarshalJSON() ([]byte, error) {
	switch n.Kind {
	case KindNone:
		return []byte("null"), nil
	case KindFlag:
		return json.Marshal(n.Flag)
	case KindInt64:
		return json.Marshal(n.Int)
	case KindDouble:
		if math.IsNaN(n.Float) || math.IsInf(n.Float, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(n.Float)
	case KindString:
		return json.Marshal(n.Str)
	case KindBytes:
		return json.Marshal(base64.StdEncoding.EncodeToString(n.Bytes))
	case KindArray:
		if n.Array == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(n.Array)
	case KindMap:
		return json.Marshal(n.Map)
	}
	return nil, fmt.Errorf("mpv: cannot marshal node kind %s", n.Kind)
}

// ParseJSON converts a frontend JSON value into a Node, keeping object key
// order. Numbers without a fractional part become int64 nodes, everything
// else double.
func ParseJSON(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := parseValue(dec)
	if err != nil {
		return Node{}, err
	}
	if dec.More() {
		return Node{}, fmt.Errorf("mpv: trailing data after JSON value")
	}
	return n, nil
}

func parseValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return Node{}, err
	}
	return parseToken(dec, tok)
}

func parseToken(dec *json.Decoder, tok json.Token) (Node, error) {
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FlagNode(t), nil
	case string:
		return StringNode(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return IntNode(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Node{}, fmt.Errorf("mpv: bad number %q: %w", t.String(), err)
		}
		return FloatNode(f), nil
	case json.Delim:
		switch t {
		case '[':
			arr := []Node{}
			for dec.More() {
				item, err := parseValue(dec)
				if err != nil {
					return Node{}, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return Node{}, err
			}
			return Node{Kind: KindArray, Array: arr}, nil
		case '{':
			m := orderedmap.New[string, Node]()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Node{}, fmt.Errorf("mpv: object key is not a string: %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return Node{}, err
				}
				m.Set(key, val)
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return Node{}, err
			}
			return Node{Kind: KindMap, Map: m}, nil
		}
	}
	return Node{}, fmt.Errorf("mpv: unexpected JSON token %v", tok)
}

// CommandArg renders a raw frontend JSON value the way mpv commands expect
// string arguments: booleans become yes/no, numbers and strings pass through
// losslessly, composite values keep their JSON text.
func CommandArg(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	}
	switch t := tok.(type) {
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case json.Number:
		return t.String()
	case string:
		return t
	default:
		return string(bytes.Trim(bytes.TrimSpace(raw), `"`))
	}
}
