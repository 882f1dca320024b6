package mpv

import "fmt"

// Format selects the representation mpv uses for a property read, write or
// observation. The wire names match mpv's own ("flag", "int64", "double",
// "string", "node").
type Format int

const (
	FormatNone Format = iota
	FormatFlag
	FormatInt64
	FormatDouble
	FormatString
	FormatNode
)

func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatFlag:
		return "flag"
	case FormatInt64:
		return "int64"
	case FormatDouble:
		return "double"
	case FormatString:
		return "string"
	case FormatNode:
		return "node"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// ParseFormat maps a frontend format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "flag":
		return FormatFlag, nil
	case "int64":
		return FormatInt64, nil
	case "double":
		return FormatDouble, nil
	case "string":
		return FormatString, nil
	case "node":
		return FormatNode, nil
	}
	return FormatNone, fmt.Errorf("mpv: unknown property format %q", name)
}

// MarshalText lets Format round-trip through JSON config payloads.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) error {
	parsed, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
