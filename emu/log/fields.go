package log

import (
	"fmt"
	"strconv"
)

type FieldType uint8

const (
	FieldString FieldType = iota + 1
	FieldInt
	FieldUint
	FieldHex8
	FieldFloat
	FieldError
)

// ZField is a typed key/value pair of an EntryZ. Integer holds the bits of
// both signed and unsigned values.
type ZField struct {
	Type    FieldType
	Key     string
	String  string
	Integer uint64
	Float   float64
	Error   error
}

// Value formats the field the way it appears in the log line. Register
// addresses and data are hex without prefix, as in stimulus files.
func (f *ZField) Value() string {
	switch f.Type {
	case FieldString:
		return f.String
	case FieldInt:
		return strconv.FormatInt(int64(f.Integer), 10)
	case FieldUint:
		return strconv.FormatUint(f.Integer, 10)
	case FieldHex8:
		return fmt.Sprintf("%02x", uint8(f.Integer))
	case FieldFloat:
		return strconv.FormatFloat(f.Float, 'g', -1, 64)
	case FieldError:
		if f.Error == nil {
			return "<nil>"
		}
		return f.Error.Error()
	}
	return ""
}
