package log

import (
	"fmt"
	"strconv"
)

type FieldType uint8

const (
	FieldTypeUnknown FieldType = iota
	FieldTypeBool
	FieldTypeString
	FieldTypeHex8
	FieldTypeHex16
	FieldTypeInt
	FieldTypeError
	FieldTypeStringer
)

// ZField is a typed key/value pair, formatted only when its entry is emitted.
type ZField struct {
	Type FieldType
	Key  string

	str string
	num int64
	err error
	obj fmt.Stringer
}

func (f *ZField) Value() string {
	switch f.Type {
	case FieldTypeBool:
		return strconv.FormatBool(f.num != 0)
	case FieldTypeString:
		return f.str
	case FieldTypeInt:
		return strconv.FormatInt(f.num, 10)
	case FieldTypeHex8:
		return fmt.Sprintf("%02X", uint8(f.num))
	case FieldTypeHex16:
		return fmt.Sprintf("%04X", uint16(f.num))
	case FieldTypeError:
		if f.err == nil {
			return "<nil>"
		}
		return f.err.Error()
	case FieldTypeStringer:
		if f.obj == nil {
			return "<nil>"
		}
		return f.obj.String()
	}
	return ""
}
