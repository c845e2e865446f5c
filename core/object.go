package core

import (
	"strconv"
	"strings"
)

// Kind represents the type of a BYML node. Stage documents dumped to XML
// encode the kind as the element tag: "T" followed by the node type code in
// decimal (T210 is a float, T193 a dictionary, and so on).
type Kind int

const (
	KindElement Kind = iota // plain markup element such as BymlRoot
	KindString
	KindBinary
	KindArray
	KindDict
	KindStringTable
	KindBool
	KindInt
	KindFloat
	KindUInt
	KindInt64
	KindUInt64
	KindDouble
	KindNull
	KindUnknown // T-prefixed tag with an unrecognised code
)

// node type codes as they appear in the binary format
var kindCodes = map[int]Kind{
	0xA0: KindString,
	0xA1: KindBinary,
	0xC0: KindArray,
	0xC1: KindDict,
	0xC2: KindStringTable,
	0xD0: KindBool,
	0xD1: KindInt,
	0xD2: KindFloat,
	0xD3: KindUInt,
	0xD4: KindInt64,
	0xD5: KindUInt64,
	0xD6: KindDouble,
	0xFF: KindNull,
}

// ParseKind resolves an element tag to its Kind.
func ParseKind(tag string) Kind {
	if len(tag) < 2 || tag[0] != 'T' {
		return KindElement
	}
	code, err := strconv.Atoi(tag[1:])
	if err != nil {
		return KindElement
	}
	if k, ok := kindCodes[code]; ok {
		return k
	}
	return KindUnknown
}

// Tag returns the element tag used for the kind, or "" for KindElement
// and KindUnknown.
func (k Kind) Tag() string {
	for code, kind := range kindCodes {
		if kind == k {
			return "T" + strconv.Itoa(code)
		}
	}
	return ""
}

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindString:
		return "String"
	case KindBinary:
		return "Binary"
	case KindArray:
		return "Array"
	case KindDict:
		return "Dict"
	case KindStringTable:
		return "StringTable"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindUInt:
		return "UInt"
	case KindInt64:
		return "Int64"
	case KindUInt64:
		return "UInt64"
	case KindDouble:
		return "Double"
	case KindNull:
		return "Null"
	default:
		return "Unknown"
	}
}

// IsScalar reports whether nodes of this kind carry a value rather than children.
func (k Kind) IsScalar() bool {
	switch k {
	case KindString, KindBinary, KindBool, KindInt, KindFloat, KindUInt,
		KindInt64, KindUInt64, KindDouble, KindNull:
		return true
	}
	return false
}

// IsNumeric reports whether the kind holds a number.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindInt, KindFloat, KindUInt, KindInt64, KindUInt64, KindDouble:
		return true
	}
	return false
}

// IsContainer reports whether the kind holds child nodes.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindDict || k == KindStringTable || k == KindElement
}

// parseBool accepts the spellings BYML dumpers use for booleans
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return strconv.ParseBool(s)
}
