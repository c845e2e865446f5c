package reader

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Encoding is the text encoding a stage document was stored in.
type Encoding int

const (
	// UTF8 is UTF-8 without a byte order mark (the default).
	UTF8 Encoding = iota
	// UTF8BOM is UTF-8 preceded by EF BB BF.
	UTF8BOM
	// UTF16LE is little-endian UTF-16 preceded by FF FE.
	UTF16LE
	// UTF16BE is big-endian UTF-16 preceded by FE FF.
	UTF16BE
	// Declared is a legacy encoding named in the XML prolog, transcoded while parsing.
	Declared
)

// String returns the string representation of the encoding.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF8BOM:
		return "UTF-8 (BOM)"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	case Declared:
		return "declared"
	default:
		return "Unknown"
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectEncoding determines the encoding from the byte order mark.
// Data without a BOM is assumed to be UTF-8.
func DetectEncoding(data []byte) Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(data, bomUTF16BE):
		return UTF16BE
	case bytes.HasPrefix(data, bomUTF8):
		return UTF8BOM
	default:
		return UTF8
	}
}

// prologEncoding matches the encoding pseudo-attribute of an XML declaration
var prologEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*?\sencoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)

// declaredEncoding returns the encoding label in the XML prolog, if any.
func declaredEncoding(data []byte) string {
	head := data
	if len(head) > 256 {
		head = head[:256]
	}
	m := prologEncoding.FindSubmatch(head)
	if m == nil {
		return ""
	}
	return string(m[1])
}

// isUnicodeLabel reports whether an encoding label names UTF-8 or UTF-16.
// Once the BOM has been handled those need no further transcoding.
func isUnicodeLabel(label string) bool {
	l := strings.ToLower(label)
	return strings.HasPrefix(l, "utf-8") || strings.HasPrefix(l, "utf8") ||
		strings.HasPrefix(l, "utf-16") || strings.HasPrefix(l, "utf16") ||
		l == "unicode" || l == "ucs-2"
}

// Decode converts raw document bytes to UTF-8 according to the byte order
// mark. Data without a BOM must already be UTF-8 unless its prolog declares
// some other encoding, in which case it is returned as-is with the Declared
// encoding and transcoded by the XML parser.
func Decode(data []byte) ([]byte, Encoding, error) {
	enc := DetectEncoding(data)

	switch enc {
	case UTF16LE, UTF16BE:
		body := data[2:]
		if len(body)%2 != 0 {
			return nil, enc, &DecodeError{Encoding: enc, Err: fmt.Errorf("odd byte count %d", len(body))}
		}
		if err := checkSurrogates(body, enc == UTF16BE); err != nil {
			return nil, enc, &DecodeError{Encoding: enc, Err: err}
		}
		endian := unicode.LittleEndian
		if enc == UTF16BE {
			endian = unicode.BigEndian
		}
		out, err := unicode.UTF16(endian, unicode.IgnoreBOM).NewDecoder().Bytes(body)
		if err != nil {
			return nil, enc, &DecodeError{Encoding: enc, Err: err}
		}
		return out, enc, nil

	case UTF8BOM:
		body := data[len(bomUTF8):]
		if !utf8.Valid(body) {
			return nil, enc, &DecodeError{Encoding: enc, Err: fmt.Errorf("invalid UTF-8")}
		}
		return body, enc, nil
	}

	if label := declaredEncoding(data); label != "" && !isUnicodeLabel(label) {
		return data, Declared, nil
	}
	if !utf8.Valid(data) {
		return nil, enc, &DecodeError{Encoding: enc, Err: fmt.Errorf("invalid UTF-8")}
	}
	return data, enc, nil
}

// checkSurrogates rejects UTF-16 code units that do not form valid
// surrogate pairs. The x/text decoder would replace them with U+FFFD.
func checkSurrogates(body []byte, bigEndian bool) error {
	unit := func(i int) rune {
		if bigEndian {
			return rune(body[i])<<8 | rune(body[i+1])
		}
		return rune(body[i+1])<<8 | rune(body[i])
	}

	for i := 0; i < len(body); i += 2 {
		u := unit(i)
		if !utf16.IsSurrogate(u) {
			continue
		}
		if u >= 0xDC00 {
			return fmt.Errorf("unpaired low surrogate %#04x at byte %d", u, i)
		}
		if i+2 >= len(body) {
			return fmt.Errorf("unpaired high surrogate %#04x at byte %d", u, i)
		}
		next := unit(i + 2)
		if next < 0xDC00 || next > 0xDFFF {
			return fmt.Errorf("unpaired high surrogate %#04x at byte %d", u, i)
		}
		i += 2
	}
	return nil
}
