// Package format provides input format detection for scenery.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// StageXML indicates a BYML stage document dumped to XML.
	StageXML
	// Manifest indicates a JSON placement manifest.
	Manifest
	// BYML indicates a binary BYML file. It has to be dumped to XML first.
	BYML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case StageXML:
		return "StageXML"
	case Manifest:
		return "Manifest"
	case BYML:
		return "BYML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case StageXML:
		return ".xml"
	case Manifest:
		return ".json"
	case BYML:
		return ".byml"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return StageXML
	case ".json":
		return Manifest
	case ".byml", ".byaml", ".bgyml":
		return BYML
	default:
		return Unknown
	}
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// DetectFromMagic checks the leading bytes to determine format.
// Returns Unknown if the format cannot be determined from content alone.
func DetectFromMagic(data []byte) Format {
	// BYML magic: "BY" (big endian) or "YB" (little endian)
	if len(data) >= 4 && (bytes.HasPrefix(data, []byte("BY")) || bytes.HasPrefix(data, []byte("YB"))) {
		return BYML
	}

	width, le := 1, false
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		data, width, le = data[len(bomUTF16LE):], 2, true
	case bytes.HasPrefix(data, bomUTF16BE):
		data, width = data[len(bomUTF16BE):], 2
	}

	for i := 0; i+width <= len(data); i += width {
		c := data[i]
		if width == 2 {
			hi, lo := data[i], data[i+1]
			if le {
				hi, lo = lo, hi
			}
			if hi != 0 {
				return Unknown
			}
			c = lo
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '<':
			return StageXML
		case '{':
			return Manifest
		default:
			return Unknown
		}
	}
	return Unknown
}

// DetectFromReader inspects the content to determine format.
func DetectFromReader(r io.ReaderAt) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	return DetectFromMagic(magic[:n]), nil
}

// DetectFile detects the format of the file at path from its content,
// falling back to its extension.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	format, err := DetectFromReader(f)
	if err != nil {
		return Unknown, fmt.Errorf("failed to read file: %w", err)
	}
	if format == Unknown {
		format = Detect(path)
	}
	return format, nil
}
