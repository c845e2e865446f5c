package reader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/scenery/core"
	"golang.org/x/text/encoding/unicode"
)

// stageXML is a minimal stage dump with one scenario holding one object
const stageXML = `<?xml version="1.0" encoding="utf-8"?>
<Root>
  <BymlRoot>
    <T192>
      <T193>
        <T192 N="ObjectList">
          <T193>
            <T160 N="Id" V="obj1" />
            <T160 N="ModelName" V="Rock01" />
            <T193 N="Translate">
              <T210 N="X" V="1" />
              <T210 N="Y" V="2" />
              <T210 N="Z" V="3" />
            </T193>
          </T193>
        </T192>
      </T193>
    </T192>
  </BymlRoot>
</Root>`

func utf16Bytes(t *testing.T, endian unicode.Endianness, s string) []byte {
	t.Helper()
	out, err := unicode.UTF16(endian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encoding UTF-16: %v", err)
	}
	return out
}

func TestDetectEncoding(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Encoding
	}{
		{"no BOM", []byte("<a/>"), UTF8},
		{"UTF-8 BOM", append([]byte{0xEF, 0xBB, 0xBF}, "<a/>"...), UTF8BOM},
		{"UTF-16LE BOM", []byte{0xFF, 0xFE, '<', 0}, UTF16LE},
		{"UTF-16BE BOM", []byte{0xFE, 0xFF, 0, '<'}, UTF16BE},
		{"empty", nil, UTF8},
		{"single byte", []byte{0xFF}, UTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEncoding(tt.data); got != tt.want {
				t.Errorf("DetectEncoding() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncoding_String(t *testing.T) {
	tests := []struct {
		enc  Encoding
		want string
	}{
		{UTF8, "UTF-8"},
		{UTF8BOM, "UTF-8 (BOM)"},
		{UTF16LE, "UTF-16LE"},
		{UTF16BE, "UTF-16BE"},
		{Declared, "declared"},
		{Encoding(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.enc.String(); got != tt.want {
			t.Errorf("Encoding(%d).String() = %q, want %q", tt.enc, got, tt.want)
		}
	}
}

// TestReadAllEncodingsProduceSameTree checks that the same logical document
// parses to an identical tree whatever byte order mark it carries.
func TestReadAllEncodingsProduceSameTree(t *testing.T) {
	want, err := Read([]byte(stageXML))
	if err != nil {
		t.Fatalf("Read(UTF-8) error = %v", err)
	}

	variants := map[string][]byte{
		"UTF-8 BOM": append([]byte{0xEF, 0xBB, 0xBF}, stageXML...),
		"UTF-16LE":  utf16Bytes(t, unicode.LittleEndian, stageXML),
		"UTF-16BE":  utf16Bytes(t, unicode.BigEndian, stageXML),
	}

	for name, data := range variants {
		t.Run(name, func(t *testing.T) {
			got, err := Read(data)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !core.Equal(got, want) {
				t.Error("tree differs from the UTF-8 parse")
			}
		})
	}
}

func TestReadUTF16WithUTF16Prolog(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-16"?><Root><T160 N="ModelName" V="Kinopio" /></Root>`
	root, err := Read(utf16Bytes(t, unicode.LittleEndian, doc))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if v, ok := root.StringField("ModelName"); !ok || v != "Kinopio" {
		t.Errorf("ModelName = %q, %v", v, ok)
	}
}

func TestReadPreservesStructure(t *testing.T) {
	root, err := Read([]byte(stageXML))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if root.Tag != "Root" || root.Kind != core.KindElement {
		t.Fatalf("root = %s (%v), want Root element", root.Tag, root.Kind)
	}

	obj := root.FindTag("BymlRoot").FindGroup(core.KindArray).Children[0].
		FindChild(core.KindArray, "ObjectList").Children[0]

	var names []string
	for _, c := range obj.Children {
		n, _ := c.Name()
		names = append(names, n)
	}
	want := []string{"Id", "ModelName", "Translate"}
	if len(names) != len(want) {
		t.Fatalf("children = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("child %d = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestReadUTF16SurrogatePair(t *testing.T) {
	for _, endian := range []unicode.Endianness{unicode.LittleEndian, unicode.BigEndian} {
		root, err := Read(utf16Bytes(t, endian, `<T160 N="Model😀" V="x"/>`))
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if name, _ := root.Name(); name != "Model😀" {
			t.Errorf("name = %q, want %q", name, "Model😀")
		}
	}
}

func TestReadDeclaredLegacyEncoding(t *testing.T) {
	// 0xE9 is "é" in ISO-8859-1 and not valid UTF-8 on its own.
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<Root><T160 N=\"ModelName\" V=\"Caf\xe9\" /></Root>")

	_, enc, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if enc != Declared {
		t.Errorf("Decode() encoding = %v, want Declared", enc)
	}

	root, err := Read(data)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if v, _ := root.StringField("ModelName"); v != "Café" {
		t.Errorf("ModelName = %q, want Café", v)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantEnc Encoding
	}{
		{"empty", nil, UTF8},
		{"invalid UTF-8", []byte("<Root V=\"\xc3\x28\"/>"), UTF8},
		{"invalid UTF-8 after BOM", []byte{0xEF, 0xBB, 0xBF, '<', 0xC3, 0x28, '/', '>'}, UTF8BOM},
		{"odd UTF-16", []byte{0xFF, 0xFE, '<', 0, 'a'}, UTF16LE},
		{"lone high surrogate LE", []byte{0xFF, 0xFE, '<', 0, 'A', 0, ' ', 0, 'N', 0, '=', 0, '"', 0, 0x00, 0xD8, '"', 0, '/', 0, '>', 0}, UTF16LE},
		{"lone low surrogate BE", []byte{0xFE, 0xFF, 0, '<', 0, 'A', 0, ' ', 0, 'N', 0, '=', 0, '"', 0xDC, 0x00, 0, '"', 0, '/', 0, '>'}, UTF16BE},
		{"high surrogate at end", []byte{0xFF, 0xFE, '<', 0, 0x3D, 0xD8}, UTF16LE},
		{"unclosed element", []byte("<Root><T193>"), UTF8},
		{"mismatched tags", []byte("<Root></T193>"), UTF8},
		{"no root", []byte("<?xml version=\"1.0\"?>"), UTF8},
		{"two roots", []byte("<A/><B/>"), UTF8},
		{"not markup", []byte("{\"PlacementInfo\": {}}"), UTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(tt.data)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("Read() error = %v, want *DecodeError", err)
			}
			if de.Encoding != tt.wantEnc {
				t.Errorf("DecodeError.Encoding = %v, want %v", de.Encoding, tt.wantEnc)
			}
		})
	}
}

func TestParse(t *testing.T) {
	root, err := Parse(strings.NewReader(stageXML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if root.FindTag("BymlRoot") == nil {
		t.Error("BymlRoot not found")
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.xml")
	if err := os.WriteFile(path, utf16Bytes(t, unicode.BigEndian, stageXML), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	root, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if root.Tag != "Root" {
		t.Errorf("root tag = %q", root.Tag)
	}
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open("/nonexistent/stage.xml")
	if err == nil {
		t.Fatal("Open() should fail for a missing file")
	}
	var de *DecodeError
	if errors.As(err, &de) {
		t.Error("a missing file is not a DecodeError")
	}
}
