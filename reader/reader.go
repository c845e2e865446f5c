package reader

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/tsawler/scenery/core"
	"golang.org/x/net/html/charset"
)

// DecodeError reports a document that could not be decoded or is not
// well-formed markup. It is always fatal to the run.
type DecodeError struct {
	Encoding Encoding
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s document: %v", e.Encoding, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Read decodes raw document bytes and parses them into a node tree.
func Read(data []byte) (*core.Node, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Encoding: UTF8, Err: errors.New("empty document")}
	}

	text, enc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	root, err := parse(bytes.NewReader(text), enc != Declared)
	if err != nil {
		return nil, &DecodeError{Encoding: enc, Err: err}
	}
	return root, nil
}

// Open reads and parses a stage document from disk.
func Open(filename string) (*core.Node, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Read(data)
}

// Parse parses UTF-8 markup from r into a node tree.
func Parse(r io.Reader) (*core.Node, error) {
	root, err := parse(r, true)
	if err != nil {
		return nil, &DecodeError{Encoding: UTF8, Err: err}
	}
	return root, nil
}

// parse builds the node tree. When unicodeInput is false the prolog's
// declared encoding is transcoded through golang.org/x/net/html/charset.
func parse(r io.Reader, unicodeInput bool) (*core.Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(label string, input io.Reader) (io.Reader, error) {
		if unicodeInput || isUnicodeLabel(label) {
			return input, nil
		}
		return charset.NewReaderLabel(label, input)
	}

	// pending holds an element's tag and attributes until its end tag is
	// seen, at which point the node is built with its children.
	type pending struct {
		tag      string
		attrs    []core.Attr
		children []*core.Node
	}

	var (
		stack []*pending
		root  *core.Node
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("multiple root elements: <%s> after <%s>", t.Name.Local, root.Tag)
			}
			attrs := make([]core.Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, core.Attr{Name: a.Name.Local, Value: a.Value})
			}
			stack = append(stack, &pending{tag: t.Name.Local, attrs: attrs})

		case xml.EndElement:
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			node := core.NewNode(top.tag, top.attrs, top.children...)
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, node)
			}
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].tag)
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}
