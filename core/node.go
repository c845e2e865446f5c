package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Attr is a single markup attribute.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a parsed stage document. Its Kind is resolved from
// the tag once, at parse time. Nodes are not modified after parsing.
type Node struct {
	Tag      string
	Kind     Kind
	Attrs    []Attr
	Children []*Node

	name     string
	hasName  bool
	value    string
	hasValue bool
}

// NewNode creates a node from its tag and attributes. The semantic name is
// taken from the "N" attribute (or "name"), the value from "V" (or "value").
func NewNode(tag string, attrs []Attr, children ...*Node) *Node {
	n := &Node{
		Tag:      tag,
		Kind:     ParseKind(tag),
		Attrs:    attrs,
		Children: children,
	}
	for _, a := range attrs {
		switch a.Name {
		case "N", "name":
			if !n.hasName {
				n.name, n.hasName = a.Value, true
			}
		case "V", "value":
			if !n.hasValue {
				n.value, n.hasValue = a.Value, true
			}
		}
	}
	return n
}

// Name returns the node's semantic name and whether it has one.
func (n *Node) Name() (string, bool) {
	if n == nil {
		return "", false
	}
	return n.name, n.hasName
}

// Value returns the node's raw value attribute and whether it has one.
func (n *Node) Value() (string, bool) {
	if n == nil {
		return "", false
	}
	return n.value, n.hasValue
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Len returns the number of children
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// FindChild returns the first direct child with the given kind and name,
// or nil if there is none.
func (n *Node) FindChild(kind Kind, name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind != kind {
			continue
		}
		if cn, ok := c.Name(); ok && cn == name {
			return c
		}
	}
	return nil
}

// FindGroup returns the first direct child with the given kind, or nil.
func (n *Node) FindGroup(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FindTag returns the first direct child with the given tag, or nil. It is
// used for the untyped wrapper elements around the typed tree.
func (n *Node) FindTag(tag string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Text returns the value of a String node.
func (n *Node) Text() (string, bool) {
	if n == nil || n.Kind != KindString {
		return "", false
	}
	return n.Value()
}

// StringField returns the value of the String child with the given name.
// A missing child and an empty value both report false.
func (n *Node) StringField(name string) (string, bool) {
	s, ok := n.FindChild(KindString, name).Text()
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Float parses the value of a numeric node.
func (n *Node) Float() (float64, error) {
	if n == nil {
		return 0, fmt.Errorf("nil node")
	}
	if !n.Kind.IsNumeric() {
		return 0, fmt.Errorf("%s node %s is not numeric", n.Kind, n.describe())
	}
	v, ok := n.Value()
	if !ok {
		return 0, fmt.Errorf("%s node %s has no value", n.Kind, n.describe())
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("%s node %s: %w", n.Kind, n.describe(), err)
	}
	return f, nil
}

// Bool parses the value of a Bool node.
func (n *Node) Bool() (bool, error) {
	if n == nil || n.Kind != KindBool {
		return false, fmt.Errorf("not a Bool node")
	}
	v, _ := n.Value()
	return parseBool(v)
}

// describe returns a short label for error messages
func (n *Node) describe() string {
	if name, ok := n.Name(); ok {
		return strconv.Quote(name)
	}
	return "<" + n.Tag + ">"
}

// Walk calls fn for n and every descendant in document order. Returning
// false from fn skips that node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Equal reports whether two trees have identical tags, attributes and
// child order.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Tag != b.Tag || len(a.Attrs) != len(b.Attrs) || len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Attrs {
		if a.Attrs[i] != b.Attrs[i] {
			return false
		}
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
