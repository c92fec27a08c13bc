package iniconf

import "fmt"

// Kind discriminates the two variants of a Value.
type Kind int

const (
	// KindScalar is a plain text value.
	KindScalar Kind = iota
	// KindSection is a nested Node.
	KindSection
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSection:
		return "section"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is either a scalar string or a section. The zero Value is the
// empty scalar.
type Value struct {
	kind    Kind
	text    string
	section *Node
}

// Scalar wraps a text value.
func Scalar(s string) Value {
	return Value{kind: KindScalar, text: s}
}

// Section wraps a nested node. A nil node is replaced by an empty one.
func Section(n *Node) Value {
	if n == nil {
		n = New()
	}

	return Value{kind: KindSection, section: n}
}

// Kind returns the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsSection reports whether v holds a nested node.
func (v Value) IsSection() bool {
	return v.kind == KindSection
}

// Text returns the scalar text, or "" for sections.
func (v Value) Text() string {
	return v.text
}

// Node returns the nested node, or nil for scalars.
func (v Value) Node() *Node {
	return v.section
}

func (v Value) String() string {
	if v.kind == KindSection {
		return "[section]"
	}

	return v.text
}
