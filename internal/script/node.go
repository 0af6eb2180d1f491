// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package script

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdxcore/atlas/internal/token"
)

// Kind identifies the variant of a Node, per spec §3.
type Kind int

const (
	Scalar Kind = iota
	Object
	List
	DateKind
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "Scalar"
	case Object:
		return "Object"
	case List:
		return "List"
	case DateKind:
		return "Date"
	default:
		return "Unknown"
	}
}

// ScalarType identifies the typed value a Scalar Node carries.
type ScalarType int

const (
	StringValue ScalarType = iota
	IntegerValue
	FloatValue
	BoolValue
	DateValue
)

// Value is the typed payload of a Scalar Node.
type Value struct {
	Type  ScalarType
	Str   string
	Int   int64
	Float float64
	Bool  bool
	Date  token.DateValue
}

func (v Value) String() string {
	switch v.Type {
	case StringValue:
		return v.Str
	case IntegerValue:
		return fmt.Sprintf("%d", v.Int)
	case FloatValue:
		return fmt.Sprintf("%g", v.Float)
	case BoolValue:
		if v.Bool {
			return "yes"
		}
		return "no"
	case DateValue:
		return v.Date.String()
	default:
		return ""
	}
}

// Node is the generic parse tree produced by Parse. Exactly one of the
// field groups below is meaningful, selected by Kind:
//
//	Scalar: Value
//	Object: Children (DateKind also uses Children, plus Date)
//	List:   Items
type Node struct {
	Kind Kind
	Key  string
	Pos  token.Pos

	Value Value

	Children map[string]*Node // Object, DateKind
	order    []string         // insertion order of Children keys, for stable iteration

	Items []*Node // List

	Date token.DateValue // DateKind only
}

// NewObject returns an empty Object node with the given key.
func NewObject(key string, pos token.Pos) *Node {
	return &Node{Kind: Object, Key: key, Pos: pos, Children: map[string]*Node{}}
}

// NewList returns an empty List node with the given key.
func NewList(key string, pos token.Pos) *Node {
	return &Node{Kind: List, Key: key, Pos: pos}
}

// NewScalar returns a Scalar node.
func NewScalar(key string, pos token.Pos, v Value) *Node {
	return &Node{Kind: Scalar, Key: key, Pos: pos, Value: v}
}

// IsObjectLike reports whether n has a Children map (Object or DateKind).
func (n *Node) IsObjectLike() bool {
	return n != nil && (n.Kind == Object || n.Kind == DateKind)
}

// addChild inserts child under key, applying spec §3's duplicate-key
// promotion: first occurrence stored as-is; second promotes the slot to
// a List holding both (each stripped of its key, per "List children have
// empty keys"); subsequent duplicates append to that List, preserving
// order of appearance.
func (n *Node) addChild(key string, child *Node) {
	if n.Children == nil {
		n.Children = map[string]*Node{}
	}
	child.Key = key
	existing, ok := n.Children[key]
	if !ok {
		n.Children[key] = child
		n.order = append(n.order, key)
		return
	}
	if existing.Kind == List {
		child.Key = ""
		existing.Items = append(existing.Items, child)
		return
	}
	existing.Key = ""
	child.Key = ""
	list := &Node{Kind: List, Key: key, Pos: existing.Pos, Items: []*Node{existing, child}}
	n.Children[key] = list
}

// OrderedKeys returns the child keys of an Object/DateKind node in the
// order they were first seen in the source.
func (n *Node) OrderedKeys() []string {
	if n == nil {
		return nil
	}
	keys := make([]string, len(n.order))
	copy(keys, n.order)
	return keys
}

// Get returns the single child Node at key, or nil. If key was
// duplicated (so the child is actually a List), Get still returns that
// List node — callers that want a uniform "all values for key" view
// should use GetValues.
func (n *Node) Get(key string) *Node {
	if n == nil || n.Children == nil {
		return nil
	}
	return n.Children[key]
}

// GetValues returns every Node stored under key as a flat slice,
// regardless of whether the source had one occurrence (a single
// non-List child) or many (a List child). Per spec §9, extractors
// should uniformly call this instead of special-casing List.
func (n *Node) GetValues(key string) []*Node {
	c := n.Get(key)
	if c == nil {
		return nil
	}
	if c.Kind == List {
		return c.Items
	}
	return []*Node{c}
}

// String renders a Node tree for debugging/logging, sorted by key for
// determinism.
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb, 0)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	if n == nil {
		sb.WriteString(indent + "<nil>\n")
		return
	}
	switch n.Kind {
	case Scalar:
		fmt.Fprintf(sb, "%s%s = %s\n", indent, n.Key, n.Value.String())
	case List:
		fmt.Fprintf(sb, "%s%s = [\n", indent, n.Key)
		for _, item := range n.Items {
			item.write(sb, depth+1)
		}
		fmt.Fprintf(sb, "%s]\n", indent)
	case Object, DateKind:
		label := n.Key
		if n.Kind == DateKind {
			label = n.Date.String()
		}
		fmt.Fprintf(sb, "%s%s = {\n", indent, label)
		keys := append([]string(nil), n.order...)
		sort.Strings(keys)
		for _, k := range keys {
			n.Children[k].write(sb, depth+1)
		}
		fmt.Fprintf(sb, "%s}\n", indent)
	}
}
