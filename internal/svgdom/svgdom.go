// Package svgdom implements a small retained SVG element tree.
//
// Layers build their output as Elements, mutate them in place (attribute
// updates, visibility toggles) and reorder siblings without rebuilding the
// tree. WriteTo serializes the tree to SVG text with deterministic
// attribute order.
package svgdom

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Element is a single SVG element: a tag, attributes, optional text
// content and an ordered list of children.
//
// An Element belongs to at most one parent. AppendChild and InsertBefore
// detach the child from its previous parent first.
type Element struct {
	tag      string
	parent   *Element
	attrs    map[string]string
	children []*Element
	text     string
}

// New creates a detached element with the given tag.
func New(tag string) *Element {
	return &Element{
		tag:   tag,
		attrs: make(map[string]string),
	}
}

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// SetAttr sets an attribute and returns the element for chaining.
func (e *Element) SetAttr(key, value string) *Element {
	e.attrs[key] = value
	return e
}

// Attr returns the attribute value, or "" if unset.
func (e *Element) Attr(key string) string { return e.attrs[key] }

// HasAttr reports whether the attribute is set.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.attrs[key]
	return ok
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(key string) {
	delete(e.attrs, key)
}

// SetText sets the element's text content.
func (e *Element) SetText(text string) *Element {
	e.text = text
	return e
}

// Text returns the element's text content.
func (e *Element) Text() string { return e.text }

// Parent returns the element's parent, or nil for a detached element.
func (e *Element) Parent() *Element { return e.parent }

// AppendChild attaches child as the last child of e.
func (e *Element) AppendChild(child *Element) *Element {
	child.Remove()
	child.parent = e
	e.children = append(e.children, child)
	return e
}

// InsertBefore attaches child immediately before ref. A nil ref appends.
// If ref is not a child of e the call is a no-op.
func (e *Element) InsertBefore(child, ref *Element) {
	if ref == nil {
		e.AppendChild(child)
		return
	}
	if ref.parent != e {
		return
	}
	child.Remove()
	idx := e.indexOf(ref)
	child.parent = e
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = child
}

// Remove detaches e from its parent. Detached elements are no-ops.
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	p := e.parent
	idx := p.indexOf(e)
	if idx >= 0 {
		p.children = append(p.children[:idx], p.children[idx+1:]...)
	}
	e.parent = nil
}

// RemoveChildren detaches all children of e.
func (e *Element) RemoveChildren() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Children returns a copy of the child list in document order.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildCount returns the number of direct children.
func (e *Element) ChildCount() int { return len(e.children) }

// Child returns the i-th child, or nil if out of range.
func (e *Element) Child(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// Index returns the position of child within e, or -1.
func (e *Element) Index(child *Element) int { return e.indexOf(child) }

func (e *Element) indexOf(child *Element) int {
	for i, c := range e.children {
		if c == child {
			return i
		}
	}
	return -1
}

// FindByAttr returns the first descendant (depth-first, document order)
// whose attribute key equals value, or nil.
func (e *Element) FindByAttr(key, value string) *Element {
	for _, c := range e.children {
		if c.attrs[key] == value {
			return c
		}
		if found := c.FindByAttr(key, value); found != nil {
			return found
		}
	}
	return nil
}

// Reorder rearranges the children of parent to match desired, using
// insert-before moves only. Elements of parent not listed in desired keep
// their relative order and end up after the listed ones. Elements in
// desired that are not children of parent are ignored.
//
// The walk is O(n) moves: it advances a cursor through the current child
// list and inserts each desired element at the cursor when it is out of
// place.
func Reorder(parent *Element, desired []*Element) {
	cursor := 0
	for _, want := range desired {
		if want.parent != parent {
			continue
		}
		idx := parent.indexOf(want)
		if idx == cursor {
			cursor++
			continue
		}
		var ref *Element
		if cursor < len(parent.children) {
			ref = parent.children[cursor]
		}
		parent.InsertBefore(want, ref)
		cursor++
	}
}

// WriteTo serializes the element and its subtree as SVG text.
// Attributes are written in sorted key order so output is deterministic.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	e.write(&sb)
	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

// String returns the serialized subtree.
func (e *Element) String() string {
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Element) write(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(e.tag)
	keys := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(sb, ` %s="%s"`, k, escape(e.attrs[k]))
	}
	if len(e.children) == 0 && e.text == "" {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	if e.text != "" {
		sb.WriteString(escape(e.text))
	}
	for _, c := range e.children {
		c.write(sb)
	}
	sb.WriteString("</")
	sb.WriteString(e.tag)
	sb.WriteByte('>')
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escape(s string) string {
	return escaper.Replace(s)
}
