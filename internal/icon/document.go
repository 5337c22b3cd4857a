package icon

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
)

// Attr is a single attribute on an element. Attributes keep the order in
// which they were set.
type Attr struct {
	Name  string
	Value string
}

// Element is one node of a vector document: a shape, a definition or a
// container. Children render in order, later ones on top.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
}

// NewElement returns an empty element with the given tag.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// Set assigns a string attribute. An existing attribute keeps its position.
func (e *Element) Set(name, value string) *Element {
	for i := range e.Attrs {
		if e.Attrs[i].Name == name {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, Attr{Name: name, Value: value})
	return e
}

// SetNum assigns a numeric attribute using the shortest decimal form that
// round-trips (8, 28.8, 0.2).
func (e *Element) SetNum(name string, v float64) *Element {
	return e.Set(name, strconv.FormatFloat(v, 'f', -1, 64))
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Num returns the named attribute parsed as a float. Missing attributes
// read as 0, which is also the SVG default for coordinates.
func (e *Element) Num(name string) (float64, error) {
	v, ok := e.Attr(name)
	if !ok {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
}

// Add appends a new child element and returns it.
func (e *Element) Add(tag string) *Element {
	child := NewElement(tag)
	e.Children = append(e.Children, child)
	return child
}

// Find returns the first descendant (depth-first, pre-order) with the
// given tag, or nil.
func (e *Element) Find(tag string) *Element {
	var found *Element
	e.Walk(func(el *Element) bool {
		if el != e && el.Tag == tag {
			found = el
			return false
		}
		return true
	})
	return found
}

// Walk visits e and its descendants in document order. Returning false
// from fn stops the walk.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Document is a vector image with a single root canvas.
type Document struct {
	Root *Element
}

// NewDocument returns a document whose root is an <svg> canvas of the given
// square size with a matching viewBox.
func NewDocument(size float64) *Document {
	root := NewElement("svg")
	root.SetNum("width", size)
	root.SetNum("height", size)
	s := strconv.FormatFloat(size, 'f', -1, 64)
	root.Set("viewBox", "0 0 "+s+" "+s)
	root.Set("xmlns", "http://www.w3.org/2000/svg")
	return &Document{Root: root}
}

// Shapes returns the drawable primitives in painter's order, skipping
// <defs> blocks.
func (d *Document) Shapes() []*Element {
	var out []*Element
	for _, c := range d.Root.Children {
		if c.Tag == "defs" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// WriteTo serializes the document as SVG text. Attributes are written in
// the order they were set, so the output is byte-stable.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	enc := xml.NewEncoder(cw)
	if err := encodeElement(enc, d.Root); err != nil {
		return cw.n, err
	}
	if err := enc.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Marshal returns the serialized SVG text.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeElement(enc *xml.Encoder, e *Element) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Tag}}
	for _, a := range e.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range e.Children {
		if err := encodeElement(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
