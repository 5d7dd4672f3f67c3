package host

import "strings"

// Element events dispatched by the page.
const (
	EventLoad  = "load"
	EventError = "error"
)

// ScriptTag is the default tag of fetchable script elements.
const ScriptTag = "script"

// Element is a document element. Only script elements matter to the loader.
type Element struct {
	Tag         string
	Src         string
	CrossOrigin string

	attrs     map[string]string
	listeners map[string][]func()
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{Tag: strings.ToLower(tag)}
}

// Attr returns the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[strings.ToLower(name)] = value
}

// AddEventListener registers fn for event. Listeners run in registration order.
func (e *Element) AddEventListener(event string, fn func()) {
	if e.listeners == nil {
		e.listeners = make(map[string][]func())
	}
	e.listeners[event] = append(e.listeners[event], fn)
}

// Dispatch runs every listener registered for event.
func (e *Element) Dispatch(event string) {
	for _, fn := range e.listeners[event] {
		fn()
	}
}

// Document is the element tree the loader inspects and inserts into.
type Document interface {
	CreateElement(tag string) *Element
	// ElementsByTag returns elements with the tag, in document order.
	ElementsByTag(tag string) []*Element
	// InsertBefore inserts el immediately before ref; a nil ref appends.
	InsertBefore(el, ref *Element)
}

// Doc is the in-memory Document.
type Doc struct {
	elements []*Element

	// onInsert runs after every insertion; the page uses it to start fetches.
	onInsert func(*Element)
}

// NewDoc creates an empty document.
func NewDoc() *Doc {
	return &Doc{}
}

// CreateElement implements Document.
func (d *Doc) CreateElement(tag string) *Element {
	return NewElement(tag)
}

// ElementsByTag implements Document.
func (d *Doc) ElementsByTag(tag string) []*Element {
	tag = strings.ToLower(tag)
	var out []*Element
	for _, el := range d.elements {
		if el.Tag == tag {
			out = append(out, el)
		}
	}
	return out
}

// InsertBefore implements Document. If ref is not in the document the
// element is appended.
func (d *Doc) InsertBefore(el, ref *Element) {
	idx := len(d.elements)
	for i, existing := range d.elements {
		if existing == ref {
			idx = i
			break
		}
	}
	d.elements = append(d.elements, nil)
	copy(d.elements[idx+1:], d.elements[idx:])
	d.elements[idx] = el

	if d.onInsert != nil {
		d.onInsert(el)
	}
}

// Append adds el at the end of the document.
func (d *Doc) Append(el *Element) {
	d.InsertBefore(el, nil)
}

// Len returns the number of elements in the document.
func (d *Doc) Len() int {
	return len(d.elements)
}
