package widget

import (
	"slices"
	"sync"
)

// Surface is something a widget can mount into.
type Surface interface {
	// Boundary returns the attached boundary, or nil.
	Boundary() *Boundary
	// AttachBoundary attaches a new boundary, or returns the existing one.
	AttachBoundary() *Boundary
}

// Boundary is the isolated region a widget presents into. Styles adopted
// here don't leak to the host page.
type Boundary struct {
	mu      sync.Mutex
	sheets  []*StyleSheet
	view    *View
	renders int
}

// AdoptStyleSheets replaces the adopted sheets.
func (b *Boundary) AdoptStyleSheets(sheets ...*StyleSheet) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sheets = slices.Clone(sheets)
}

// StyleSheets returns the adopted sheets.
func (b *Boundary) StyleSheets() []*StyleSheet {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.sheets)
}

// Present replaces the presented view. nil clears it.
func (b *Boundary) Present(v *View) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v == nil {
		b.view = nil
		return
	}
	cp := *v
	b.view = &cp
	b.renders++
}

// View returns the presented view, if any.
func (b *Boundary) View() (View, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.view == nil {
		return View{}, false
	}
	return *b.view, true
}

// Renders counts non-empty presents.
func (b *Boundary) Renders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders
}

// Element is a host page node.
type Element struct {
	mu       sync.RWMutex
	id       string
	attrs    map[string]string
	children []*Element
	parent   *Element
	doc      *Document
	boundary *Boundary
}

// NewElement creates a detached element.
func NewElement(id string, attrs map[string]string) *Element {
	el := &Element{id: id, attrs: make(map[string]string, len(attrs))}
	for k, v := range attrs {
		el.attrs[k] = v
	}
	return el
}

// ID returns the element id.
func (e *Element) ID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.id
}

// Attr returns the attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.attrs[name]
	return v, ok
}

// SetAttr sets an attribute and notifies document observers.
func (e *Element) SetAttr(name, value string) {
	e.mu.Lock()
	e.attrs[name] = value
	doc := e.doc
	e.mu.Unlock()

	doc.emit(Mutation{Type: MutationAttributes, Target: e, AttributeName: name})
}

// RemoveAttr removes an attribute and notifies document observers.
func (e *Element) RemoveAttr(name string) {
	e.mu.Lock()
	_, had := e.attrs[name]
	delete(e.attrs, name)
	doc := e.doc
	e.mu.Unlock()

	if had {
		doc.emit(Mutation{Type: MutationAttributes, Target: e, AttributeName: name})
	}
}

// AppendChild attaches child under e, moving it if it already has a parent.
func (e *Element) AppendChild(child *Element) {
	if child == nil || child == e {
		return
	}
	if old := child.Parent(); old != nil {
		old.RemoveChild(child)
	}

	e.mu.Lock()
	e.children = append(e.children, child)
	doc := e.doc
	e.mu.Unlock()

	child.mu.Lock()
	child.parent = e
	child.mu.Unlock()
	child.setDocument(doc)

	doc.emit(Mutation{Type: MutationChildList, Target: e, Added: []*Element{child}})
}

// RemoveChild detaches child from e.
func (e *Element) RemoveChild(child *Element) {
	e.mu.Lock()
	idx := slices.Index(e.children, child)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.children = slices.Delete(e.children, idx, idx+1)
	doc := e.doc
	e.mu.Unlock()

	child.mu.Lock()
	child.parent = nil
	child.mu.Unlock()
	child.setDocument(nil)

	doc.emit(Mutation{Type: MutationChildList, Target: e, Removed: []*Element{child}})
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.parent
}

// Children returns the direct children.
func (e *Element) Children() []*Element {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.children)
}

// Descendants returns every node below e in document order.
func (e *Element) Descendants() []*Element {
	var out []*Element
	for _, c := range e.Children() {
		out = append(out, c)
		out = append(out, c.Descendants()...)
	}
	return out
}

// Boundary implements Surface.
func (e *Element) Boundary() *Boundary {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.boundary
}

// AttachBoundary implements Surface.
func (e *Element) AttachBoundary() *Boundary {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.boundary == nil {
		e.boundary = &Boundary{}
	}
	return e.boundary
}

func (e *Element) setDocument(doc *Document) {
	e.mu.Lock()
	e.doc = doc
	children := slices.Clone(e.children)
	e.mu.Unlock()
	for _, c := range children {
		c.setDocument(doc)
	}
}

// MutationType classifies a Mutation.
type MutationType int

const (
	MutationChildList MutationType = iota
	MutationAttributes
)

// Mutation describes one change to a document subtree.
type Mutation struct {
	Type          MutationType
	Target        *Element
	Added         []*Element
	Removed       []*Element
	AttributeName string
}

// Document is a host page: a body root plus mutation observers.
type Document struct {
	body *Element

	mu        sync.Mutex
	observers map[*observer]struct{}
}

type observer struct {
	ch   chan Mutation
	done chan struct{}

	// sending is held for reading during delivery; stop takes it for writing
	// before closing ch.
	sending sync.RWMutex
	closed  bool
}

func (o *observer) deliver(m Mutation) {
	o.sending.RLock()
	defer o.sending.RUnlock()
	if o.closed {
		return
	}
	select {
	case o.ch <- m:
	case <-o.done:
	}
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{observers: make(map[*observer]struct{})}
	d.body = NewElement("", nil)
	d.body.doc = d
	return d
}

// Body returns the root element.
func (d *Document) Body() *Element {
	return d.body
}

// GetElementByID returns the first element in document order with id.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	for _, el := range d.body.Descendants() {
		if el.ID() == id {
			return el
		}
	}
	return nil
}

// Observe subscribes to every mutation under the body. Delivery blocks once
// buffer is full until the receiver catches up or stop is called. stop closes
// the channel after any in-progress delivery has returned; buffered mutations
// can still be drained.
func (d *Document) Observe(buffer int) (<-chan Mutation, func()) {
	o := &observer{ch: make(chan Mutation, buffer), done: make(chan struct{})}
	d.mu.Lock()
	d.observers[o] = struct{}{}
	d.mu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, o)
			d.mu.Unlock()
			close(o.done)

			o.sending.Lock()
			o.closed = true
			close(o.ch)
			o.sending.Unlock()
		})
	}
	return o.ch, stop
}

func (d *Document) emit(m Mutation) {
	if d == nil {
		return
	}
	d.mu.Lock()
	targets := make([]*observer, 0, len(d.observers))
	for o := range d.observers {
		targets = append(targets, o)
	}
	d.mu.Unlock()

	for _, o := range targets {
		o.deliver(m)
	}
}
