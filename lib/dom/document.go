// Package dom is a small in-memory document built on golang.org/x/net/html.
//
// It provides what the widget engine needs from its host: scoped CSS selector
// queries, node construction from markup, and native event listeners with
// capture/target/bubble dispatch.
package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for document operations.
var (
	ErrEmptyMarkup = errors.New("dom: markup contains no element")
	ErrNotFound    = errors.New("dom: no node matches selector")
)

type listener struct {
	typ     string
	fn      Listener
	capture bool
	removed bool
}

// Document owns a node tree and the native listeners attached to its nodes.
//
// A Document is not safe for concurrent use; like a browser page it is
// driven from a single event loop.
type Document struct {
	root      *html.Node
	listeners map[*html.Node][]*listener
	selectors map[string]cascadia.Selector
}

// New wraps an existing node tree.
func New(root *html.Node) *Document {
	return &Document{
		root:      root,
		listeners: make(map[*html.Node][]*listener),
		selectors: make(map[string]cascadia.Selector),
	}
}

// Parse parses a complete HTML page.
func Parse(markup string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("dom: parse page: %w", err)
	}
	return New(root), nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element, or the root when there is none.
func (d *Document) Body() *html.Node {
	if n, ok := d.Query("body"); ok {
		return n
	}
	return d.root
}

// Query returns the first node in the document matching selector.
func (d *Document) Query(selector string) (*html.Node, bool) {
	sel, ok := d.compile(selector)
	if !ok {
		return nil, false
	}
	n := cascadia.Query(d.root, sel)
	return n, n != nil
}

// MustQuery is Query for selectors the caller knows are present.
func (d *Document) MustQuery(selector string) *html.Node {
	n, ok := d.Query(selector)
	if !ok {
		panic(fmt.Errorf("%w: %q", ErrNotFound, selector))
	}
	return n
}

// QueryAll returns every descendant of scope matching selector, in document
// order. scope itself is never included. Invalid selectors match nothing.
func (d *Document) QueryAll(selector string, scope *html.Node) []*html.Node {
	if scope == nil {
		return nil
	}
	sel, ok := d.compile(selector)
	if !ok {
		return nil
	}
	return cascadia.QueryAll(scope, sel)
}

// Matches reports whether n matches selector.
func (d *Document) Matches(n *html.Node, selector string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	sel, ok := d.compile(selector)
	if !ok {
		return false
	}
	return sel.Match(n)
}

// CreateNode parses a markup fragment and returns its first element as a
// detached node. Any further top-level nodes are discarded.
func (d *Document) CreateNode(markup string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			Detach(n)
			return n, nil
		}
	}
	return nil, ErrEmptyMarkup
}

// AddEventListener attaches fn to n for events of type typ. When capture is
// true the listener runs during the capture phase, otherwise during the
// bubble phase; both kinds run when n is the target. The returned function
// detaches the listener.
func (d *Document) AddEventListener(n *html.Node, typ string, fn Listener, capture bool) func() {
	l := &listener{typ: typ, fn: fn, capture: capture}
	d.listeners[n] = append(d.listeners[n], l)
	return func() { d.removeListener(n, l) }
}

func (d *Document) removeListener(n *html.Node, l *listener) {
	l.removed = true
	list := d.listeners[n]
	for i, cur := range list {
		if cur == l {
			d.listeners[n] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(d.listeners[n]) == 0 {
		delete(d.listeners, n)
	}
}

// ListenerCount returns the number of listeners for typ attached to n.
func (d *Document) ListenerCount(n *html.Node, typ string) int {
	count := 0
	for _, l := range d.listeners[n] {
		if l.typ == typ {
			count++
		}
	}
	return count
}

// Dispatch delivers ev through the tree: capture listeners from the root down
// to the target's parent, every listener on the target, then bubble listeners
// from the parent back up to the root when the event type bubbles. The
// propagation path is fixed before the first listener runs.
//
// Returns false when a listener called PreventDefault.
func (d *Document) Dispatch(ev *Event) bool {
	if ev.Target == nil {
		return true
	}
	var path []*html.Node
	for n := ev.Target.Parent; n != nil; n = n.Parent {
		path = append(path, n)
	}

	ev.stopped = false
	ev.phase = PhaseCapturing
	for i := len(path) - 1; i >= 0 && !ev.stopped; i-- {
		d.invoke(path[i], ev)
	}
	if !ev.stopped {
		ev.phase = PhaseAtTarget
		d.invoke(ev.Target, ev)
	}
	if ev.Bubbles() {
		ev.phase = PhaseBubbling
		for _, n := range path {
			if ev.stopped {
				break
			}
			d.invoke(n, ev)
		}
	}

	ev.phase = PhaseNone
	ev.currentTarget = nil
	return !ev.prevented
}

// Fire builds an event of type typ aimed at target, dispatches it and returns
// it for inspection.
func (d *Document) Fire(typ string, target *html.Node, opts ...EventOption) *Event {
	ev := NewEvent(typ, target)
	for _, opt := range opts {
		opt(ev)
	}
	d.Dispatch(ev)
	return ev
}

func (d *Document) invoke(n *html.Node, ev *Event) {
	list := d.listeners[n]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*listener, len(list))
	copy(snapshot, list)

	ev.currentTarget = n
	for _, l := range snapshot {
		if l.removed || l.typ != ev.Type {
			continue
		}
		switch ev.phase {
		case PhaseCapturing:
			if !l.capture {
				continue
			}
		case PhaseBubbling:
			if l.capture {
				continue
			}
		}
		l.fn(ev)
	}
}

func (d *Document) compile(selector string) (cascadia.Selector, bool) {
	if sel, ok := d.selectors[selector]; ok {
		return sel, sel != nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		d.selectors[selector] = nil
		return nil, false
	}
	d.selectors[selector] = sel
	return sel, true
}
