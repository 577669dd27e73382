package widget

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/widget/lib/dom"
)

// SelfName is the reserved element name for the component root itself.
const SelfName = "self"

// Handler reacts to a delegated event. index is the position of the matched
// node in el.All().
type Handler func(el *Element, ev *Event, index int)

// Action is a named operation on an element.
type Action func(el *Element, args ...any) any

// Template produces the markup for one node of a dynamic element.
type Template func(args ...any) templ.Component

// Markup adapts a function returning an HTML string into a Template.
//
//	Template: widget.Markup(func(args ...any) string {
//	    return fmt.Sprintf(`<img src="%s">`, args[0])
//	}),
func Markup(fn func(args ...any) string) Template {
	return func(args ...any) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			_, err := io.WriteString(w, fn(args...))
			return err
		})
	}
}

// Spec declares an element of a component.
//
// Selector defaults to the component selector joined with the name by "__"
// (BEM), so a component ".gallery" with an element "image" matches
// ".gallery__image". The element named "self" always matches the component
// container.
type Spec struct {
	Name     string
	Selector string
	On       map[string]Handler
	Actions  map[string]Action
	Template Template
	Startup  func(el *Element)
}

// Element is a named, possibly multi-node part of a component.
//
// Elements cache the nodes matching their selector. Static elements trust a
// non-empty cache; dynamic elements (those with a Template) re-query on
// every All call because their nodes are created and removed at runtime.
type Element struct {
	name      string
	selector  string
	className string

	// owner is a back-reference; the component owns its elements.
	owner *Component

	nodes    []*html.Node
	handlers map[string]Handler
	actions  map[string]Action
	template Template
	startup  func(el *Element)
	started  bool
}

func newElement(c *Component, spec Spec) *Element {
	el := &Element{
		name:     spec.Name,
		selector: spec.Selector,
		owner:    c,
		handlers: make(map[string]Handler, len(spec.On)),
		actions:  builtinActions(),
		template: spec.Template,
		startup:  spec.Startup,
	}
	for typ, h := range spec.On {
		el.handlers[typ] = h
	}
	for name, a := range spec.Actions {
		el.actions[name] = a
	}

	switch {
	case el.name == SelfName:
		el.selector = c.selector
	case el.selector == "":
		el.selector = c.selector + "__" + el.name
	}
	el.className = leadingClass(el.selector)

	el.Resolve()
	return el
}

// leadingClass returns the first class token of a class selector
// (".card__title.big" -> "card__title"), or "" for any other selector.
func leadingClass(selector string) string {
	selector = strings.TrimSpace(selector)
	if !strings.HasPrefix(selector, ".") {
		return ""
	}
	rest := selector[1:]
	if i := strings.IndexAny(rest, ".#[:>+~, \t\n"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// Name returns the element name.
func (el *Element) Name() string { return el.name }

// Selector returns the selector used to find the element's nodes.
func (el *Element) Selector() string { return el.selector }

// ClassName returns the class added to rendered nodes, if any.
func (el *Element) ClassName() string { return el.className }

// Dynamic reports whether the element has a template.
func (el *Element) Dynamic() bool { return el.template != nil }

// Component returns the owning component.
func (el *Element) Component() *Component { return el.owner }

// Handles reports whether the element declares a handler for typ.
func (el *Element) Handles(typ string) bool {
	_, ok := el.handlers[typ]
	return ok
}

// Resolve re-queries the element's nodes and returns them.
func (el *Element) Resolve() []*html.Node {
	c := el.owner
	if el.name == SelfName {
		el.nodes = []*html.Node{c.container}
	} else {
		el.nodes = c.hub.host.QueryAll(el.selector, c.container)
	}
	return el.nodes
}

// All returns the element's nodes, re-querying when the cache is empty or
// the element is dynamic. The returned slice must not be modified.
func (el *Element) All() []*html.Node {
	if len(el.nodes) == 0 || el.Dynamic() {
		return el.Resolve()
	}
	return el.nodes
}

// Get returns the node at index in All.
func (el *Element) Get(index int) (*html.Node, bool) {
	nodes := el.All()
	if index < 0 || index >= len(nodes) {
		return nil, false
	}
	return nodes[index], true
}

// Filter returns the cached nodes matching selector without re-querying.
func (el *Element) Filter(selector string) []*html.Node {
	var out []*html.Node
	for _, n := range el.nodes {
		if el.owner.hub.host.Matches(n, selector) {
			out = append(out, n)
		}
	}
	return out
}

// Remove detaches the node at index and refreshes the cache.
func (el *Element) Remove(index int) bool {
	n, ok := el.Get(index)
	if !ok {
		return false
	}
	dom.Detach(n)
	el.Resolve()
	return true
}

// RemoveAll detaches every node returned by All and empties the cache. All
// re-queries first when the cache is empty or the element is dynamic, so a
// static element whose cache was emptied still removes the nodes currently
// matching its selector. The next All call queries again.
func (el *Element) RemoveAll() {
	for _, n := range el.All() {
		dom.Detach(n)
	}
	el.nodes = nil
}

// Render builds one new detached node from the template. It reports false
// when the element has no template or the template fails; failures are
// logged.
func (el *Element) Render(args ...any) (*html.Node, bool) {
	return el.RenderContext(context.Background(), args...)
}

// RenderContext is Render with a context passed to the template.
func (el *Element) RenderContext(ctx context.Context, args ...any) (*html.Node, bool) {
	if el.template == nil {
		return nil, false
	}
	component := el.template(args...)
	if component == nil {
		return nil, false
	}

	var buf bytes.Buffer
	if err := component.Render(ctx, &buf); err != nil {
		el.owner.logger.Warn("template render failed", zap.String("element", el.name), zap.Error(err))
		return nil, false
	}
	n, err := el.owner.hub.host.CreateNode(buf.String())
	if err != nil {
		el.owner.logger.Warn("template markup rejected", zap.String("element", el.name), zap.Error(err))
		return nil, false
	}
	dom.AddClass(n, el.className)
	return n, true
}

// RenderTo renders a node and appends it to target. After appending, every
// element of the component that is empty or dynamic is re-queried, since the
// new markup may contain their nodes. It reports whether a node was
// appended.
func (el *Element) RenderTo(target *html.Node, args ...any) (*html.Node, bool) {
	n, ok := el.Render(args...)
	if !ok || target == nil {
		return n, false
	}
	dom.Append(target, n)
	el.owner.refresh()
	return n, true
}

// Act invokes the named action. It reports false when no such action exists.
func (el *Element) Act(name string, args ...any) (any, bool) {
	a, ok := el.actions[name]
	if !ok {
		return nil, false
	}
	return a(el, args...), true
}

// Text returns the text content of the node at index.
func (el *Element) Text(index int) string {
	n, ok := el.Get(index)
	if !ok {
		return ""
	}
	return dom.Text(n)
}

// SetText replaces the content of the node at index with text.
func (el *Element) SetText(index int, text string) bool {
	n, ok := el.Get(index)
	if !ok {
		return false
	}
	dom.SetText(n, text)
	return true
}
