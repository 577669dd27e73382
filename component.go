package widget

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/widget/lib/dom"
)

// Component is a widget rooted at a container node.
//
// A component owns a set of named elements and installs at most one native
// listener per event type on its container. Events are routed to element
// handlers by walking from the event target up to the container (see
// Handle), so elements defined after a listener was installed are still
// reachable.
//
// Components are created with Hub.Create:
//
//	menu := hub.Create("menu", doc.MustQuery("#menu"), ".menu")
//	menu.Define(widget.Spec{
//	    Name: "link",
//	    On: map[string]widget.Handler{
//	        "click": func(el *widget.Element, ev *widget.Event, i int) {
//	            el.Activate(i)
//	        },
//	    },
//	})
type Component struct {
	hub       *Hub
	id        string
	name      string
	selector  string
	container *html.Node
	logger    *zap.Logger

	elements map[string]*Element
	order    []string
	self     *Element

	// registered maps an event type to the function detaching its listener.
	registered map[string]func()

	trackTouch bool
	touchStart *dom.Touch
}

func newComponent(h *Hub, name string, container *html.Node, selector string) *Component {
	id := uuid.NewString()
	return &Component{
		hub:        h,
		id:         id,
		name:       name,
		selector:   selector,
		container:  container,
		logger:     h.logger.With(zap.String("component", name), zap.String("id", id)),
		elements:   make(map[string]*Element),
		registered: make(map[string]func()),
	}
}

// ID returns the component's unique id.
func (c *Component) ID() string { return c.id }

// Name returns the component name. Names need not be unique.
func (c *Component) Name() string { return c.name }

// Selector returns the selector element selectors are derived from.
func (c *Component) Selector() string { return c.selector }

// Get returns the container node.
func (c *Component) Get() *html.Node { return c.container }

// Hub returns the hub the component is registered with.
func (c *Component) Hub() *Hub { return c.hub }

// Logger returns the hub's logger scoped to this component.
func (c *Component) Logger() *zap.Logger { return c.logger }

// Define declares elements. Redefining a name replaces the earlier element
// in place.
//
// Every event type handled by the new elements gets a native listener on the
// container unless one is already installed: focus, blur, mouseenter and
// mouseleave listen in the capture phase, everything else in the bubble
// phase. After all elements are stored, startup hooks run for elements that
// currently have nodes.
func (c *Component) Define(specs ...Spec) *Component {
	added := make([]*Element, 0, len(specs))
	for _, spec := range specs {
		el := newElement(c, spec)
		if _, exists := c.elements[el.name]; !exists {
			c.order = append(c.order, el.name)
		}
		c.elements[el.name] = el
		if el.name == SelfName {
			c.self = el
		}
		added = append(added, el)
	}

	for _, el := range added {
		types := make([]string, 0, len(el.handlers))
		for typ := range el.handlers {
			types = append(types, typ)
		}
		sort.Strings(types)
		for _, typ := range types {
			c.install(typ)
		}
	}

	for _, name := range c.order {
		el := c.elements[name]
		if el.startup == nil || len(el.nodes) == 0 {
			continue
		}
		if el.started && !c.hub.cfg.repeatedStartup {
			continue
		}
		el.started = true
		el.startup(el)
	}
	return c
}

// capturing lists the event types whose component listener runs in the
// capture phase. They do not bubble, so a bubble listener on the container
// would never see events from its descendants.
var capturing = map[string]bool{
	"blur":       true,
	"focus":      true,
	"mouseenter": true,
	"mouseleave": true,
}

func (c *Component) install(typ string) {
	if _, ok := c.registered[typ]; !ok {
		capture := capturing[typ]
		c.registered[typ] = c.hub.host.AddEventListener(c.container, typ, c.native, capture)
		c.logger.Debug("listener installed", zap.String("event", typ), zap.Bool("capture", capture))
	}
	if typ == "touchmove" && !c.trackTouch {
		c.trackTouch = true
		c.install("touchstart")
	}
}

// native is the single listener installed for every event type.
func (c *Component) native(ev *dom.Event) {
	if ev.Type == "touchstart" && c.trackTouch && len(ev.Touches) > 0 {
		start := ev.Touches[0]
		c.touchStart = &start
	}
	c.Handle(ev)
}

// ListenerCount returns the number of native listeners installed.
func (c *Component) ListenerCount() int { return len(c.registered) }

// Listening reports whether a native listener for typ is installed.
func (c *Component) Listening(typ string) bool {
	_, ok := c.registered[typ]
	return ok
}

// Element returns the named element.
func (c *Component) Element(name string) (*Element, bool) {
	el, ok := c.elements[name]
	return el, ok
}

// Elements returns the elements in definition order.
func (c *Component) Elements() []*Element {
	out := make([]*Element, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.elements[name])
	}
	return out
}

// FindElement returns the first element whose cached nodes include n, and
// the position of n in that cache.
func (c *Component) FindElement(n *html.Node) (*Element, int, bool) {
	for _, name := range c.order {
		el := c.elements[name]
		for i, node := range el.nodes {
			if node == n {
				return el, i, true
			}
		}
	}
	return nil, -1, false
}

// Act invokes an action of the "self" element. It reports false when there
// is no self element or no such action.
func (c *Component) Act(name string, args ...any) (any, bool) {
	if c.self == nil {
		return nil, false
	}
	return c.self.Act(name, args...)
}

// Listen subscribes the component to hub events.
func (c *Component) Listen(subs ...Subscription) *Component {
	for _, s := range subs {
		c.hub.Subscribe(c, s.Event, s.Handler)
	}
	return c
}

// Emit broadcasts event to every other subscribed component. The receivers
// get payload's fields plus "target" set to c, unless payload sets its own
// target.
func (c *Component) Emit(event string, payload any) error {
	return c.hub.Broadcast(c, event, payload)
}

// refresh re-queries every element whose cache is empty or untrusted.
func (c *Component) refresh() {
	for _, name := range c.order {
		el := c.elements[name]
		if len(el.nodes) == 0 || el.Dynamic() {
			el.Resolve()
		}
	}
}

// detach removes every native listener.
func (c *Component) detach() {
	for typ, remove := range c.registered {
		remove()
		delete(c.registered, typ)
	}
	c.trackTouch = false
	c.touchStart = nil
}
