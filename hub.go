package widget

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/widget/lib/encoding"
)

type observer struct {
	component *Component
	event     string
	handler   Receiver
	removed   bool
}

// Hub tracks live components and routes events between them.
//
// A Hub is created once per page and passed to whatever creates widgets:
//
//	doc, _ := dom.Parse(page)
//	hub := widget.NewHub(doc, widget.WithLogger(logger))
//	nav := hub.Create("nav", doc.MustQuery("#nav"), ".nav")
//
// Everything runs on the caller's goroutine. Broadcasts are synchronous and
// may nest when receivers emit; nesting is bounded by WithMaxBroadcastDepth.
type Hub struct {
	host   Host
	cfg    config
	logger *zap.Logger

	components []*Component
	observers  []*observer
	depth      int
}

// NewHub creates a hub for components living in host.
func NewHub(host Host, opts ...Option) *Hub {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Hub{
		host:   host,
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// Host returns the page the hub's components live in.
func (h *Hub) Host() Host {
	return h.host
}

// Create registers a new component rooted at node. Panics if node is nil.
func (h *Hub) Create(name string, node *html.Node, selector string) *Component {
	if node == nil {
		panic(fmt.Sprintf("widget: component %q has no container node", name))
	}
	c := newComponent(h, name, node, selector)
	h.components = append(h.components, c)
	h.logger.Debug("component created", zap.String("component", name), zap.String("id", c.id))
	return c
}

// Delete removes the first component whose container is node, drops all of
// its subscriptions and detaches its native listeners. It reports whether a
// component was found.
func (h *Hub) Delete(node *html.Node) bool {
	for i, c := range h.components {
		if c.container != node {
			continue
		}
		h.components = append(h.components[:i:i], h.components[i+1:]...)
		h.Unsubscribe(c)
		c.detach()
		h.logger.Debug("component deleted", zap.String("component", c.name), zap.String("id", c.id))
		return true
	}
	return false
}

// Find returns the first component whose container is node.
func (h *Hub) Find(node *html.Node) (*Component, bool) {
	for _, c := range h.components {
		if c.container == node {
			return c, true
		}
	}
	return nil, false
}

// Components returns the live components in creation order.
func (h *Hub) Components() []*Component {
	out := make([]*Component, len(h.components))
	copy(out, h.components)
	return out
}

// Observers returns the number of subscription records.
func (h *Hub) Observers() int {
	return len(h.observers)
}

// Subscriptions returns the number of subscription records held by c.
func (h *Hub) Subscriptions(c *Component) int {
	n := 0
	for _, o := range h.observers {
		if o.component == c {
			n++
		}
	}
	return n
}

// Subscribe makes handler receive event when another component emits it.
func (h *Hub) Subscribe(c *Component, event string, handler Receiver) {
	h.observers = append(h.observers, &observer{component: c, event: event, handler: handler})
}

// Unsubscribe removes c's subscriptions to the given events, or all of c's
// subscriptions when no event is given. Records removed while a broadcast is
// running are not delivered to.
func (h *Hub) Unsubscribe(c *Component, events ...string) {
	kept := make([]*observer, 0, len(h.observers))
	for _, o := range h.observers {
		if o.component == c && (len(events) == 0 || contains(events, o.event)) {
			o.removed = true
			continue
		}
		kept = append(kept, o)
	}
	h.observers = kept
}

// Broadcast delivers event to every subscriber of it except sender, in
// subscription order. Each receiver gets its own Payload holding "target"
// (the sender) overlaid with payload's fields; payload may be nil, a map
// with string keys, an encoding.Encodable or a struct. Struct fields are
// copied by value at the top level only, so nodes and components arrive
// as the same pointers.
//
// Subscribers added during the broadcast are not called; subscribers
// removed during it are skipped.
func (h *Hub) Broadcast(sender *Component, event string, payload any) error {
	if h.depth >= h.cfg.maxDepth {
		return fmt.Errorf("%w: %q at depth %d", ErrBroadcastDepth, event, h.depth)
	}
	fields, err := encoding.Fields(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	data := Payload{"target": sender}
	for k, v := range fields {
		data[k] = v
	}

	snapshot := make([]*observer, len(h.observers))
	copy(snapshot, h.observers)

	h.depth++
	defer func() { h.depth-- }()

	delivered := 0
	for _, o := range snapshot {
		if o.removed || o.event != event || o.component == sender {
			continue
		}
		o.handler(o.component, data.clone())
		delivered++
	}
	h.logger.Debug("broadcast",
		zap.String("event", event),
		zap.String("sender", senderName(sender)),
		zap.Int("delivered", delivered))
	return nil
}

func senderName(c *Component) string {
	if c == nil {
		return ""
	}
	return c.name
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
