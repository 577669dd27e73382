package widget

import "github.com/pthm/widget/lib/encoding"

// Payload is the data a subscriber receives with an event. The "target" key
// holds the sending *Component unless the sender supplied its own target.
type Payload map[string]any

// Target returns the component stored under "target".
func (p Payload) Target() (*Component, bool) {
	c, ok := p["target"].(*Component)
	return c, ok && c != nil
}

// String returns the string stored under key.
func (p Payload) String(key string) (string, bool) {
	s, ok := p[key].(string)
	return s, ok
}

// Decode copies the payload's plain data fields into dst, a pointer to a
// struct. Fields holding nodes, components or other references are left
// out; read them from the map.
//
//	var sel struct{ ID string `msgpack:"id"` }
//	if err := p.Decode(&sel); err != nil { ... }
func (p Payload) Decode(dst any) error {
	return encoding.Decode(p, dst)
}

func (p Payload) clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Receiver handles an event delivered by the hub. c is the subscribed
// component.
type Receiver func(c *Component, p Payload)

// Subscription pairs an event name with its receiver, for Component.Listen.
type Subscription struct {
	Event   string
	Handler Receiver
}
