package dom

import "golang.org/x/net/html"

// Phase is the propagation phase an event is currently in.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCapturing
	PhaseAtTarget
	PhaseBubbling
)

func (p Phase) String() string {
	switch p {
	case PhaseCapturing:
		return "capturing"
	case PhaseAtTarget:
		return "at-target"
	case PhaseBubbling:
		return "bubbling"
	}
	return "none"
}

// Touch is a single active touch point.
type Touch struct {
	ClientX float64
	ClientY float64
}

// Listener receives native events.
type Listener func(ev *Event)

// Event is a native interaction event travelling through a Document.
//
// Events are created with NewEvent (or Document.Fire) and delivered with
// Document.Dispatch, which runs the capture, at-target and bubble phases.
type Event struct {
	Type          string
	Target        *html.Node
	RelatedTarget *html.Node
	Touches       []Touch

	currentTarget *html.Node
	phase         Phase
	stopped       bool
	prevented     bool
}

// NewEvent creates an event of the given type aimed at target.
func NewEvent(typ string, target *html.Node) *Event {
	return &Event{Type: typ, Target: target}
}

// EventOption configures an event built by Document.Fire.
type EventOption func(*Event)

// WithRelated sets the secondary target (mouseover/out, focus/blur, enter/leave).
func WithRelated(n *html.Node) EventOption {
	return func(e *Event) { e.RelatedTarget = n }
}

// WithTouch appends an active touch point.
func WithTouch(x, y float64) EventOption {
	return func(e *Event) { e.Touches = append(e.Touches, Touch{ClientX: x, ClientY: y}) }
}

// CurrentTarget returns the node whose listeners are running.
func (e *Event) CurrentTarget() *html.Node { return e.currentTarget }

// Phase returns the current propagation phase.
func (e *Event) Phase() Phase { return e.phase }

// Bubbles reports whether this event type takes part in the bubble phase.
func (e *Event) Bubbles() bool { return Bubbles(e.Type) }

// StopPropagation prevents delivery to any further node. Listeners on the
// current node still run.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool { return e.stopped }

// PreventDefault marks the default action as cancelled.
func (e *Event) PreventDefault() { e.prevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.prevented }

// nonBubbling lists the event types that skip the bubble phase.
var nonBubbling = map[string]bool{
	"blur":       true,
	"focus":      true,
	"mouseenter": true,
	"mouseleave": true,
}

// Bubbles reports whether events of type typ bubble.
func Bubbles(typ string) bool {
	return !nonBubbling[typ]
}
