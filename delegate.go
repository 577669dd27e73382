package widget

import (
	"math"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/pthm/widget/lib/dom"
)

// Event is a native event as seen by element handlers.
type Event struct {
	*dom.Event

	// Gesture is set for touchmove events that carry a touch point.
	Gesture *Gesture

	innerStopped bool
}

// StopInner stops native propagation and the walk to ancestor elements of
// the same component. Calling only StopPropagation leaves ancestor element
// handlers running.
func (e *Event) StopInner() {
	e.Event.StopPropagation()
	e.innerStopped = true
}

// InnerStopped reports whether StopInner was called.
func (e *Event) InnerStopped() bool { return e.innerStopped }

// Gesture describes a touch movement relative to the last touchstart.
type Gesture struct {
	DX, DY float64

	// Horizontal and Vertical name the dominant axis; both are false when
	// the movement is diagonal or zero.
	Horizontal bool
	Vertical   bool

	Left, Right, Up, Down bool
}

func newGesture(start, cur dom.Touch) *Gesture {
	dx := cur.ClientX - start.ClientX
	dy := cur.ClientY - start.ClientY
	return &Gesture{
		DX:         dx,
		DY:         dy,
		Horizontal: math.Abs(dx) > math.Abs(dy),
		Vertical:   math.Abs(dy) > math.Abs(dx),
		Left:       dx < 0,
		Right:      dx > 0,
		Up:         dy < 0,
		Down:       dy > 0,
	}
}

// Handle routes a native event to element handlers.
//
// Starting at the event target, each node up to and including the container
// is looked up in the element caches; the owning element's handler for the
// event type runs with the node's index. The walk ends at the container, or
// earlier when a handler calls StopInner.
//
// Enter/leave style events where the related target is a descendant of the
// current node are skipped for that node: the pointer only moved within it.
func (c *Component) Handle(native *dom.Event) {
	current := native.Target
	if current == nil {
		return
	}
	related := native.RelatedTarget

	ev := &Event{Event: native}
	if native.Type == "touchmove" && len(native.Touches) > 0 {
		cur := native.Touches[0]
		start := cur
		if c.touchStart != nil {
			start = *c.touchStart
		}
		ev.Gesture = newGesture(start, cur)
	}

	for !ev.innerStopped {
		if el, index, ok := c.FindElement(current); ok {
			if h, ok := el.handlers[native.Type]; ok && !spurious(current, related) {
				c.logger.Debug("dispatch",
					zap.String("event", native.Type),
					zap.String("element", el.name),
					zap.Int("index", index))
				h(el, ev, index)
			}
		}
		if current == c.container || current.Parent == nil {
			break
		}
		current = current.Parent
	}
}

// spurious reports whether related lies strictly inside current.
func spurious(current, related *html.Node) bool {
	return related != nil && current != related && dom.Contains(current, related)
}
