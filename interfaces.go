package widget

import (
	"golang.org/x/net/html"

	"github.com/pthm/widget/lib/dom"
)

// Host is the page a Hub's components live in. It supplies selector queries,
// node construction and native event listeners.
//
// *dom.Document implements Host.
type Host interface {
	// QueryAll returns every descendant of scope matching selector, in
	// document order.
	QueryAll(selector string, scope *html.Node) []*html.Node

	// Matches reports whether n matches selector.
	Matches(n *html.Node, selector string) bool

	// CreateNode parses markup into one detached node.
	CreateNode(markup string) (*html.Node, error)

	// AddEventListener attaches fn to n and returns a function detaching it.
	// capture selects the capture phase instead of the bubble phase.
	AddEventListener(n *html.Node, typ string, fn dom.Listener, capture bool) func()
}

// Binding is the read/act surface of a declared element. *Element is the
// only implementation; the interface lets helpers accept elements without
// depending on their owner.
type Binding interface {
	Get(index int) (*html.Node, bool)
	All() []*html.Node
	Render(args ...any) (*html.Node, bool)
	Act(name string, args ...any) (any, bool)
}

var (
	_ Host    = (*dom.Document)(nil)
	_ Binding = (*Element)(nil)
)
