package widget

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/pthm/widget/lib/dom"
)

// TestPage is a parsed page with a hub attached, for exercising components
// without a browser.
//
//	page, err := widget.NewTestPage(`<div id="menu" class="menu">...</div>`)
//	menu := page.Hub.Create("menu", page.Node("#menu"), ".menu")
//	menu.Define(...)
//	page.Click(".menu__link", 1)
//	if got := page.Text(".menu__header"); got != "B" {
//	    t.Errorf("header = %q", got)
//	}
type TestPage struct {
	Doc *dom.Document
	Hub *Hub
}

// NewTestPage parses markup and creates a hub over it.
func NewTestPage(markup string, opts ...Option) (*TestPage, error) {
	doc, err := dom.Parse(markup)
	if err != nil {
		return nil, err
	}
	return &TestPage{Doc: doc, Hub: NewHub(doc, opts...)}, nil
}

// Node returns the first node matching selector. Panics when none matches.
func (p *TestPage) Node(selector string) *html.Node {
	return p.Doc.MustQuery(selector)
}

// NodeAt returns the index-th node matching selector. Panics when out of
// range.
func (p *TestPage) NodeAt(selector string, index int) *html.Node {
	nodes := p.Doc.QueryAll(selector, p.Doc.Root())
	if index < 0 || index >= len(nodes) {
		panic(fmt.Errorf("%w: %q[%d] (%d matches)", dom.ErrNotFound, selector, index, len(nodes)))
	}
	return nodes[index]
}

// Count returns how many nodes in the page match selector.
func (p *TestPage) Count(selector string) int {
	return len(p.Doc.QueryAll(selector, p.Doc.Root()))
}

// Fire dispatches an event of type typ at the index-th node matching
// selector.
func (p *TestPage) Fire(typ, selector string, index int, opts ...dom.EventOption) *dom.Event {
	return p.Doc.Fire(typ, p.NodeAt(selector, index), opts...)
}

// Click dispatches a click at the index-th node matching selector.
func (p *TestPage) Click(selector string, index int) *dom.Event {
	return p.Fire("click", selector, index)
}

// Text returns the text content of the first node matching selector.
func (p *TestPage) Text(selector string) string {
	return dom.Text(p.Node(selector))
}

// HTML returns the markup of the whole page.
func (p *TestPage) HTML() string {
	return dom.OuterHTML(p.Doc.Root())
}
