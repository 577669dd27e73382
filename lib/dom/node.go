package dom

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/yosssi/gohtml"
	"golang.org/x/net/html"
)

// Contains reports whether b is a or one of a's descendants.
func Contains(a, b *html.Node) bool {
	if a == nil || b == nil {
		return false
	}
	for n := b; n != nil; n = n.Parent {
		if n == a {
			return true
		}
	}
	return false
}

// Detach removes n from its parent. Detached nodes are left untouched.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Append moves child to the end of parent's children.
func Append(parent, child *html.Node) {
	Detach(child)
	parent.AppendChild(child)
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.InnerText(n)
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Classes returns the class tokens of n.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether n carries class name.
func HasClass(n *html.Node, name string) bool {
	for _, c := range Classes(n) {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass adds class name to n if absent.
func AddClass(n *html.Node, name string) {
	if n == nil || name == "" || HasClass(n, name) {
		return
	}
	SetAttr(n, "class", strings.Join(append(Classes(n), name), " "))
}

// RemoveClass removes every occurrence of class name from n.
func RemoveClass(n *html.Node, name string) {
	if n == nil || !HasClass(n, name) {
		return
	}
	var kept []string
	for _, c := range Classes(n) {
		if c != name {
			kept = append(kept, c)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	return htmlquery.OutputHTML(n, true)
}

// Format renders n as indented markup for display.
func Format(n *html.Node) string {
	return gohtml.Format(OuterHTML(n))
}
