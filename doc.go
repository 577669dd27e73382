// Package widget builds interactive widgets out of declared elements, with a
// single shared engine for event delegation and cross-widget messaging.
//
// # Core Concepts
//
// A Component is a widget rooted at a container node. It declares named
// Elements, each a selector plus event handlers, actions and an optional
// template:
//
//	gallery := hub.Create("gallery", doc.MustQuery("#gallery"), ".gallery")
//	gallery.Define(
//	    widget.Spec{Name: "title"},
//	    widget.Spec{
//	        Name:     "image",
//	        Template: widget.Markup(func(args ...any) string {
//	            return fmt.Sprintf(`<img src="%s">`, args[0])
//	        }),
//	        On: map[string]widget.Handler{
//	            "click": func(el *widget.Element, ev *widget.Event, i int) {
//	                el.Activate(i)
//	            },
//	        },
//	    },
//	)
//
// Element selectors default to the component selector joined with the
// element name by "__" (BEM): the "image" element above matches
// ".gallery__image". The element named "self" is the container itself, and
// its actions are reachable through Component.Act.
//
// # Delegation
//
// However many elements handle an event type, a component installs one
// native listener for it on its container. When an event arrives the
// component walks from the target up to the container, finds which element
// owns each node and runs that element's handler. focus, blur, mouseenter and
// mouseleave are observed in the capture phase since they do not bubble.
//
// Handlers may call Event.StopInner to end both the walk and native
// propagation. Event.StopPropagation alone only stops native propagation.
//
// # Dynamic Elements
//
// Elements with a Template are dynamic: their nodes come and go at runtime,
// so their node cache is re-queried on every access. Element.RenderTo
// appends a rendered node and refreshes every element that was empty or is
// dynamic, so elements nested in the new markup are found immediately.
//
// # Messaging
//
// Components talk through the Hub without holding references to each other:
//
//	cart.Listen(widget.Subscription{
//	    Event: "item:added",
//	    Handler: func(c *widget.Component, p widget.Payload) { ... },
//	})
//	list.Emit("item:added", map[string]any{"id": "42"})
//
// Broadcasts are synchronous and never delivered back to the sender. The
// payload always includes "target", the sending component.
//
// # Hosts
//
// The engine reaches the page through the Host interface. lib/dom provides
// an implementation over golang.org/x/net/html with CSS selectors, which
// NewTestPage uses for tests.
package widget
