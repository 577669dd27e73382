package scenario

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/pthm/widget"
	"github.com/pthm/widget/lib/dom"
)

// handlerEffects maps effect verbs usable in element handlers to whether
// they require an argument.
var handlerEffects = map[string]bool{
	"activate":   false,
	"deactivate": false,
	"toggle":     false,
	"stop":       false,
	"prevent":    false,
	"remove":     false,
	"log":        false,
	"copy":       true,
	"render":     true,
	"emit":       true,
}

// receiveEffects maps effect verbs usable in subscriptions to whether they
// require an argument.
var receiveEffects = map[string]bool{
	"log":        false,
	"activate":   true,
	"deactivate": true,
	"text":       true,
	"emit":       true,
}

func validHandlerEffect(effect string) bool {
	return validEffect(handlerEffects, effect)
}

func validReceiveEffect(effect string) bool {
	return validEffect(receiveEffects, effect)
}

func validEffect(verbs map[string]bool, effect string) bool {
	verb, arg := splitEffect(effect)
	needsArg, ok := verbs[verb]
	return ok && needsArg == (arg != "")
}

// Result is the outcome of a replay.
type Result struct {
	Doc   *dom.Document
	Hub   *widget.Hub
	Trace []string

	errs []error
}

// Err returns the first error raised by an effect during the replay.
func (r *Result) Err() error {
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs[0]
}

func (r *Result) tracef(format string, args ...any) {
	r.Trace = append(r.Trace, fmt.Sprintf(format, args...))
}

func (r *Result) record(err error) {
	if err != nil {
		r.errs = append(r.errs, err)
		r.tracef("error: %v", err)
	}
}

// Replay builds the scenario's page and components and fires its events in
// order. Setup problems (unknown containers or targets) are returned as
// errors; effect errors are recorded on the Result.
func (s *Scenario) Replay(opts ...widget.Option) (*Result, error) {
	doc, err := dom.Parse(s.Page)
	if err != nil {
		return nil, err
	}
	r := &Result{Doc: doc, Hub: widget.NewHub(doc, opts...)}

	for _, cs := range s.Components {
		container, ok := doc.Query(cs.Container)
		if !ok {
			return nil, fmt.Errorf("%w: component %s: no node matches %q", ErrInvalidScenario, cs.Name, cs.Container)
		}
		selector := cs.Selector
		if selector == "" {
			selector = cs.Container
		}
		c := r.Hub.Create(cs.Name, container, selector)

		specs := make([]widget.Spec, 0, len(cs.Elements))
		for _, es := range cs.Elements {
			specs = append(specs, r.elementSpec(es))
		}
		c.Define(specs...)

		for _, l := range cs.Listen {
			c.Listen(widget.Subscription{Event: l.Event, Handler: r.receiver(l)})
		}
	}

	for i, ev := range s.Events {
		targets := doc.QueryAll(ev.Target, doc.Root())
		if ev.Index < 0 || ev.Index >= len(targets) {
			return nil, fmt.Errorf("%w: event %d: %q[%d] matches nothing", ErrInvalidScenario, i, ev.Target, ev.Index)
		}
		var eopts []dom.EventOption
		if ev.Related != "" {
			related, ok := doc.Query(ev.Related)
			if !ok {
				return nil, fmt.Errorf("%w: event %d: no related node %q", ErrInvalidScenario, i, ev.Related)
			}
			eopts = append(eopts, dom.WithRelated(related))
		}
		if len(ev.Touch) == 2 {
			eopts = append(eopts, dom.WithTouch(ev.Touch[0], ev.Touch[1]))
		}
		r.tracef("fire %s %s[%d]", ev.Type, ev.Target, ev.Index)
		doc.Fire(ev.Type, targets[ev.Index], eopts...)
	}
	return r, nil
}

func (r *Result) elementSpec(es Element) widget.Spec {
	spec := widget.Spec{
		Name:     es.Name,
		Selector: es.Selector,
		On:       make(map[string]widget.Handler, len(es.On)),
	}
	if es.Template != "" {
		markup := es.Template
		spec.Template = widget.Markup(func(args ...any) string { return markup })
	}
	for typ, effects := range es.On {
		spec.On[typ] = r.handler(typ, effects)
	}
	return spec
}

func (r *Result) handler(typ string, effects []string) widget.Handler {
	return func(el *widget.Element, ev *widget.Event, index int) {
		c := el.Component()
		r.tracef("%s.%s %s [%d]", c.Name(), el.Name(), typ, index)
		for _, effect := range effects {
			verb, arg := splitEffect(effect)
			switch verb {
			case "activate":
				el.Activate(index)
			case "deactivate":
				el.Deactivate(index)
			case "toggle":
				if el.IsActive(index) {
					el.Deactivate(index)
				} else {
					el.Activate(index)
				}
			case "stop":
				ev.StopInner()
			case "prevent":
				ev.PreventDefault()
			case "remove":
				el.Remove(index)
			case "log":
				r.tracef("%s.%s log %s phase=%s target=%s", c.Name(), el.Name(), typ, ev.Phase(), ev.Target.Data)
				c.Logger().Info("scenario event",
					zap.String("element", el.Name()),
					zap.String("event", typ),
					zap.Stringer("phase", ev.Phase()),
					zap.String("target", ev.Target.Data),
					zap.Int("index", index))
			case "copy":
				if other, ok := c.Element(arg); ok {
					other.SetText(0, el.Text(index))
				}
			case "render":
				other, ok := c.Element(arg)
				n, found := el.Get(index)
				if ok && found {
					other.RenderTo(n)
				}
			case "emit":
				r.record(c.Emit(arg, map[string]any{
					"element": el.Name(),
					"index":   index,
					"text":    el.Text(index),
				}))
			}
		}
	}
}

func (r *Result) receiver(l Listen) widget.Receiver {
	return func(c *widget.Component, p widget.Payload) {
		from := "-"
		if sender, ok := p.Target(); ok {
			from = sender.Name()
		}
		r.tracef("%s <- %s from %s", c.Name(), l.Event, from)
		for _, effect := range l.Do {
			verb, arg := splitEffect(effect)
			switch verb {
			case "log":
				keys := payloadKeys(p)
				r.tracef("%s log %s keys=%s", c.Name(), l.Event, strings.Join(keys, ","))
				c.Logger().Info("scenario receive",
					zap.String("event", l.Event),
					zap.Strings("keys", keys))
				continue
			case "emit":
				fields := make(map[string]any, len(p))
				for k, v := range p {
					if k != "target" {
						fields[k] = v
					}
				}
				r.record(c.Emit(arg, fields))
				continue
			}

			el, ok := c.Element(arg)
			if !ok {
				continue
			}
			switch verb {
			case "activate":
				el.Activate(0)
			case "deactivate":
				el.Deactivate(0)
			case "text":
				text, _ := p.String("text")
				el.SetText(0, text)
			}
		}
	}
}

func payloadKeys(p widget.Payload) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
