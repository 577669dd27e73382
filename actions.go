package widget

import "github.com/pthm/widget/lib/dom"

// Built-in action names installed on every element.
const (
	ActionIsActive   = "isActive"
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
)

func builtinActions() map[string]Action {
	return map[string]Action{
		ActionIsActive: func(el *Element, args ...any) any {
			return el.IsActive(indexArg(args))
		},
		ActionActivate: func(el *Element, args ...any) any {
			return el.Activate(indexArg(args))
		},
		ActionDeactivate: func(el *Element, args ...any) any {
			return el.Deactivate(indexArg(args))
		},
	}
}

// indexArg reads an optional leading index argument, defaulting to 0.
func indexArg(args []any) int {
	if len(args) == 0 {
		return 0
	}
	switch v := args[0].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// IsActive reports whether the node at index carries the active class.
func (el *Element) IsActive(index int) bool {
	n, ok := el.Get(index)
	return ok && dom.HasClass(n, el.owner.hub.cfg.activeClass)
}

// Activate adds the active class to the node at index.
func (el *Element) Activate(index int) bool {
	n, ok := el.Get(index)
	if ok {
		dom.AddClass(n, el.owner.hub.cfg.activeClass)
	}
	return ok
}

// Deactivate removes the active class from the node at index.
func (el *Element) Deactivate(index int) bool {
	n, ok := el.Get(index)
	if ok {
		dom.RemoveClass(n, el.owner.hub.cfg.activeClass)
	}
	return ok
}
