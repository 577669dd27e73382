// Package scenario loads scripted widget sessions from YAML and replays them.
//
// A scenario names a page, the components to build on it and a list of
// native events to fire. Handlers are declared as effect lists so sessions
// can be written without Go code:
//
//	page: |
//	  <div id="menu" class="menu"><a class="menu__link">A</a><h1 class="menu__title"></h1></div>
//	components:
//	  - name: menu
//	    container: "#menu"
//	    selector: .menu
//	    elements:
//	      - name: title
//	      - name: link
//	        on:
//	          click: [activate, 'copy:title', 'emit:picked']
//	events:
//	  - type: click
//	    target: .menu__link
//
// Every handler and receiver run adds a line to the replay trace. The log
// effect adds a second line with the event's phase and target tag (or, in a
// receiver, the payload keys) and writes the same data to the hub's logger.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned for scenarios that cannot be replayed.
var ErrInvalidScenario = errors.New("scenario: invalid scenario")

// Scenario is a scripted session.
type Scenario struct {
	Page       string      `yaml:"page,omitempty"`
	PageFile   string      `yaml:"page_file,omitempty"`
	Components []Component `yaml:"components"`
	Events     []Event     `yaml:"events"`
}

// Component declares one widget.
type Component struct {
	Name      string    `yaml:"name"`
	Container string    `yaml:"container"`
	Selector  string    `yaml:"selector"`
	Elements  []Element `yaml:"elements,omitempty"`
	Listen    []Listen  `yaml:"listen,omitempty"`
}

// Element declares one element of a widget. Template is literal markup
// rendered by the render effect.
type Element struct {
	Name     string              `yaml:"name"`
	Selector string              `yaml:"selector,omitempty"`
	Template string              `yaml:"template,omitempty"`
	On       map[string][]string `yaml:"on,omitempty"`
}

// Listen subscribes a widget to a hub event.
type Listen struct {
	Event string   `yaml:"event"`
	Do    []string `yaml:"do,omitempty"`
}

// Event is a native event to fire.
type Event struct {
	Type    string    `yaml:"type"`
	Target  string    `yaml:"target"`
	Index   int       `yaml:"index,omitempty"`
	Related string    `yaml:"related,omitempty"`
	Touch   []float64 `yaml:"touch,omitempty"`
}

// Load reads a scenario file. A relative page_file is resolved against the
// scenario's directory.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if s.PageFile != "" {
		pagePath := s.PageFile
		if !filepath.IsAbs(pagePath) {
			pagePath = filepath.Join(filepath.Dir(path), pagePath)
		}
		page, err := os.ReadFile(pagePath)
		if err != nil {
			return nil, fmt.Errorf("scenario: read page %s: %w", pagePath, err)
		}
		s.Page = string(page)
	}
	return s, nil
}

// Parse decodes and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every component, element, effect and event is
// complete.
func (s *Scenario) Validate() error {
	if s.Page == "" && s.PageFile == "" {
		return fmt.Errorf("%w: no page", ErrInvalidScenario)
	}
	for i, c := range s.Components {
		if c.Container == "" {
			return fmt.Errorf("%w: component %d (%s) has no container", ErrInvalidScenario, i, c.Name)
		}
		seen := make(map[string]bool, len(c.Elements))
		for _, el := range c.Elements {
			if el.Name == "" {
				return fmt.Errorf("%w: component %s has an unnamed element", ErrInvalidScenario, c.Name)
			}
			if seen[el.Name] {
				return fmt.Errorf("%w: component %s declares element %s twice", ErrInvalidScenario, c.Name, el.Name)
			}
			seen[el.Name] = true
			for typ, effects := range el.On {
				for _, e := range effects {
					if !validHandlerEffect(e) {
						return fmt.Errorf("%w: %s.%s %s: unknown effect %q", ErrInvalidScenario, c.Name, el.Name, typ, e)
					}
				}
			}
		}
		for _, l := range c.Listen {
			if l.Event == "" {
				return fmt.Errorf("%w: component %s listens to an unnamed event", ErrInvalidScenario, c.Name)
			}
			for _, e := range l.Do {
				if !validReceiveEffect(e) {
					return fmt.Errorf("%w: %s on %s: unknown effect %q", ErrInvalidScenario, c.Name, l.Event, e)
				}
			}
		}
	}
	for i, ev := range s.Events {
		if ev.Type == "" || ev.Target == "" {
			return fmt.Errorf("%w: event %d needs a type and a target", ErrInvalidScenario, i)
		}
		if len(ev.Touch) != 0 && len(ev.Touch) != 2 {
			return fmt.Errorf("%w: event %d touch must be [x, y]", ErrInvalidScenario, i)
		}
	}
	return nil
}

// splitEffect splits "emit:picked" into ("emit", "picked").
func splitEffect(effect string) (string, string) {
	verb, arg, _ := strings.Cut(effect, ":")
	return verb, arg
}
