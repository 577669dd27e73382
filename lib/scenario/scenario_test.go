package scenario

import (
	"errors"
	"strings"
	"testing"

	"github.com/pthm/widget/lib/dom"
)

func TestLoadAndReplay(t *testing.T) {
	s, err := Load("testdata/menu.yaml")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !strings.Contains(s.Page, "menu__link") {
		t.Fatal("page_file was not loaded")
	}

	res, err := s.Replay()
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if err := res.Err(); err != nil {
		t.Fatalf("effect error: %v", err)
	}

	title := dom.Text(res.Doc.MustQuery(".menu__title"))
	if title != "About" {
		t.Errorf("title = %q, want %q", title, "About")
	}
	status := dom.Text(res.Doc.MustQuery(".status__line"))
	if status != "About" {
		t.Errorf("status = %q, want %q", status, "About")
	}
	if got := len(res.Doc.QueryAll(".menu__link.active", res.Doc.Root())); got != 1 {
		t.Errorf("active links = %d, want 1", got)
	}

	want := []string{
		"fire click .menu__link[1]",
		"menu.link click [1]",
		"status <- menu:picked from menu",
	}
	if strings.Join(res.Trace, "\n") != strings.Join(want, "\n") {
		t.Errorf("trace =\n%s\nwant\n%s", strings.Join(res.Trace, "\n"), strings.Join(want, "\n"))
	}
}

func TestReplayRender(t *testing.T) {
	s, err := Parse([]byte(`
page: |
  <div id="todo" class="todo"><ul class="todo__list"></ul><button class="todo__add">+</button></div>
components:
  - name: todo
    container: "#todo"
    selector: .todo
    elements:
      - name: list
        on:
          click: ['render:item']
      - name: item
        template: <li>task</li>
        on:
          click: [remove, stop]
events:
  - type: click
    target: .todo__list
  - type: click
    target: .todo__list
  - type: click
    target: .todo__item
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, err := s.Replay()
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if got := len(res.Doc.QueryAll(".todo__item", res.Doc.Root())); got != 1 {
		t.Errorf("items = %d, want 1", got)
	}
	comps := res.Hub.Components()
	if len(comps) != 1 || comps[0].ListenerCount() != 1 {
		t.Errorf("components = %d, want one with a single click listener", len(comps))
	}
}

func TestReplayForwardingEmit(t *testing.T) {
	s, err := Parse([]byte(`
page: |
  <div id="a" class="a"><b class="a__btn">go</b></div>
  <div id="b" class="b"></div>
  <div id="c" class="c"><i class="c__mark"></i></div>
components:
  - name: a
    container: "#a"
    elements:
      - name: btn
        selector: b
        on:
          click: ['emit:one']
  - name: b
    container: "#b"
    listen:
      - event: one
        do: ['emit:two']
  - name: c
    container: "#c"
    selector: .c
    elements:
      - name: mark
    listen:
      - event: two
        do: ['activate:mark', log]
events:
  - type: click
    target: .a__btn
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, err := s.Replay()
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if got := len(res.Doc.QueryAll(".c__mark.active", res.Doc.Root())); got != 1 {
		t.Errorf("marked = %d, want 1", got)
	}
	last := res.Trace[len(res.Trace)-1]
	if last != "c <- two from b" {
		t.Errorf("last trace line = %q, want %q", last, "c <- two from b")
	}
}

func TestReplayLogEffect(t *testing.T) {
	s, err := Parse([]byte(`
page: |
  <div id="a" class="a"><p class="a__p">x</p></div>
  <div id="b" class="b"></div>
components:
  - name: a
    container: "#a"
    elements:
      - name: p
        selector: p
        on:
          click: [log, 'emit:hi']
  - name: b
    container: "#b"
    listen:
      - event: hi
        do: [log]
events:
  - type: click
    target: .a__p
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	res, err := s.Replay()
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	want := []string{
		"fire click .a__p[0]",
		"a.p click [0]",
		"a.p log click phase=bubbling target=p",
		"b <- hi from a",
		"b log hi keys=element,index,target,text",
	}
	if strings.Join(res.Trace, "\n") != strings.Join(want, "\n") {
		t.Errorf("trace =\n%s\nwant\n%s", strings.Join(res.Trace, "\n"), strings.Join(want, "\n"))
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no page", `components: []`},
		{"no container", "page: x\ncomponents:\n  - name: a\n"},
		{"duplicate element", "page: x\ncomponents:\n  - name: a\n    container: '#a'\n    elements:\n      - name: e\n      - name: e\n"},
		{"unnamed element", "page: x\ncomponents:\n  - name: a\n    container: '#a'\n    elements:\n      - selector: p\n"},
		{"unknown effect", "page: x\ncomponents:\n  - name: a\n    container: '#a'\n    elements:\n      - name: e\n        on:\n          click: [explode]\n"},
		{"missing argument", "page: x\ncomponents:\n  - name: a\n    container: '#a'\n    elements:\n      - name: e\n        on:\n          click: [emit]\n"},
		{"unexpected argument", "page: x\ncomponents:\n  - name: a\n    container: '#a'\n    elements:\n      - name: e\n        on:\n          click: ['stop:now']\n"},
		{"bad receive effect", "page: x\ncomponents:\n  - name: a\n    container: '#a'\n    listen:\n      - event: e\n        do: [remove]\n"},
		{"unnamed listen", "page: x\ncomponents:\n  - name: a\n    container: '#a'\n    listen:\n      - do: [log]\n"},
		{"event without target", "page: x\nevents:\n  - type: click\n"},
		{"bad touch", "page: x\nevents:\n  - type: touchmove\n    target: p\n    touch: [1]\n"},
		{"malformed yaml", "page: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Parse error = %v, want ErrInvalidScenario", err)
			}
		})
	}
}

func TestReplaySetupErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing container", "page: <p></p>\ncomponents:\n  - name: a\n    container: '#nope'\n"},
		{"missing target", "page: <p></p>\nevents:\n  - type: click\n    target: '#nope'\n"},
		{"index out of range", "page: <p></p>\nevents:\n  - type: click\n    target: p\n    index: 4\n"},
		{"missing related", "page: <p></p>\nevents:\n  - type: mouseover\n    target: p\n    related: '#nope'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if _, err := s.Replay(); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Replay error = %v, want ErrInvalidScenario", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("testdata/missing.yaml"); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
