package encoding

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

type selection struct {
	ID    int    `msgpack:"id"`
	Label string `json:"label"`
	Count uint
	Ratio float64
	note  string
}

type ref struct{ name string }

type livePayload struct{ r *ref }

func (p livePayload) Fields() map[string]any {
	return map[string]any{"ref": p.r}
}

func TestFieldsNil(t *testing.T) {
	got, err := Fields(nil)
	if err != nil {
		t.Fatalf("Fields(nil) failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Fields(nil) = %v, want empty map", got)
	}
}

func TestFieldsMapIsCopied(t *testing.T) {
	in := map[string]any{"key": "v"}
	got, err := Fields(in)
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	got["key"] = "changed"
	if in["key"] != "v" {
		t.Error("Fields should copy the input map")
	}
}

func TestFieldsStruct(t *testing.T) {
	got, err := Fields(selection{ID: 7, Label: "seven", Count: 3, Ratio: 0.5, note: "hidden"})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}

	if got["id"] != 7 {
		t.Errorf("id = %#v, want 7", got["id"])
	}
	if got["label"] != "seven" {
		t.Errorf("label = %#v, want %q", got["label"], "seven")
	}
	if got["Count"] != uint(3) {
		t.Errorf("Count = %#v, want 3", got["Count"])
	}
	if got["Ratio"] != 0.5 {
		t.Errorf("Ratio = %#v, want 0.5", got["Ratio"])
	}
	if _, ok := got["note"]; ok {
		t.Error("unexported field should not be encoded")
	}
}

func TestFieldsStructKeepsReferences(t *testing.T) {
	type picked struct {
		Node   *html.Node `msgpack:"node"`
		Target *ref       `json:"target"`
		Key    string
	}

	doc, err := html.Parse(strings.NewReader("<p>one</p><p>two</p>"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	r := &ref{name: "live"}

	got, err := Fields(picked{Node: doc, Target: r, Key: "v"})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if got["node"] != doc {
		t.Error("node field should be passed through by reference")
	}
	if got["target"] != r {
		t.Error("target field should be passed through by reference")
	}
	if got["Key"] != "v" {
		t.Errorf("Key = %#v, want %q", got["Key"], "v")
	}
}

func TestFieldsStructTags(t *testing.T) {
	type base struct {
		Shared string
		Inner  int
	}
	type tagged struct {
		base
		Base    base   `msgpack:"base"`
		Skipped string `msgpack:"-"`
		Empty   string `json:"empty,omitempty"`
		Both    string `msgpack:"mp" json:"js"`
		Shared  string
	}

	got, err := Fields(tagged{
		base:    base{Shared: "inner", Inner: 1},
		Base:    base{Inner: 2},
		Skipped: "x",
		Both:    "b",
		Shared:  "outer",
	})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}

	want := map[string]any{
		"base":   base{Inner: 2},
		"mp":     "b",
		"Shared": "outer",
	}
	if len(got) != len(want) {
		t.Errorf("Fields = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %#v, want %#v", k, got[k], v)
		}
	}
}

type Embedded struct {
	Shared string
	Inner  int
}

func TestFieldsInlinesEmbedded(t *testing.T) {
	type outer struct {
		Embedded
		Shared string
	}

	got, err := Fields(&outer{Embedded: Embedded{Shared: "inner", Inner: 1}, Shared: "outer"})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if got["Shared"] != "outer" {
		t.Errorf("Shared = %#v, want outer field to win", got["Shared"])
	}
	if got["Inner"] != 1 {
		t.Errorf("Inner = %#v, want 1", got["Inner"])
	}
	if _, ok := got["Embedded"]; ok {
		t.Error("embedded struct should be inlined")
	}
}

func TestDecode(t *testing.T) {
	type target struct {
		ID    int    `msgpack:"id"`
		Label string `json:"label"`
		Tags  []string
		Node  *html.Node
	}

	node := &html.Node{Type: html.ElementNode, Data: "p"}
	fields := map[string]any{
		"id":    int64(7),
		"label": "seven",
		"Tags":  []any{"a", "b"},
		"Node":  node,
	}

	var got target
	if err := Decode(fields, &got); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got.ID != 7 || got.Label != "seven" {
		t.Errorf("Decode = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", got.Tags)
	}
	if got.Node != nil {
		t.Error("reference fields should be skipped by Decode")
	}
}

func TestFieldsStructPointer(t *testing.T) {
	got, err := Fields(&selection{Label: "ptr"})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if got["label"] != "ptr" {
		t.Errorf("label = %#v, want %q", got["label"], "ptr")
	}
}

func TestFieldsEncodableKeepsReferences(t *testing.T) {
	r := &ref{name: "live"}
	got, err := Fields(livePayload{r: r})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if got["ref"] != r {
		t.Error("Encodable fields should be passed through by reference")
	}
}

func TestFieldsRejectsScalars(t *testing.T) {
	tests := []struct {
		name    string
		payload any
	}{
		{"string", "hello"},
		{"int", 42},
		{"slice", []string{"a"}},
		{"int keys", map[int]string{1: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fields(tt.payload)
			if !errors.Is(err, ErrInvalidPayload) {
				t.Errorf("Fields(%v) error = %v, want ErrInvalidPayload", tt.payload, err)
			}
		})
	}
}

func TestFieldsStringMap(t *testing.T) {
	got, err := Fields(map[string]string{"key": "v"})
	if err != nil {
		t.Fatalf("Fields failed: %v", err)
	}
	if got["key"] != "v" {
		t.Errorf("key = %#v, want %q", got["key"], "v")
	}
}
