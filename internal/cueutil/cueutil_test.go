// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name:   string
	count?: int
	items?: [Name=string]: {weight: int}
}
`

func TestCompile(t *testing.T) {
	t.Parallel()

	v, err := Compile(testSchema, []byte(`
name: "demo"
items: {
	zeta: weight: 1
	alpha: weight: 2
	"with/slash": weight: 3
}
`), "#Doc", "doc.cue")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	items, ok := Lookup(v, "items")
	if !ok {
		t.Fatal("items should be present")
	}

	var names []string
	for name, item := range Fields(items) {
		names = append(names, name)
		if _, ok := Lookup(item, "weight"); !ok {
			t.Errorf("%s: weight missing", name)
		}
	}
	if got := strings.Join(names, ","); got != "zeta,alpha,with/slash" {
		t.Errorf("Fields() order = %s, want declaration order", got)
	}

	if _, ok := Lookup(v, "count"); ok {
		t.Error("count is unset and should not exist")
	}
}

func TestCompile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantSub string
	}{
		{name: "syntax", data: "name: ", wantSub: "doc.cue"},
		{name: "type mismatch", data: `name: 1`, wantSub: "name"},
		{name: "unknown field", data: `name: "x", bogus: true`, wantSub: "bogus"},
		{name: "nested index", data: `name: "x", items: a: weight: "heavy"`, wantSub: "items.a.weight"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Compile(testSchema, []byte(tt.data), "#Doc", "doc.cue")
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []string
		want string
	}{
		{in: nil, want: ""},
		{in: []string{"components"}, want: "components"},
		{in: []string{"environment", "2", "name"}, want: "environment[2].name"},
		{in: []string{"0"}, want: "0"},
	}
	for _, tt := range tests {
		if got := formatPath(tt.in); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()
	if err := CheckFileSize(make([]byte, 10), 10, "f"); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := CheckFileSize(make([]byte, 11), 10, "f"); err == nil {
		t.Error("over limit: expected error")
	}
}
