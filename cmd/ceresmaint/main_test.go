package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitRunArgs(t *testing.T) {
	refs, params := splitRunArgs([]string{"removeempty", "nodestat", "nodestat.verbose=true", "retention=30d"})
	if !reflect.DeepEqual(refs, []string{"removeempty", "nodestat"}) {
		t.Fatalf("unexpected refs: %v", refs)
	}
	if !reflect.DeepEqual(params, []string{"nodestat.verbose=true", "retention=30d"}) {
		t.Fatalf("unexpected params: %v", params)
	}
}

func TestSplitRunArgsNoParams(t *testing.T) {
	refs, params := splitRunArgs([]string{"removeempty"})
	if len(refs) != 1 || refs[0] != "removeempty" {
		t.Fatalf("unexpected refs: %v", refs)
	}
	if params != nil {
		t.Fatalf("expected no params, got %v", params)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"only"}}, nil)
	if !strings.Contains(out, "only") {
		t.Fatalf("rendered table missing cell value:\n%s", out)
	}
	if !strings.Contains(out, "A") || !strings.Contains(out, "B") {
		t.Fatalf("rendered table missing headers:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCommand()
	want := map[string]bool{"run": false, "plugins": false, "history": false, "config": false}
	for _, sub := range root.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("subcommand %q not registered", name)
		}
	}
}
