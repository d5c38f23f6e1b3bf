package toolreg

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubTool is a minimal Tool for registry tests.
type stubTool struct {
	name string
	out  string
	err  error
}

func (t *stubTool) Name() string               { return t.name }
func (t *stubTool) Description() string        { return "stub " + t.name }
func (t *stubTool) Parameters() map[string]any { return map[string]any{"type": "object"} }
func (t *stubTool) Execute(_ context.Context, _ map[string]any) (string, error) {
	return t.out, t.err
}

func TestRegistry_RegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "alpha", out: "ok"})

	got, err := r.Execute(context.Background(), "alpha", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
}

func TestRegistry_UnknownTool(t *testing.T) {
	r := NewRegistry()

	_, err := r.Execute(context.Background(), "ghost", nil)
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("error %q should mention unknown tool", err.Error())
	}
}

func TestRegistry_ExecuteError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("store unavailable")
	r.Register(&stubTool{name: "failing", err: boom})

	_, err := r.Execute(context.Background(), "failing", nil)
	if !errors.Is(err, boom) {
		t.Errorf("expected tool error passed through, got %v", err)
	}
}

func TestRegistry_ToLLMTools_Order(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"first", "second", "third"} {
		r.Register(&stubTool{name: name})
	}

	defs := r.ToLLMTools()
	if len(defs) != 3 {
		t.Fatalf("got %d definitions, want 3", len(defs))
	}
	for i, want := range []string{"first", "second", "third"} {
		if defs[i].Function.Name != want {
			t.Errorf("defs[%d] = %q, want %q", i, defs[i].Function.Name, want)
		}
		if defs[i].Type != "function" {
			t.Errorf("defs[%d].Type = %q", i, defs[i].Type)
		}
	}
}

func TestGetInt_Coercion(t *testing.T) {
	cases := []struct {
		name    string
		args    map[string]any
		want    int64
		wantErr bool
	}{
		{"json number", map[string]any{"id": float64(7)}, 7, false},
		{"numeric string", map[string]any{"id": "42"}, 42, false},
		{"non-numeric string", map[string]any{"id": "seven"}, 0, true},
		{"fractional number", map[string]any{"id": 3.5}, 0, true},
		{"missing", map[string]any{}, 0, true},
		{"wrong type", map[string]any{"id": []any{1}}, 0, true},
	}
	for _, c := range cases {
		got, err := getInt(c.args, "id")
		if c.wantErr {
			if err == nil {
				t.Errorf("%s: expected error, got %d", c.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s: got %d, want %d", c.name, got, c.want)
		}
	}
}

func TestGetString_Coercion(t *testing.T) {
	args := map[string]any{"s": "text", "n": float64(12), "b": true}
	if got := getString(args, "s"); got != "text" {
		t.Errorf("string: got %q", got)
	}
	if got := getString(args, "n"); got != "12" {
		t.Errorf("number: got %q", got)
	}
	if got := getString(args, "missing"); got != "" {
		t.Errorf("missing: got %q", got)
	}
}
