package outfmt

import (
	"bytes"
	"context"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input       string
		expected    Mode
		expectError bool
	}{
		{"text", Text, false},
		{"", Text, false},
		{"json", JSON, false},
		{"yaml", YAML, false},
		{"yml", YAML, false},
		{"invalid", Text, true},
		{"JSON", Text, true}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			mode, err := Parse(tt.input)
			if tt.expectError && err == nil {
				t.Error("Expected error but got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if !tt.expectError && mode != tt.expected {
				t.Errorf("Expected mode %v, got %v", tt.expected, mode)
			}
		})
	}
}

func TestModeString(t *testing.T) {
	for mode, want := range map[Mode]string{Text: "text", JSON: "json", YAML: "yaml"} {
		if got := mode.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mode, got, want)
		}
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	if ModeFromContext(ctx) != Text || IsJSON(ctx) || IsCompact(ctx) || GetQuery(ctx) != "" {
		t.Fatal("empty context should carry defaults")
	}

	ctx = WithQuery(WithCompact(WithMode(ctx, JSON), true), ".id")
	if !IsJSON(ctx) || !IsCompact(ctx) || GetQuery(ctx) != ".id" {
		t.Error("context values not round-tripped")
	}
}

func TestWriteJSON(t *testing.T) {
	var pretty, compact bytes.Buffer
	data := map[string]any{"screen_name": "jack", "id": 12}

	if err := WriteJSON(&pretty, data, false); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := WriteJSON(&compact, data, true); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := compact.String(); got != "{\"id\":12,\"screen_name\":\"jack\"}\n" {
		t.Errorf("compact = %q", got)
	}
	if !bytes.Contains(pretty.Bytes(), []byte("\n  \"id\": 12")) {
		t.Errorf("pretty output not indented: %q", pretty.String())
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	type user struct {
		ID         int64  `json:"id"`
		ScreenName string `json:"screen_name"`
	}
	if err := WriteYAML(&buf, []user{{ID: 1300794057949944903, ScreenName: "jack"}}); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	want := "- id: 1300794057949944903\n  screen_name: jack\n"
	if buf.String() != want {
		t.Errorf("yaml = %q, want %q", buf.String(), want)
	}
}

func TestApplyQuery(t *testing.T) {
	got, err := ApplyQuery(map[string]any{"user": map[string]any{"screen_name": "jack"}}, ".user.screen_name")
	if err != nil {
		t.Fatalf("ApplyQuery: %v", err)
	}
	if got != "jack" {
		t.Errorf("got %v", got)
	}

	same, err := ApplyQuery("untouched", "")
	if err != nil || same != "untouched" {
		t.Error("empty query should return the value unchanged")
	}

	if _, err := ApplyQuery(map[string]any{}, ".["); err == nil {
		t.Error("expected error for invalid query")
	}
}
