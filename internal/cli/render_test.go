package cli

import (
	"reflect"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty defaults to svg", in: "", want: []string{"svg"}},
		{name: "single", in: "png", want: []string{"png"}},
		{name: "multiple", in: "svg,png", want: []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	if err := validateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("validateFormats(svg,png) error: %v", err)
	}
	if err := validateFormats([]string{"svg", "bmp"}); err == nil {
		t.Error("validateFormats should reject unknown format")
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{name: "derived from input", output: "", input: "plan.toml", want: "plan"},
		{name: "output with format extension", output: "out.svg", input: "plan.toml", want: "out"},
		{name: "output with other extension kept", output: "out.v2", input: "plan.toml", want: "out.v2"},
		{name: "bare output", output: "snapshots/plan", input: "plan.toml", want: "snapshots/plan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}
