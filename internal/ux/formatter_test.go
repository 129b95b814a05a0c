package ux

import (
	"bytes"
	"strings"
	"testing"
)

type testPayload struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type stringerPayload struct{}

func (stringerPayload) String() string { return "rendered payload" }

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"json format", "json", false},
		{"yaml format", "yaml", false},
		{"text format", "text", false},
		{"empty format defaults to text", "", false},
		{"unknown format", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFormatter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFormatter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter("json", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := f.Format(testPayload{Name: "auth", Count: 3}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"name": "auth"`) {
		t.Errorf("JSON output missing indented name field: %s", out)
	}
	if !strings.Contains(out, `"count": 3`) {
		t.Errorf("JSON output missing count field: %s", out)
	}
}

func TestJSONFormatterCompact(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter("json", &FormatterOptions{Writer: &buf, Compact: true})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := f.Format(testPayload{Name: "auth", Count: 3}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := strings.TrimSpace(buf.String())
	if strings.Count(out, "\n") != 0 {
		t.Errorf("Compact JSON should be a single line, got: %q", out)
	}
	if !strings.Contains(out, `"name":"auth"`) {
		t.Errorf("Compact JSON output unexpected: %s", out)
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	f, err := NewFormatter("yaml", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := f.Format(testPayload{Name: "auth", Count: 3}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "name: auth") {
		t.Errorf("YAML output missing name field: %s", out)
	}
	if !strings.Contains(out, "count: 3") {
		t.Errorf("YAML output missing count field: %s", out)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		data    interface{}
		want    string
		wantErr bool
	}{
		{"string", "plain message", "plain message\n", false},
		{"byte slice", []byte("raw bytes"), "raw bytes\n", false},
		{"stringer", stringerPayload{}, "rendered payload\n", false},
		{"unsupported struct", testPayload{}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			f, err := NewFormatter("text", &FormatterOptions{Writer: &buf})
			if err != nil {
				t.Fatalf("NewFormatter() error = %v", err)
			}

			err = f.Format(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Format() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && buf.String() != tt.want {
				t.Errorf("Format() output = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
