package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		width    int
		contains []string
	}{
		{"short text", "hello world", 20, []string{"hello world"}},
		{"needs wrap", "hello world foo bar", 10, []string{"hello", "world", "foo", "bar"}},
		{"zero width", "hello", 0, []string{"hello"}},
		{"keeps paragraphs", "first line\nsecond line", 40, []string{"first line\nsecond line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapText(tt.input, tt.width)
			for _, substr := range tt.contains {
				if !strings.Contains(result, substr) {
					t.Errorf("WrapText(%q, %d) = %q, expected to contain %q", tt.input, tt.width, result, substr)
				}
			}
		})
	}
}

func TestWrapTextLineWidth(t *testing.T) {
	text := "Your battery is degrading within the expected range for its age and mileage."
	for _, line := range strings.Split(WrapText(text, 24), "\n") {
		if len(line) > 24 {
			t.Errorf("line %q is wider than 24", line)
		}
	}
}

func TestPanel(t *testing.T) {
	st := LightTheme.Styles()

	t.Run("basic panel", func(t *testing.T) {
		result := NewPanel(st, "Title", "Content").Render()

		if !strings.Contains(result, "Title") {
			t.Error("Panel should contain title")
		}
		if !strings.Contains(result, "Content") {
			t.Error("Panel should contain content")
		}
	})

	t.Run("panel without title", func(t *testing.T) {
		result := NewPanel(st, "", "Content only").Render()

		if !strings.Contains(result, "Content only") {
			t.Error("Panel should contain content")
		}
	})

	t.Run("panel with custom color and width", func(t *testing.T) {
		result := NewPanel(st, "EV Health Assistant", "Details").
			WithBorderColor(st.Theme.Accent).
			WithWidth(40).
			Render()

		if !strings.Contains(result, "EV Health Assistant") {
			t.Error("Panel should contain title")
		}
		first := strings.Split(result, "\n")[0]
		if !strings.HasPrefix(first, "╭") && !strings.Contains(first, "╭") {
			t.Errorf("Panel should start with a rounded border, got %q", first)
		}
	})
}

func TestRenderPageHeader(t *testing.T) {
	var buf bytes.Buffer
	RenderPageHeader(&buf, DarkTheme.Styles(), "Vehicles", "User driver-7")

	out := buf.String()
	if !strings.Contains(out, "Vehicles") {
		t.Error("header should contain the title")
	}
	if !strings.Contains(out, "User driver-7") {
		t.Error("header should contain the subtitle")
	}

	buf.Reset()
	RenderPageHeader(&buf, DarkTheme.Styles(), "Battery health", "")
	if strings.Count(buf.String(), "\n") < 2 {
		t.Errorf("header without subtitle should still end with a blank line, got %q", buf.String())
	}
}

func TestSpinnerStopClearsLine(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf, "Analysing battery...")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()

	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Errorf("spinner should clear its line on stop, got %q", buf.String())
	}
}
