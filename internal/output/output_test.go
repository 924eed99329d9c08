package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/bimmerbailey/clpack/internal/alias"
	"github.com/bimmerbailey/clpack/internal/emit"
	"github.com/bimmerbailey/clpack/internal/generator"
)

func sampleResults() []*generator.Result {
	return []*generator.Result{
		{
			Kernel:        "blur_h",
			Symbol:        "opencl___blur_h",
			SourceBytes:   2000,
			MinifiedBytes: 500,
			Passes:        3,
			Aliases:       8,
			Chunks:        7,
			Written:       true,
			Paths:         emit.Paths{Definition: "../opencl___blur_h.c", Declaration: "../opencl___blur_h.h"},
		},
		{
			Kernel:        "blur_v",
			Symbol:        "opencl___blur_v",
			SourceBytes:   1000,
			MinifiedBytes: 400,
			Passes:        2,
			Chunks:        6,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"table", FormatTable},
		{"text", FormatText},
		{"", FormatText},
		{"yaml", FormatText},
	}

	for _, tt := range tests {
		if got := ParseFormat(tt.input); got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestWriteResults_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatText, ColorNever).WriteResults(sampleResults()); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}

	want := "generated blur_h -> ../opencl___blur_h.c (2000 -> 500 bytes, 25%, 7 chunks, 3 passes)"
	if lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "checked   blur_v -> opencl___blur_v") {
		t.Errorf("line 1 = %q, want dry-run status", lines[1])
	}
	if strings.Contains(buf.String(), "\033[") {
		t.Error("ColorNever output must not contain escape codes")
	}
}

func TestWriteResults_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatTable, ColorNever).WriteResults(sampleResults()); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"KERNEL", "MINIFIED", "opencl___blur_h", "25%", "40%"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in table, got:\n%s", want, out)
		}
	}
}

func TestWriteResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatJSON, ColorNever).WriteResults(sampleResults()); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 results, got %d", len(decoded))
	}
	if decoded[0]["definition"] != "../opencl___blur_h.c" {
		t.Errorf("definition = %v", decoded[0]["definition"])
	}
	if _, ok := decoded[0]["Text"]; ok {
		t.Error("minified text must not be serialized")
	}
}

func TestWriteResults_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatJSON, ColorNever).WriteResults(nil); err != nil {
		t.Fatalf("WriteResults() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}
}

func TestWriteFailure(t *testing.T) {
	var buf bytes.Buffer
	if err := New(&buf, FormatText, ColorAlways).WriteFailure("blur", errors.New("boom")); err != nil {
		t.Fatalf("WriteFailure() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, colorRed) || !strings.Contains(out, colorReset) {
		t.Errorf("expected colored failure, got %q", out)
	}
	if !strings.Contains(out, "blur: boom") {
		t.Errorf("expected kernel and error, got %q", out)
	}
}

func TestWriteIdents(t *testing.T) {
	idents := []alias.Ident{{Name: "dst_strive", Count: 3}, {Name: "k", Count: 2}}

	var text bytes.Buffer
	if err := New(&text, FormatText, ColorNever).WriteIdents(idents); err != nil {
		t.Fatalf("WriteIdents() error = %v", err)
	}
	if !strings.Contains(text.String(), "     3  dst_strive") {
		t.Errorf("unexpected text output:\n%s", text.String())
	}

	var table bytes.Buffer
	if err := New(&table, FormatTable, ColorNever).WriteIdents(idents); err != nil {
		t.Fatalf("WriteIdents() error = %v", err)
	}
	if !strings.Contains(table.String(), "24") {
		t.Errorf("expected saved bytes 24 for dst_strive, got:\n%s", table.String())
	}

	var js bytes.Buffer
	if err := New(&js, FormatJSON, ColorNever).WriteIdents(nil); err != nil {
		t.Fatalf("WriteIdents() error = %v", err)
	}
	if strings.TrimSpace(js.String()) != "[]" {
		t.Errorf("expected [], got %q", js.String())
	}
}

func TestColorizeStatus(t *testing.T) {
	tests := []struct {
		status Status
		color  string
	}{
		{StatusGenerated, colorGreen},
		{StatusChecked, colorYellow},
		{StatusFailed, colorBold + colorRed},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			plain := ColorizeStatus(tt.status, false)
			if len(plain) != len(StatusGenerated) {
				t.Errorf("plain status %q not padded", plain)
			}

			colored := ColorizeStatus(tt.status, true)
			if !strings.HasPrefix(colored, tt.color) || !strings.HasSuffix(colored, colorReset) {
				t.Errorf("ColorizeStatus(%q) = %q", tt.status, colored)
			}
		})
	}
}

func TestShouldColorize(t *testing.T) {
	var buf bytes.Buffer

	if !shouldColorize(ColorAlways, &buf) {
		t.Error("ColorAlways should colorize")
	}
	if shouldColorize(ColorNever, &buf) {
		t.Error("ColorNever should not colorize")
	}
	if shouldColorize(ColorAuto, &buf) {
		t.Error("ColorAuto should not colorize a buffer")
	}

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	defer f.Close()
	if shouldColorize(ColorAuto, f) {
		t.Error("ColorAuto should not colorize a regular file")
	}
}
