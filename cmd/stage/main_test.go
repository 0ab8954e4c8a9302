package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/registry"
)

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in       string
		expected string
	}{
		{"~/.stage/stage.log", filepath.Join(home, ".stage", "stage.log")},
		{"/var/log/stage.log", "/var/log/stage.log"},
		{"relative.log", "relative.log"},
	}
	for _, tc := range tests {
		got, err := expandHome(tc.in)
		if err != nil {
			t.Fatalf("expandHome(%q) failed: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Errorf("expandHome(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestPortOf(t *testing.T) {
	tests := map[string]string{
		":23234":         "23234",
		"localhost:2222": "2222",
		"nonsense":       "nonsense",
	}
	for in, expected := range tests {
		if got := portOf(in); got != expected {
			t.Errorf("portOf(%q) = %q, expected %q", in, got, expected)
		}
	}
}

func TestDefaultPlayer(t *testing.T) {
	t.Setenv("USER", "ann")
	if got := defaultPlayer(); got != "ann" {
		t.Errorf("defaultPlayer() = %q, expected ann", got)
	}
	t.Setenv("USER", "")
	if got := defaultPlayer(); got != "player" {
		t.Errorf("defaultPlayer() = %q, expected player", got)
	}
}

func TestPrintGames(t *testing.T) {
	var buf bytes.Buffer
	printGames(&buf, []registry.GameInfo{{ID: "stage", Title: "Stage"}})
	if !strings.Contains(buf.String(), "stage    Stage") {
		t.Errorf("unexpected listing:\n%s", buf.String())
	}

	buf.Reset()
	printGames(&buf, nil)
	if !strings.Contains(buf.String(), "No games available.") {
		t.Errorf("empty registry listing = %q", buf.String())
	}
}

func TestPrintPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	yaml := "rules:\n  base_lines: 2\n  fill_range: 4\n  fill_threshold: 0\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := printPresets(&buf, path, config.DifficultyHard); err != nil {
		t.Fatalf("printPresets() failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"  normal   0.90s      3        75%",
		"* hard     0.60s      5        75%",
		"  fixed    1.00s      3        75%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestPrintPresetsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	if err := os.WriteFile(path, []byte("rules:\n  fill_range: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := printPresets(&bytes.Buffer{}, path, config.DifficultyNormal); err == nil {
		t.Error("an invalid config should fail the listing")
	}
}
