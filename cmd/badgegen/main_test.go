package main

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/badgeapp/internal/layout"
)

func TestPrompt(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		assert.Equal(t, tt.want, prompt(strings.NewReader(tt.input), &out, "Continue?"), "input %q", tt.input)
		assert.Equal(t, "Continue? [y/N] ", out.String())
	}
}

func TestLayoutCommandPrintsDefault(t *testing.T) {
	t.Chdir(t.TempDir())
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"layout"})
	require.NoError(t, root.Execute())

	cfg, err := layout.Parse(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, layout.Default().Barcode, cfg.Barcode)
}

func writeTemplate(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, imaging.Save(imaging.New(w, h, color.White), path))
}

func TestGenerateWritesEveryFace(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BADGE_FONT_REGULAR", "")
	t.Setenv("BADGE_FONT_BOLD", "")
	t.Setenv("BADGE_LAYOUT", "")

	writeTemplate(t, "Front.png", 300, 200)
	writeTemplate(t, "Back.png", 300, 200)
	require.NoError(t, os.WriteFile("staff.csv",
		[]byte("Badge No,First Name,Last Name\n12345,Jane,Doe\n1234567,John,Smith\n"), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"generate", "--roster", "staff.csv", "--out-dir", "out", "--zip", "dist/badges.zip"})
	require.NoError(t, root.Execute())

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"001_Jane_Doe_12345_FRONT.png",
		"001_Jane_Doe_12345_BACK.png",
		"002_John_Smith_1234567_FRONT.png",
		"002_John_Smith_1234567_BACK.png",
	}, names)
	assert.FileExists(t, filepath.Join(dir, "dist", "badges.zip"))
}

func TestGenerateDeclinedMismatch(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BADGE_FONT_REGULAR", "")
	t.Setenv("BADGE_FONT_BOLD", "")
	t.Setenv("BADGE_LAYOUT", "")

	writeTemplate(t, "Front.png", 300, 200)
	writeTemplate(t, "Back.png", 320, 200)
	require.NoError(t, os.WriteFile("staff.csv", []byte("Badge,First,Last\n1,A,B\n"), 0o644))

	root := newRootCmd()
	root.SetIn(strings.NewReader("n\n"))
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"generate", "--roster", "staff.csv", "--out-dir", "out"})
	require.Error(t, root.Execute())
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestGenerateNeedsOutput(t *testing.T) {
	root := newRootCmd()
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"generate", "--roster", "staff.csv"})
	assert.ErrorContains(t, root.Execute(), "nothing to write")
}
