package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/sodash/internal/utils"
)

func TestSafeWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "2021", "branch.png")
	if err := utils.SafeWriteFile(path, []byte("png")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != "png" {
		t.Errorf("content = %q", b)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"a": 1})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "{\n  \"a\": 1\n}" {
		t.Errorf("unexpected json: %s", b)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cases := map[string]string{
		"~/data/survey.csv":     filepath.Join(home, "data", "survey.csv"),
		"~":                     home,
		"./a/../survey.csv":     "survey.csv",
		"https://example.com/x": "https://example.com/x",
		"":                      "",
	}
	for in, want := range cases {
		got, err := utils.ExpandPath(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
