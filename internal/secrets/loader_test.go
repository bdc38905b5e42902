package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSecret(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	return path
}

func TestLoadPrefersFile(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "from-env")
	path := writeSecret(t, "  from-file\n")

	got, err := Load(Source{Name: "gemini api key", File: path, Value: "inline", Env: "TEST_GEMINI_KEY"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestLoadFallsBackToValueThenEnv(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", `"from-env"`)

	got, err := Load(Source{Value: " inline ", Env: "TEST_GEMINI_KEY"})
	if err != nil || got != "inline" {
		t.Fatalf("expected inline value, got %q (%v)", got, err)
	}

	got, err = Load(Source{Env: "TEST_GEMINI_KEY"})
	if err != nil || got != "from-env" {
		t.Fatalf("expected unquoted env value, got %q (%v)", got, err)
	}
}

func TestLoadStripsQuotes(t *testing.T) {
	cases := map[string]string{
		`"abc"`:   "abc",
		`'abc'`:   "abc",
		`" abc "`: "abc",
		`"abc`:    `"abc`,
		`a"b"c`:   `a"b"c`,
	}
	for in, want := range cases {
		if got, _ := Load(Source{Value: in}); got != want {
			t.Fatalf("%q: expected %q, got %q", in, want, got)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("TEST_GEMINI_KEY", "")

	if _, err := Load(Source{Name: "gemini api key", File: writeSecret(t, " \n")}); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty file error, got %v", err)
	}
	if _, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatal("expected missing file error")
	}
	if _, err := Load(Source{Name: "gemini api key", Env: "TEST_GEMINI_KEY"}); err == nil || !strings.Contains(err.Error(), "TEST_GEMINI_KEY") {
		t.Fatalf("expected env hint in error, got %v", err)
	}
	if _, err := Load(Source{}); err == nil || !strings.Contains(err.Error(), "secret is not configured") {
		t.Fatalf("expected default name in error, got %v", err)
	}
}
