package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsVarsFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"project.vars.yaml", true},
		{"w.vars.yml", true},
		{"UPPER.VARS.YAML", true},
		{"/some/dir/x.vars.yaml", true},
		{"vars.yaml", false},
		{"project.yaml", false},
		{"project.vars.json", false},
		{"project.vars", false},
	}

	for _, tt := range tests {
		if got := IsVarsFile(tt.name); got != tt.want {
			t.Errorf("IsVarsFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDiscoverVarsFile(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := DiscoverVarsFile(tmpDir)
	if err != nil {
		t.Fatalf("DiscoverVarsFile() error = %v", err)
	}
	if path != "" {
		t.Errorf("DiscoverVarsFile(empty dir) = %q, want empty", path)
	}

	// First match in listing order wins when several candidates exist
	for _, name := range []string{"b.vars.yaml", "a.vars.yaml", "z.yaml"} {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("k: 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	path, err = DiscoverVarsFile(tmpDir)
	if err != nil {
		t.Fatalf("DiscoverVarsFile() error = %v", err)
	}
	if filepath.Base(path) != "a.vars.yaml" {
		t.Errorf("DiscoverVarsFile() = %q, want a.vars.yaml (first in listing order)", path)
	}
}

func TestDiscoverVarsFileSkipsDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "sub.vars.yaml"), 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := DiscoverVarsFile(tmpDir)
	if err != nil {
		t.Fatalf("DiscoverVarsFile() error = %v", err)
	}
	if path != "" {
		t.Errorf("DiscoverVarsFile() = %q, want empty (directories ignored)", path)
	}
}

func TestLoadEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "w.vars.yaml")
	content := "model: claude\ncount: 3\nnested:\n  deep: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if env["model"] != "claude" {
		t.Errorf("env[model] = %v, want claude", env["model"])
	}
	if env["count"] != 3 {
		t.Errorf("env[count] = %v, want 3", env["count"])
	}
}

func TestLoadEnvFileEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "w.vars.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	env, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile(empty) error = %v", err)
	}
	if len(env) != 0 {
		t.Errorf("LoadEnvFile(empty) = %v, want empty environment", env)
	}
}

func TestLoadEnvFileErrors(t *testing.T) {
	tmpDir := t.TempDir()

	badSyntax := filepath.Join(tmpDir, "bad.vars.yaml")
	if err := os.WriteFile(badSyntax, []byte("a: [unclosed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEnvFile(badSyntax); err == nil {
		t.Error("LoadEnvFile(bad syntax) should fail")
	}

	listRoot := filepath.Join(tmpDir, "list.vars.yaml")
	if err := os.WriteFile(listRoot, []byte("- a\n- b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadEnvFile(listRoot); err == nil {
		t.Error("LoadEnvFile(sequence root) should fail")
	}

	if _, err := LoadEnvFile(filepath.Join(tmpDir, "missing.vars.yaml")); err == nil {
		t.Error("LoadEnvFile(missing) should fail")
	}
}

func TestStoreSwap(t *testing.T) {
	s := NewStore()
	if len(s.Snapshot()) != 0 {
		t.Error("new store should hold an empty environment")
	}

	s.Replace(map[string]any{"a": 1})
	if s.Snapshot()["a"] != 1 {
		t.Errorf("Snapshot()[a] = %v, want 1", s.Snapshot()["a"])
	}

	old := s.Snapshot()
	s.Replace(map[string]any{"b": 2})
	if _, ok := s.Snapshot()["a"]; ok {
		t.Error("Replace() merged instead of swapping")
	}
	if old["a"] != 1 {
		t.Error("Replace() mutated a published snapshot")
	}

	s.Reset()
	if len(s.Snapshot()) != 0 {
		t.Error("Reset() should leave an empty environment")
	}

	s.Replace(nil)
	if s.Snapshot() == nil {
		t.Error("Replace(nil) should normalize to an empty environment")
	}
}
