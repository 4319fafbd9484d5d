package authorize

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadModel(t *testing.T) {
	t.Run("embedded when path empty", func(t *testing.T) {
		if _, err := LoadModel(""); err != nil {
			t.Fatalf("LoadModel: %v", err)
		}
	})

	t.Run("embedded when file missing", func(t *testing.T) {
		if _, err := LoadModel(filepath.Join(t.TempDir(), "missing.conf")); err != nil {
			t.Fatalf("LoadModel: %v", err)
		}
	})

	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.conf")
		if err := os.WriteFile(path, []byte(defaultModel), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadModel(path); err != nil {
			t.Fatalf("LoadModel: %v", err)
		}
	})
}

func TestNewEnforcerFileAdapter(t *testing.T) {
	dir := t.TempDir()
	policy := filepath.Join(dir, "policy.csv")
	rows := "p, role:student, sys, availability, list, allow\ng, u-1, role:student, sys\n"
	if err := os.WriteFile(policy, []byte(rows), 0644); err != nil {
		t.Fatal(err)
	}

	e, cleanup, err := NewEnforcer(Config{Adapter: AdapterFile, PolicyPath: policy}, "")
	if err != nil {
		t.Fatalf("NewEnforcer: %v", err)
	}
	defer cleanup(t.Context())

	ok, err := e.Enforce("u-1", "sys", "availability", "list")
	if err != nil || !ok {
		t.Errorf("Enforce() = %v, %v; want true, nil", ok, err)
	}
}

func TestNewEnforcerRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"file without path", Config{Adapter: AdapterFile}},
		{"unknown adapter", Config{Adapter: "mongo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewEnforcer(tt.cfg, "")
			if !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("NewEnforcer() error = %v, want ErrInvalidArgs", err)
			}
		})
	}
}
