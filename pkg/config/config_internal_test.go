package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestValidateFailOn(t *testing.T) {
	t.Parallel()
	data := []struct {
		name    string
		failOn  string
		wantErr bool
	}{
		{name: "empty", failOn: "", wantErr: false},
		{name: "low", failOn: "low", wantErr: false},
		{name: "medium", failOn: "medium", wantErr: false},
		{name: "high", failOn: "high", wantErr: false},
		{name: "upper case", failOn: "HIGH", wantErr: true},
		{name: "critical", failOn: "critical", wantErr: true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateFailOn(d.failOn)
			if d.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !d.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()
	data := []struct {
		name    string
		cfg     *Config
		wantErr bool
	}{
		{name: "empty", cfg: &Config{}, wantErr: false},
		{name: "valid constraint", cfg: &Config{Install: &Install{VersionConstraint: ">= 0.9.0, < 2"}}, wantErr: false},
		{name: "invalid constraint", cfg: &Config{Install: &Install{VersionConstraint: "latest"}}, wantErr: true},
		{name: "invalid fail_on", cfg: &Config{FailOn: "critical"}, wantErr: true},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			err := d.cfg.Validate()
			if d.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !d.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	t.Parallel()
	cfg := &Config{
		Path:    "infra",
		Reports: &Reports{SARIF: "out/guardrail.sarif"},
	}
	cfg.SetDefaults()
	exp := &Config{
		Path:    "infra",
		FailOn:  DefaultFailOn,
		Python:  DefaultPython,
		Install: &Install{},
		Policy:  &Policy{},
		Reports: &Reports{
			JSON:  DefaultJSON,
			SARIF: "out/guardrail.sarif",
			JUnit: DefaultJUnit,
		},
	}
	if diff := cmp.Diff(exp, cfg); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if !cfg.InstallEnabled() {
		t.Error("install must be enabled by default")
	}
	if !cfg.PublishJUnitEnabled() {
		t.Error("publish_junit must be enabled by default")
	}
}

func TestFinder_Find(t *testing.T) {
	t.Parallel()
	t.Run("explicit path", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		finder := NewFinder(fs)
		got, err := finder.Find("/custom/path.yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "/custom/path.yaml" {
			t.Errorf("wanted %q, got %q", "/custom/path.yaml", got)
		}
	})

	t.Run("search default paths", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, ".github/guardrail-task.yaml", []byte(""), 0o644); err != nil {
			t.Fatal(err)
		}
		finder := NewFinder(fs)
		got, err := finder.Find("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != ".github/guardrail-task.yaml" {
			t.Errorf("wanted %q, got %q", ".github/guardrail-task.yaml", got)
		}
	})
}

func TestReader_Read(t *testing.T) { //nolint:funlen
	t.Parallel()
	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		reader := NewReader(fs)
		cfg := &Config{}
		if err := reader.Read(cfg, ""); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		content := `path: infra
fail_on: medium
install:
  enabled: false
  version_constraint: ">= 0.9.0"
policy:
  layers:
    - base
    - prod
reports:
  sarif: out/guardrail.sarif
upload_sarif: true
`
		if err := afero.WriteFile(fs, ".guardrail-task.yaml", []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		reader := NewReader(fs)
		cfg := &Config{}
		if err := reader.Read(cfg, ".guardrail-task.yaml"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Path != "infra" {
			t.Errorf("Path: wanted infra, got %s", cfg.Path)
		}
		if cfg.FailOn != "medium" {
			t.Errorf("FailOn: wanted medium, got %s", cfg.FailOn)
		}
		if cfg.InstallEnabled() {
			t.Error("install must be disabled")
		}
		if diff := cmp.Diff([]string{"base", "prod"}, cfg.Policy.Layers); diff != "" {
			t.Errorf("policy layers (-want +got):\n%s", diff)
		}
		if !cfg.UploadSARIF {
			t.Error("upload_sarif must be true")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		reader := NewReader(fs)
		cfg := &Config{}
		if err := reader.Read(cfg, "nonexistent.yaml"); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, ".guardrail-task.yaml", []byte("invalid: yaml: content:"), 0o644); err != nil {
			t.Fatal(err)
		}
		reader := NewReader(fs)
		cfg := &Config{}
		if err := reader.Read(cfg, ".guardrail-task.yaml"); err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("invalid fail_on", func(t *testing.T) {
		t.Parallel()
		fs := afero.NewMemMapFs()
		if err := afero.WriteFile(fs, ".guardrail-task.yaml", []byte("fail_on: critical\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		reader := NewReader(fs)
		cfg := &Config{}
		if err := reader.Read(cfg, ".guardrail-task.yaml"); err == nil {
			t.Error("expected error, got nil")
		}
	})
}

func Test_getConfigPath(t *testing.T) {
	t.Parallel()
	data := []struct {
		name  string
		paths []string
		exp   string
	}{
		{
			name:  "no config",
			paths: []string{},
			exp:   "",
		},
		{
			name:  "primary",
			paths: []string{".guardrail-task.yaml"},
			exp:   ".guardrail-task.yaml",
		},
		{
			name:  "another",
			paths: []string{".github/guardrail-task.yml"},
			exp:   ".github/guardrail-task.yml",
		},
		{
			name:  "both primary and others",
			paths: []string{".guardrail-task.yaml", ".github/guardrail-task.yaml"},
			exp:   ".guardrail-task.yaml",
		},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			for _, path := range d.paths {
				if err := afero.WriteFile(fs, path, []byte(""), 0o644); err != nil {
					t.Fatal(err)
				}
			}
			got, err := getConfigPath(fs)
			if err != nil {
				t.Fatal(err)
			}
			if got != d.exp {
				t.Fatalf(`wanted %s, got %s`, d.exp, got)
			}
		})
	}
}
