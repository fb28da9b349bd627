package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPath   = "."
	DefaultFailOn = "high"
	DefaultPython = "python3"
	DefaultJSON   = "guardrail-report.json"
	DefaultSARIF  = "guardrail-report.sarif"
	DefaultJUnit  = "guardrail-junit.xml"
)

type Config struct {
	Path         string   `json:"path,omitempty" jsonschema:"description=Terraform directory or file to scan. The default is the current directory"`
	State        string   `json:"state,omitempty" jsonschema:"description=Terraform state file to scan"`
	Schema       bool     `json:"schema,omitempty" jsonschema:"description=Validate resources against provider schemas"`
	FailOn       string   `json:"fail_on,omitempty" yaml:"fail_on" jsonschema:"enum=low,enum=medium,enum=high,description=Minimum severity that fails the scan"`
	Python       string   `json:"python,omitempty" jsonschema:"description=Python interpreter used to install and run the scanner"`
	Install      *Install `json:"install,omitempty"`
	Policy       *Policy  `json:"policy,omitempty"`
	Reports      *Reports `json:"reports,omitempty"`
	UploadSARIF  bool     `json:"upload_sarif,omitempty" yaml:"upload_sarif" jsonschema:"description=Upload the SARIF report to GitHub code scanning"`
	PublishJUnit *bool    `json:"publish_junit,omitempty" yaml:"publish_junit" jsonschema:"description=Publish the JUnit report as Azure Pipelines test results. The default is true"`
}

type Install struct {
	Enabled           *bool  `json:"enabled,omitempty" jsonschema:"description=Install the scanner with pip before scanning. The default is true"`
	Version           string `json:"version,omitempty" jsonschema:"description=Scanner version to install. The latest version is installed by default"`
	VersionConstraint string `json:"version_constraint,omitempty" yaml:"version_constraint" jsonschema:"description=Version constraint the installed scanner must satisfy (e.g. >= 0.9.0)"`
}

type Policy struct {
	Bundle   string   `json:"bundle,omitempty" jsonschema:"description=Policy bundle ID"`
	Registry string   `json:"registry,omitempty" jsonschema:"description=Policy registry URL"`
	Query    string   `json:"query,omitempty" jsonschema:"description=OPA query"`
	Layers   []string `json:"layers,omitempty" jsonschema:"description=Policy layers evaluated in order"`
	Base     string   `json:"base,omitempty" jsonschema:"description=Base policy bundle"`
	Env      string   `json:"env,omitempty" jsonschema:"description=Environment policy bundle"`
	App      string   `json:"app,omitempty" jsonschema:"description=Application policy bundle"`
}

type Reports struct {
	JSON  string `json:"json,omitempty" jsonschema:"description=Path of the raw JSON report"`
	SARIF string `json:"sarif,omitempty" jsonschema:"description=Path of the SARIF report"`
	JUnit string `json:"junit,omitempty" jsonschema:"description=Path of the JUnit report"`
}

// InstallEnabled reports whether the scanner should be installed before scanning.
func (c *Config) InstallEnabled() bool {
	if c.Install == nil || c.Install.Enabled == nil {
		return true
	}
	return *c.Install.Enabled
}

func (c *Config) PublishJUnitEnabled() bool {
	if c.PublishJUnit == nil {
		return true
	}
	return *c.PublishJUnit
}

// SetDefaults fills unset values.
func (c *Config) SetDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.FailOn == "" {
		c.FailOn = DefaultFailOn
	}
	if c.Python == "" {
		c.Python = DefaultPython
	}
	if c.Install == nil {
		c.Install = &Install{}
	}
	if c.Policy == nil {
		c.Policy = &Policy{}
	}
	if c.Reports == nil {
		c.Reports = &Reports{}
	}
	if c.Reports.JSON == "" {
		c.Reports.JSON = DefaultJSON
	}
	if c.Reports.SARIF == "" {
		c.Reports.SARIF = DefaultSARIF
	}
	if c.Reports.JUnit == "" {
		c.Reports.JUnit = DefaultJUnit
	}
}

func (c *Config) Validate() error {
	if err := ValidateFailOn(c.FailOn); err != nil {
		return err
	}
	if c.Install != nil && c.Install.VersionConstraint != "" {
		if _, err := version.NewConstraint(c.Install.VersionConstraint); err != nil {
			return fmt.Errorf("parse install.version_constraint: %w", err)
		}
	}
	return nil
}

// ValidateFailOn accepts an empty value, which means the default.
func ValidateFailOn(s string) error {
	switch s {
	case "", "low", "medium", "high":
		return nil
	default:
		return errors.New("fail_on must be low, medium, or high")
	}
}

func getConfigPath(fs afero.Fs) (string, error) {
	for _, path := range []string{".guardrail-task.yaml", ".guardrail-task.yml", ".github/guardrail-task.yaml", ".github/guardrail-task.yml"} {
		f, err := afero.Exists(fs, path)
		if err != nil {
			return "", fmt.Errorf("check if %s exists: %w", path, err)
		}
		if f {
			return path, nil
		}
	}
	return "", nil
}

type Finder struct {
	fs afero.Fs
}

func NewFinder(fs afero.Fs) *Finder {
	return &Finder{fs: fs}
}

func (f *Finder) Find(configFilePath string) (string, error) {
	if configFilePath != "" {
		return configFilePath, nil
	}
	p, err := getConfigPath(f.fs)
	if err != nil {
		return "", err
	}
	return p, nil
}

type Reader struct {
	fs afero.Fs
}

func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

func (r *Reader) Read(cfg *Config, configFilePath string) error {
	if configFilePath == "" {
		return nil
	}
	f, err := r.fs.Open(configFilePath)
	if err != nil {
		return fmt.Errorf("open a configuration file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode a configuration file as YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate a configuration file: %w", err)
	}
	return nil
}
